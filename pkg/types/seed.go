package types

// Seed record field names.
const (
	FieldSeedName        = "seed_name"
	FieldFirstCrawlDate  = "first_crawl_date"
	FieldLatestCrawlDate = "latest_crawl_date"
	FieldCaptureCount    = "capture_count"
	FieldVideoCount      = "video_count"
	FieldURL             = "url"
)

// SeedKey lists the fields that identify a seed record.
var SeedKey = []string{FieldCollectionTitle, FieldCollectionFolder, FieldSeedName}

// Seed describes one archived website within a collection. The collection is
// referenced by value through Title and Folder.
type Seed struct {
	Title           string
	Folder          string
	Name            string
	FirstCrawlDate  string
	LatestCrawlDate string
	CaptureCount    *int
	VideoCount      *int
	URL             string
	Description     string
	Timestamp       float64
	Extra           Fields
}

// Fields flattens the seed into a record body. Empty strings and nil counts
// are omitted, as for Collection.
func (s Seed) Fields() Fields {
	f := s.Extra.Clone()
	f[FieldCollectionTitle] = s.Title
	f[FieldCollectionFolder] = s.Folder
	f[FieldSeedName] = s.Name
	putString(f, FieldFirstCrawlDate, s.FirstCrawlDate)
	putString(f, FieldLatestCrawlDate, s.LatestCrawlDate)
	putInt(f, FieldCaptureCount, s.CaptureCount)
	putInt(f, FieldVideoCount, s.VideoCount)
	putString(f, FieldURL, s.URL)
	putString(f, FieldDescription, s.Description)
	return f
}

// SeedFromFields builds a Seed from a stored record body.
func SeedFromFields(f Fields) Seed {
	s := Seed{Extra: Fields{}}
	for k, v := range f {
		switch k {
		case FieldCollectionTitle:
			s.Title, _ = v.(string)
		case FieldCollectionFolder:
			s.Folder, _ = v.(string)
		case FieldSeedName:
			s.Name, _ = v.(string)
		case FieldFirstCrawlDate:
			s.FirstCrawlDate, _ = v.(string)
		case FieldLatestCrawlDate:
			s.LatestCrawlDate, _ = v.(string)
		case FieldCaptureCount:
			s.CaptureCount = intPtr(f, k)
		case FieldVideoCount:
			s.VideoCount = intPtr(f, k)
		case FieldURL:
			s.URL, _ = v.(string)
		case FieldDescription:
			s.Description, _ = v.(string)
		case FieldTimestamp:
			s.Timestamp, _ = toFloat(v)
		default:
			s.Extra[k] = v
		}
	}
	return s
}
