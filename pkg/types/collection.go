package types

// Field names shared by collection and seed records.
const (
	FieldCollectionTitle  = "collection_title"
	FieldCollectionFolder = "WALK_collection_folder"
	FieldTimestamp        = "timestamp"
	FieldDescription      = "description"
)

// Collection record field names.
const (
	FieldInstitution           = "institution"
	FieldScopeNote             = "scope_note"
	FieldTimemapURL            = "timemap_url"
	FieldGephiFile             = "gephi_file"
	FieldGephiNotes            = "gephi_notes"
	FieldAverageDegree         = "average_degree"
	FieldAverageWeightedDegree = "average_weighted_degree"
	FieldClusteringCoefficient = "clustering_coefficient"
)

// CollectionKey lists the fields that identify a collection record.
var CollectionKey = []string{FieldCollectionTitle, FieldCollectionFolder}

// Collection describes one web-archive collection: its scope, institutional
// description, and the graph statistics transcribed from a crawl
// visualization. Unrecognised fields survive a round trip in Extra.
type Collection struct {
	Title       string
	Folder      string
	Description string
	Institution string
	ScopeNote   string
	TimemapURL  string

	// Gephi observations, transcribed by hand.
	GephiFile             string
	GephiNotes            string
	AverageDegree         *float64
	AverageWeightedDegree *float64
	ClusteringCoefficient *float64

	// Timestamp is the write time in seconds since the epoch. Set by the
	// catalogue; ignored when the record is written.
	Timestamp float64

	Extra Fields
}

// Fields flattens the collection into a record body. Empty strings and nil
// statistics are omitted so an update never blanks a field it did not set.
func (c Collection) Fields() Fields {
	f := c.Extra.Clone()
	f[FieldCollectionTitle] = c.Title
	f[FieldCollectionFolder] = c.Folder
	putString(f, FieldDescription, c.Description)
	putString(f, FieldInstitution, c.Institution)
	putString(f, FieldScopeNote, c.ScopeNote)
	putString(f, FieldTimemapURL, c.TimemapURL)
	putString(f, FieldGephiFile, c.GephiFile)
	putString(f, FieldGephiNotes, c.GephiNotes)
	putFloat(f, FieldAverageDegree, c.AverageDegree)
	putFloat(f, FieldAverageWeightedDegree, c.AverageWeightedDegree)
	putFloat(f, FieldClusteringCoefficient, c.ClusteringCoefficient)
	return f
}

// CollectionFromFields builds a Collection from a stored record body.
func CollectionFromFields(f Fields) Collection {
	c := Collection{Extra: Fields{}}
	for k, v := range f {
		switch k {
		case FieldCollectionTitle:
			c.Title, _ = v.(string)
		case FieldCollectionFolder:
			c.Folder, _ = v.(string)
		case FieldDescription:
			c.Description, _ = v.(string)
		case FieldInstitution:
			c.Institution, _ = v.(string)
		case FieldScopeNote:
			c.ScopeNote, _ = v.(string)
		case FieldTimemapURL:
			c.TimemapURL, _ = v.(string)
		case FieldGephiFile:
			c.GephiFile, _ = v.(string)
		case FieldGephiNotes:
			c.GephiNotes, _ = v.(string)
		case FieldAverageDegree:
			c.AverageDegree = floatPtr(v)
		case FieldAverageWeightedDegree:
			c.AverageWeightedDegree = floatPtr(v)
		case FieldClusteringCoefficient:
			c.ClusteringCoefficient = floatPtr(v)
		case FieldTimestamp:
			c.Timestamp, _ = toFloat(v)
		default:
			c.Extra[k] = v
		}
	}
	return c
}

func putString(f Fields, key, v string) {
	if v != "" {
		f[key] = v
	}
}

func putFloat(f Fields, key string, v *float64) {
	if v != nil {
		f[key] = *v
	}
}

func putInt(f Fields, key string, v *int) {
	if v != nil {
		f[key] = *v
	}
}

func intPtr(f Fields, key string) *int {
	n, ok := f.Int(key)
	if !ok {
		return nil
	}
	return &n
}

func floatPtr(v any) *float64 {
	n, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &n
}
