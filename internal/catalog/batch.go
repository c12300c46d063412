package catalog

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Batch is a set of records to upsert, read from a YAML or JSON file:
//
//	collections:
//	  - collection_title: Occupy Movement
//	    WALK_collection_folder: WALK_occupy
//	seeds:
//	  - collection_title: Occupy Movement
//	    WALK_collection_folder: WALK_occupy
//	    seed_name: occupywallst.org
type Batch struct {
	Collections []types.Fields `yaml:"collections"`
	Seeds       []types.Fields `yaml:"seeds"`
}

// LoadSummary counts the outcome of Load.
type LoadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// ParseBatch decodes a batch and checks every record's key fields. Nothing
// is written, so a malformed file never leaves a half-applied batch.
//
// A key field written as a bare YAML number keeps its source text, so
// WALK_collection_folder: 2011 reads as "2011".
func ParseBatch(r io.Reader) (Batch, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, nil
		}
		return Batch{}, fmt.Errorf("parse batch: %w", err)
	}
	var b Batch
	if err := doc.Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("parse batch: %w", err)
	}
	if err := checkKeys(Collections, b.Collections, numericKeys(&doc, "collections", Collections.Key)); err != nil {
		return Batch{}, err
	}
	if err := checkKeys(Seeds, b.Seeds, numericKeys(&doc, "seeds", Seeds.Key)); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func checkKeys(k Kind, records []types.Fields, numeric []map[string]string) error {
	for i, rec := range records {
		normalize(rec)
		if i < len(numeric) {
			for name, text := range numeric[i] {
				rec[name] = text
			}
		}
		if _, err := types.KeyFilter(rec, k.Key); err != nil {
			return fmt.Errorf("%s %d: %w", k.Name, i+1, err)
		}
	}
	return nil
}

// numericKeys returns, per record of section, the source text of the key
// fields written as YAML numbers.
func numericKeys(doc *yaml.Node, section string, keys []string) []map[string]string {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != section {
			continue
		}
		seq := root.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return nil
		}
		out := make([]map[string]string, len(seq.Content))
		for j, item := range seq.Content {
			if item.Kind != yaml.MappingNode {
				continue
			}
			for p := 0; p+1 < len(item.Content); p += 2 {
				name, val := item.Content[p].Value, item.Content[p+1]
				if val.Kind != yaml.ScalarNode || !slices.Contains(keys, name) {
					continue
				}
				if tag := val.ShortTag(); tag == "!!int" || tag == "!!float" {
					if out[j] == nil {
						out[j] = map[string]string{}
					}
					out[j][name] = val.Value
				}
			}
		}
		return out
	}
	return nil
}

// normalize turns YAML timestamps back into date strings.
func normalize(rec types.Fields) {
	for k, v := range rec {
		if t, ok := v.(time.Time); ok {
			if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
				rec[k] = t.Format(time.DateOnly)
			} else {
				rec[k] = t.Format(time.RFC3339)
			}
		}
	}
}

// Load upserts every collection, then every seed, in file order.
func (c *Catalog) Load(b Batch) (LoadSummary, error) {
	var sum LoadSummary
	apply := func(k Kind, records []types.Fields) error {
		for i, rec := range records {
			r, err := c.Upsert(k, rec)
			if err != nil {
				return fmt.Errorf("%s %d: %w", k.Name, i+1, err)
			}
			if r.Inserted {
				sum.Inserted++
			} else {
				sum.Updated++
			}
		}
		return nil
	}
	if err := apply(Collections, b.Collections); err != nil {
		return sum, err
	}
	if err := apply(Seeds, b.Seeds); err != nil {
		return sum, err
	}
	return sum, nil
}
