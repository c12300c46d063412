package catalog

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Entry pairs one collection with the seeds that belong to it.
type Entry struct {
	Collection types.Document   `json:"collection"`
	Seeds      []types.Document `json:"seeds"`
}

// Listing returns every collection in store order, each with its seeds in
// store order. A seed belongs to a collection when their titles are equal
// and, if both carry a folder, their folders are equal too.
func (c *Catalog) Listing() ([]Entry, error) {
	collTable, err := c.store.GetTable(Collections.Main)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", Collections.Main, err)
	}
	seedTable, err := c.store.GetTable(Seeds.Main)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", Seeds.Main, err)
	}

	collections, err := collTable.Search(nil)
	if err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}
	seeds, err := seedTable.Search(nil)
	if err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}

	entries := make([]Entry, 0, len(collections))
	for _, coll := range collections {
		e := Entry{Collection: coll, Seeds: []types.Document{}}
		for _, s := range seeds {
			if belongsTo(s.Fields, coll.Fields) {
				e.Seeds = append(e.Seeds, s)
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func belongsTo(seed, coll types.Fields) bool {
	title, ok := coll.String(types.FieldCollectionTitle)
	if !ok {
		return false
	}
	if st, ok := seed.String(types.FieldCollectionTitle); !ok || st != title {
		return false
	}
	cf, _ := coll.String(types.FieldCollectionFolder)
	sf, _ := seed.String(types.FieldCollectionFolder)
	return cf == "" || sf == "" || cf == sf
}

// WriteListing prints each collection title followed by its seed names,
// one per line, indented by a tab.
func WriteListing(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		title, _ := e.Collection.Fields.String(types.FieldCollectionTitle)
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		for _, s := range e.Seeds {
			name, _ := s.Fields.String(types.FieldSeedName)
			if _, err := fmt.Fprintf(w, "\t%s\n", name); err != nil {
				return err
			}
		}
	}
	return nil
}
