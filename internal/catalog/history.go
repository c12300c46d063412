package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// History returns the backup entries recorded for the main-table record
// eid, oldest first. Entries are located by their _source_eid provenance
// field, so they follow the record across renames; their own key fields
// keep the values the record had when it was backed up.
func (c *Catalog) History(k Kind, eid int) ([]types.Document, error) {
	if eid < 1 {
		return nil, types.ErrInvalidID
	}
	backup, err := c.store.GetTable(k.Backup)
	if err != nil {
		return nil, fmt.Errorf("get table %s: %w", k.Backup, err)
	}
	entries, err := backup.Search(types.Filter{FieldSourceEID: eid})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", k.Backup, err)
	}
	return entries, nil
}
