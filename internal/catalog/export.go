package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Export copies tables from src into dst, replacing each destination table
// and keeping eids and eid marks, so backup _source_eid references stay
// valid and purged eids stay retired. A nil tables slice copies every
// table src lists. It returns the number
// of documents copied per table.
func Export(dst, src types.Store, tables []string) (map[string]int, error) {
	if tables == nil {
		names, err := src.TableNames()
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		tables = names
	}

	counts := make(map[string]int, len(tables))
	for _, name := range tables {
		from, err := src.GetTable(name)
		if err != nil {
			return counts, fmt.Errorf("source table %s: %w", name, err)
		}
		docs, err := from.Search(nil)
		if err != nil {
			return counts, fmt.Errorf("read %s: %w", name, err)
		}
		last, err := from.LastEID()
		if err != nil {
			return counts, fmt.Errorf("read %s: %w", name, err)
		}
		to, err := dst.GetTable(name)
		if err != nil {
			return counts, fmt.Errorf("destination table %s: %w", name, err)
		}
		if err := to.Restore(docs, last); err != nil {
			return counts, fmt.Errorf("write %s: %w", name, err)
		}
		counts[name] = len(docs)
	}
	if err := dst.Flush(); err != nil {
		return counts, fmt.Errorf("flush destination: %w", err)
	}
	return counts, nil
}
