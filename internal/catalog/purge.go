package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Purge removes every record from the main table of k and returns how many
// were removed. The backup table is left alone. Without confirmation it
// returns ErrPurgeNotConfirmed and touches nothing.
func (c *Catalog) Purge(k Kind, confirmed bool) (int, error) {
	if !confirmed {
		return 0, fmt.Errorf("purge %s: %w", k.Main, types.ErrPurgeNotConfirmed)
	}
	main, err := c.store.GetTable(k.Main)
	if err != nil {
		return 0, fmt.Errorf("get table %s: %w", k.Main, err)
	}
	n, err := main.Len()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", k.Main, err)
	}
	if err := main.Purge(); err != nil {
		return 0, fmt.Errorf("purge %s: %w", k.Main, err)
	}
	c.log.Warn("purged table", zap.String("table", k.Main), zap.Int("records", n))
	return n, nil
}
