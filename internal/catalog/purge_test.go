package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

func TestPurge(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend string) {
		c, s, _ := newTestCatalog(t, backend)

		_, err := c.Upsert(Seeds, seed("C1", "F1", "S1", "url", "a"))
		require.NoError(t, err)
		_, err = c.Upsert(Seeds, seed("C1", "F1", "S1", "url", "b"))
		require.NoError(t, err)
		_, err = c.Upsert(Seeds, seed("C1", "F1", "S2"))
		require.NoError(t, err)

		_, err = c.Purge(Seeds, false)
		assert.ErrorIs(t, err, types.ErrPurgeNotConfirmed)
		assert.Len(t, allDocs(t, s, types.SeedsTable), 2)

		n, err := c.Purge(Seeds, true)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Empty(t, allDocs(t, s, types.SeedsTable))
		assert.Len(t, allDocs(t, s, types.SeedsBackupTable), 1, "backups survive a purge")
	})
}
