package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/walkcat/pkg/store"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

var backends = []string{types.BackendJSON, types.BackendSQLite}

// frozenClock returns a clock that reports the same instant until advanced.
type frozenClock struct{ t time.Time }

func (c *frozenClock) now() time.Time          { return c.t }
func (c *frozenClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func openStore(t *testing.T, backend string) types.Store {
	t.Helper()
	s, err := store.Open(types.Config{Backend: backend, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Detach() })
	return s
}

func newTestCatalog(t *testing.T, backend string) (*Catalog, types.Store, *frozenClock) {
	t.Helper()
	s := openStore(t, backend)
	clock := &frozenClock{t: time.Unix(1_700_000_000, 0)}
	return New(s, WithClock(clock.now)), s, clock
}

func eachBackend(t *testing.T, fn func(t *testing.T, backend string)) {
	for _, b := range backends {
		t.Run(b, func(t *testing.T) { fn(t, b) })
	}
}

func allDocs(t *testing.T, s types.Store, table string) []types.Document {
	t.Helper()
	tbl, err := s.GetTable(table)
	require.NoError(t, err)
	docs, err := tbl.Search(nil)
	require.NoError(t, err)
	return docs
}

func coll(title, folder string, extra ...any) types.Fields {
	f := types.Fields{types.FieldCollectionTitle: title, types.FieldCollectionFolder: folder}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	return f
}

func seed(title, folder, name string, extra ...any) types.Fields {
	f := coll(title, folder, extra...)
	f[types.FieldSeedName] = name
	return f
}
