// Package catalog implements the walkcat record procedures on top of a
// types.Store: upsert-with-backup for collection and seed records, the
// collection-to-seed listing, backup history, rename, purge, batch load,
// and export between stores.
//
// A Catalog assumes it is the only writer of its store. Concurrent
// processes can race between the existence check and the write.
package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Kind names the tables and identity fields of one record kind.
type Kind struct {
	Name   string   // singular, for messages
	Main   string   // main table
	Backup string   // append-only history of overwritten versions
	Key    []string // identity fields, all required
}

// The two record kinds.
var (
	Collections = Kind{
		Name:   "collection",
		Main:   types.CollectionsTable,
		Backup: types.CollectionsBackupTable,
		Key:    types.CollectionKey,
	}
	Seeds = Kind{
		Name:   "seed",
		Main:   types.SeedsTable,
		Backup: types.SeedsBackupTable,
		Key:    types.SeedKey,
	}
)

// KindByTable returns the kind whose main table is name.
func KindByTable(name string) (Kind, error) {
	switch name {
	case Collections.Main:
		return Collections, nil
	case Seeds.Main:
		return Seeds, nil
	}
	return Kind{}, fmt.Errorf("%q: %w", name, types.ErrInvalidName)
}

// Catalog runs record procedures against an attached store.
type Catalog struct {
	store types.Store
	now   func() time.Time
	newID func() (string, error)
	log   *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock replaces the write-time source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// New creates a Catalog over an attached store.
func New(store types.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store: store,
		now:   time.Now,
		newID: newBackupID,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tables resolves the main and backup tables of k.
func (c *Catalog) tables(k Kind) (main, backup types.Table, err error) {
	main, err = c.store.GetTable(k.Main)
	if err != nil {
		return nil, nil, fmt.Errorf("get table %s: %w", k.Main, err)
	}
	backup, err = c.store.GetTable(k.Backup)
	if err != nil {
		return nil, nil, fmt.Errorf("get table %s: %w", k.Backup, err)
	}
	return main, backup, nil
}

// Find returns the single document of kind k whose key fields equal those of
// key. Returns ErrNotFound or ErrDuplicateKey otherwise.
func (c *Catalog) Find(k Kind, key types.Fields) (types.Document, error) {
	filter, err := types.KeyFilter(key, k.Key)
	if err != nil {
		return types.Document{}, fmt.Errorf("%s: %w", k.Name, err)
	}
	main, err := c.store.GetTable(k.Main)
	if err != nil {
		return types.Document{}, fmt.Errorf("get table %s: %w", k.Main, err)
	}
	matches, err := main.Search(filter)
	if err != nil {
		return types.Document{}, fmt.Errorf("search %s: %w", k.Main, err)
	}
	switch len(matches) {
	case 0:
		return types.Document{}, fmt.Errorf("%s: %w", k.Name, types.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return types.Document{}, fmt.Errorf("%s: %d documents: %w", k.Name, len(matches), types.ErrDuplicateKey)
	}
}

// FindCollection looks up a collection by title and folder.
func (c *Catalog) FindCollection(title, folder string) (types.Document, error) {
	return c.Find(Collections, types.Fields{
		types.FieldCollectionTitle:  title,
		types.FieldCollectionFolder: folder,
	})
}

// FindSeed looks up a seed by collection title, folder, and seed name.
func (c *Catalog) FindSeed(title, folder, name string) (types.Document, error) {
	return c.Find(Seeds, types.Fields{
		types.FieldCollectionTitle:  title,
		types.FieldCollectionFolder: folder,
		types.FieldSeedName:         name,
	})
}

func newBackupID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return id.String(), nil
}
