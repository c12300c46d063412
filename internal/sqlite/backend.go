// Package sqlite implements the SQLite backend for walkcat.
// Records live as JSON text in one documents table keyed by (table, eid).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// DatabaseFile is the SQLite file name inside DataDir.
const DatabaseFile = "walkcat.db"

// querier is the subset of *sql.DB and *sql.Tx the tables use.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Backend implements types.Store on a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// Sync strategy state. Under on_close every statement runs inside tx,
	// which Flush and Detach commit.
	syncStrategy string
	tx           *sql.Tx
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) DataDir/walkcat.db and applies the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return err
	}
	// One connection keeps the on_close transaction and plain statements
	// on the same session.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO store_meta (key, value) VALUES ('schema_version', ?)", schemaVersion,
	); err != nil {
		db.Close()
		return fmt.Errorf("recording schema version: %w", err)
	}

	b.db = db
	b.config = config
	b.syncStrategy = config.SyncStrategy()

	if b.syncStrategy == types.SyncOnClose {
		if err := b.beginLocked(); err != nil {
			db.Close()
			b.db = nil
			return err
		}
	}

	b.attached = true
	return nil
}

// Detach commits deferred writes and closes the database.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.tx != nil {
		if err := b.tx.Commit(); err != nil {
			return fmt.Errorf("flush pending writes: %w", err)
		}
		b.tx = nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Flush commits deferred writes under on_close and opens a fresh
// transaction. It is a no-op under immediate sync.
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if b.tx == nil {
		return nil
	}
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit pending writes: %w", err)
	}
	b.tx = nil
	return b.beginLocked()
}

// GetTable returns an accessor for the named table.
func (b *Backend) GetTable(name string) (types.Table, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return &table{name: name, backend: b}, nil
}

// TableNames lists the tables that hold documents or have a recorded eid
// mark, sorted.
func (b *Backend) TableNames() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	rows, err := b.q().Query(`SELECT table_name FROM documents
UNION SELECT table_name FROM eid_sequences WHERE last_eid > 0
ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// q returns the open transaction under on_close, otherwise the database.
// The caller must hold b.mu.
func (b *Backend) q() querier {
	if b.tx != nil {
		return b.tx
	}
	return b.db
}

func (b *Backend) beginLocked() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	b.tx = tx
	return nil
}
