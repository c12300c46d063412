// Package docstore implements the JSON document backend for walkcat: every
// table lives in one JSON file that is rewritten whole on each mutation.
//
// The backend is single-writer. A mutex serialises callers sharing one
// Backend; there is no file lock, so two processes writing the same
// document silently overwrite each other.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a single JSON document.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	path     string
	tables   map[string]tableData
	marks    map[string]int // eid high-water marks, see lastEIDLocked

	syncStrategy string // immediate or on_close
	dirty        bool   // on_close: unsaved mutations pending
}

// NewBackend creates a new JSON document backend.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach loads the document named by config from DataDir, creating DataDir
// and an empty document when they do not exist.
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

	path := filepath.Join(dataDir, config.DocumentName())
	tables, marks, err := readDocument(path)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	b.config = config
	b.path = path
	b.tables = tables
	b.marks = marks
	b.syncStrategy = config.SyncStrategy()
	b.dirty = false

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := b.persistLocked(); err != nil {
			return fmt.Errorf("initialize document: %w", err)
		}
	}

	b.attached = true
	return nil
}

// Detach writes any deferred mutations and releases the in-memory tables.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.dirty {
		if err := b.persistLocked(); err != nil {
			return fmt.Errorf("flush document: %w", err)
		}
	}

	b.attached = false
	b.tables = nil
	b.marks = nil
	return nil
}

// Flush writes deferred mutations to disk. It is a no-op under the
// immediate strategy, where every mutation is already on disk.
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if !b.dirty {
		return nil
	}
	return b.persistLocked()
}

// GetTable returns an accessor for the named table. The table exists in the
// document once a document has been inserted into it. The name holding the
// eid marks is reserved.
func (b *Backend) GetTable(name string) (types.Table, error) {
	if name == "" || name == sequencesKey {
		return nil, types.ErrInvalidName
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return &table{name: name, backend: b}, nil
}

// TableNames lists the tables that hold documents or have assigned an eid,
// sorted.
func (b *Backend) TableNames() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	var names []string
	for name, td := range b.tables {
		if len(td) > 0 || b.marks[name] > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the document file path. Empty until attached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// lastEIDLocked returns the larger of the table's recorded mark and its
// largest stored eid. The caller must hold b.mu.
func (b *Backend) lastEIDLocked(name string) int {
	return max(b.marks[name], maxEID(b.tables[name]))
}

// mutatedLocked records a mutation according to the sync strategy.
// The caller must hold b.mu for writing.
func (b *Backend) mutatedLocked() error {
	if b.syncStrategy == types.SyncOnClose {
		b.dirty = true
		return nil
	}
	return b.persistLocked()
}

// persistLocked rewrites the whole document. The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	data, err := encodeDocument(b.tables, b.marks)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := writeDocument(b.path, data); err != nil {
		return err
	}
	b.dirty = false
	return nil
}
