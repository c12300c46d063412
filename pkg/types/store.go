package types

import "errors"

// Store defines backend-agnostic access to a set of named tables.
// Callers attach to a backend, access tables by name, and detach when done.
// A Store is meant for a single writer: it serialises calls made through one
// handle, but nothing stops a second process from rewriting the same files.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases backend resources.
	// Idempotent: multiple calls succeed. After Detach, operations on
	// tables return ErrStoreDetached.
	Detach() error

	// Flush persists any writes deferred by the sync strategy.
	Flush() error

	// GetTable returns the Table with the given name, creating it lazily.
	// Returns ErrInvalidName for an empty name.
	GetTable(name string) (Table, error)

	// TableNames lists the tables that have held at least one document,
	// sorted.
	TableNames() ([]string, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
