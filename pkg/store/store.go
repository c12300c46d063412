// Package store provides the public factory for walkcat storage backends,
// keeping backend implementations internal.
package store

import (
	"github.com/mesh-intelligence/walkcat/internal/docstore"
	"github.com/mesh-intelligence/walkcat/internal/sqlite"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// New returns an unattached backend for cfg.Backend.
// Returns ErrBackendEmpty or ErrBackendUnknown for a bad backend name.
func New(cfg types.Config) (types.Store, error) {
	switch cfg.Backend {
	case types.BackendJSON:
		return docstore.NewBackend(), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open creates the configured backend and attaches it. The caller must
// Detach the returned store.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendJSON,
//	    DataDir: ".walkcat-db",
//	})
//	defer s.Detach()
func Open(cfg types.Config) (types.Store, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(cfg); err != nil {
		return nil, err
	}
	return s, nil
}
