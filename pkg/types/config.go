package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	Sync     string `json:"sync,omitempty" yaml:"sync,omitempty"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Sync strategies. Immediate rewrites the store on every mutation; on_close
// defers the rewrite to Flush or Detach.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// DefaultDocument is the JSON document file name used when Config.Document
// is empty.
const DefaultDocument = "walkcat.json"

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
)

var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

var knownSyncStrategies = map[string]bool{
	"":            true,
	SyncImmediate: true,
	SyncOnClose:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownSyncStrategies[c.Sync] {
		return ErrSyncStrategyUnknown
	}
	return nil
}

// DocumentName returns the configured document file name or the default.
func (c Config) DocumentName() string {
	if c.Document == "" {
		return DefaultDocument
	}
	return c.Document
}

// SyncStrategy returns the effective sync strategy, defaulting to immediate.
func (c Config) SyncStrategy() string {
	if c.Sync == "" {
		return SyncImmediate
	}
	return c.Sync
}
