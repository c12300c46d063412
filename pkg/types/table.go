package types

import "errors"

// Table provides document operations for a single named table.
// Documents are flat field maps addressed by a store-assigned eid.
type Table interface {
	// Name returns the table name.
	Name() string

	// Get retrieves the document with the given eid.
	// Returns ErrNotFound if no document exists with that eid.
	Get(eid int) (Document, error)

	// Insert stores fields as a new document and returns its eid.
	// Eids start at 1 and grow past the largest eid the table has ever
	// held, so an eid freed by Delete or Purge is never handed out again.
	Insert(fields Fields) (int, error)

	// Update overwrites the listed fields of one document, keeping the
	// fields it does not mention. Returns ErrNotFound for an unknown eid.
	Update(eid int, fields Fields) error

	// Search returns the documents matching every entry of filter, in eid
	// order. An empty filter returns every document in the table.
	Search(filter Filter) ([]Document, error)

	// Len returns the number of documents in the table.
	Len() (int, error)

	// Delete removes one document. Returns ErrNotFound for an unknown eid.
	Delete(eid int) error

	// Purge removes every document from the table.
	Purge() error

	// LastEID returns the largest eid the table has assigned or restored,
	// or 0 for a table that never held a document.
	LastEID() (int, error)

	// Restore replaces the table's contents with docs, keeping their eids.
	// lastEID raises the table's eid sequence so eids used elsewhere are
	// not assigned again. Returns ErrInvalidID for an eid below 1 or
	// repeated in docs.
	Restore(docs []Document, lastEID int) error
}

// Table operation errors.
var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidID   = errors.New("invalid document eid")
	ErrInvalidData = errors.New("invalid document data")
	ErrInvalidName = errors.New("invalid table name")
)

// Catalogue errors.
var (
	ErrMissingKey        = errors.New("key field missing or empty")
	ErrDuplicateKey      = errors.New("key matches more than one document")
	ErrKeyConflict       = errors.New("key already used by another document")
	ErrPurgeNotConfirmed = errors.New("purge requires confirmation")
)
