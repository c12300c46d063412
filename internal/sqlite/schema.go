// Schema for the SQLite backend.
package sqlite

// Schema DDL. Every table of the store shares one documents table; a record
// body is the JSON encoding of its fields.
const (
	createDocuments = `CREATE TABLE IF NOT EXISTS documents (
    table_name TEXT NOT NULL,
    eid INTEGER NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (table_name, eid)
);`

	// eid_sequences keeps each table's largest assigned eid so eids freed
	// by Delete or Purge are not reused.
	createSequences = `CREATE TABLE IF NOT EXISTS eid_sequences (
    table_name TEXT PRIMARY KEY,
    last_eid INTEGER NOT NULL
);`

	createMeta = `CREATE TABLE IF NOT EXISTS store_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createDocuments,
	createSequences,
	createMeta,
}

// schemaVersion is recorded in store_meta on first attach.
const schemaVersion = "1"
