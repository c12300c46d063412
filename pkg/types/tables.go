package types

// Standard table names.
const (
	CollectionsTable       = "collections"
	CollectionsBackupTable = "collections_backup"
	SeedsTable             = "seeds"
	SeedsBackupTable       = "seeds_backup"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	CollectionsTable,
	CollectionsBackupTable,
	SeedsTable,
	SeedsBackupTable,
}
