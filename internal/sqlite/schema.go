package sqlite

// The backend persists each collection as one row: the collection name,
// the schema version its records were written under, and the JSON array
// itself. Per-screen preference keys share the same table under ad hoc
// names.
const createCollections = `CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    schema_version INTEGER NOT NULL,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createCollections,
}
