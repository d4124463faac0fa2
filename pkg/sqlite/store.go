// Package sqlite provides the public API for the SQLite Daybook store.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/daybook/internal/sqlite"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// NewStore creates a new SQLite store instance. The store is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".daybook-db",
//	})
//	defer store.Detach()
func NewStore() types.Store {
	return sqlite.NewStore()
}
