package types

import (
	"encoding/json"
	"errors"
)

// SchemaVersion is the current shape version for every collection. The
// stored version marker drives the migration chain in internal/schema.
const SchemaVersion = 3

// Store defines the interface for durable collection storage. Each
// collection is one named key holding a JSON array of records. Callers
// attach to a backend, read and write whole collections, and detach
// when done.
type Store interface {
	// Read returns the raw records of a collection and the schema
	// version they were written under. A collection that was never
	// written reads as empty at the current version; unreadable data
	// also reads as empty rather than failing.
	Read(collection string) ([]json.RawMessage, int, error)

	// Write replaces the collection wholesale, stamping SchemaVersion.
	// Last writer wins; there are no transactions across collections.
	Write(collection string, records []json.RawMessage) error

	// Delete removes the collection. Deleting a missing collection
	// succeeds.
	Delete(collection string) error

	// Collections lists the names of every stored collection, sorted.
	Collections() ([]string, error)

	// Attach connects the store to the backend described by config,
	// creating the data directory if needed. Returns ErrAlreadyAttached
	// if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Record and collection errors.
var (
	ErrNotFound           = errors.New("record not found")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	ErrInvalidSnapshot    = errors.New("invalid snapshot document")
	ErrInvalidRule        = errors.New("invalid recurring rule")
)
