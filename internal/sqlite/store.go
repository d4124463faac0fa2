// Package sqlite implements the SQLite storage backend for Daybook.
// Collections are stored whole, one row per collection, keeping the
// last-writer-wins, no-cross-collection-transaction semantics of the
// storage contract.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "daybook.db"

// Store implements the types.Store interface on SQLite.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *log.Logger
}

// NewStore creates a new SQLite store instance. The store is not
// attached; call Attach with a Config to initialize.
func NewStore() *Store {
	return &Store{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetLogger replaces the logger used for recoverable-failure reporting.
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Attach opens (or creates) the database under config.DataDir and
// initializes the schema. Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
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
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("initialize schema: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.attached = true
	return nil
}

// Detach closes the database. Idempotent. After Detach, operations
// return ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.attached = false
	return nil
}

// Read returns the records of a collection and the schema version they
// were written under. A collection that was never written, and one whose
// stored payload no longer parses, both read as empty at the current
// version: callers must treat "no data" and "never initialized" the same
// way, and unreadable storage is logged rather than surfaced.
func (s *Store) Read(collection string) ([]json.RawMessage, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, 0, types.ErrStoreDetached
	}

	var (
		data    string
		version int
	)
	row := s.db.QueryRow(`SELECT data, schema_version FROM collections WHERE name = ?`, collection)
	switch err := row.Scan(&data, &version); err {
	case nil:
	case sql.ErrNoRows:
		return nil, types.SchemaVersion, nil
	default:
		return nil, 0, fmt.Errorf("read %s: %w", collection, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		s.logger.Printf("collection %s is unreadable, treating as empty: %v", collection, err)
		return nil, types.SchemaVersion, nil
	}
	return records, version, nil
}

// Write replaces the collection wholesale and stamps the current schema
// version. Last writer wins.
func (s *Store) Write(collection string, records []json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", collection, err)
	}

	_, err = s.db.Exec(`INSERT INTO collections (name, schema_version, data, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            schema_version = excluded.schema_version,
            data = excluded.data,
            updated_at = excluded.updated_at`,
		collection, types.SchemaVersion, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// Collections lists the names of every stored collection, sorted.
func (s *Store) Collections() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the collection. Deleting a missing collection succeeds.
func (s *Store) Delete(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	if _, err := s.db.Exec(`DELETE FROM collections WHERE name = ?`, collection); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}

var _ types.Store = (*Store)(nil)
