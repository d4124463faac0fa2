// Package snapshot serializes the whole dataset into one portable
// document and restores from one. Import is destructive by design: it
// fully replaces stored state, with no merge and no partial apply.
// Callers must obtain explicit user confirmation before invoking
// Import; the package performs no confirmation itself.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mesh-intelligence/daybook/internal/schema"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// Export reads every collection through the store and wraps them with a
// creation timestamp and format tag. Collections are normalized to the
// current shape on the way out, so a snapshot is always self-consistent
// with its version tag.
func Export(store types.Store, logger *log.Logger) (*types.Snapshot, error) {
	snap := &types.Snapshot{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    strconv.Itoa(types.SchemaVersion),
	}
	for _, name := range types.AllCollections {
		raw, version, err := store.Read(name)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", name, err)
		}
		records, err := schema.Normalize(name, version, raw, logger)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", name, err)
		}
		snap.SetCollection(name, records)
	}
	return snap, nil
}

// Import parses a snapshot document and replaces every stored collection
// with its contents. The document is rejected outright, before any state
// is touched, when it is not valid JSON, when it lacks one of the core
// collection arrays, or when its format version is newer than this
// build understands. Writes go directly through the store, bypassing the
// debounced path: the operation is atomic per collection and one-shot.
func Import(store types.Store, data []byte) error {
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidSnapshot, err)
	}

	for _, name := range types.CoreCollections {
		if _, ok := snap.Collection(name); !ok {
			return fmt.Errorf("%w: missing %q array", types.ErrInvalidSnapshot, name)
		}
	}

	version, err := formatVersion(snap.Version)
	if err != nil {
		return err
	}

	// Normalize everything up front so a bad collection rejects the
	// whole document instead of leaving a half-applied import.
	replacement := make(map[string][]json.RawMessage, len(types.AllCollections))
	for _, name := range types.AllCollections {
		records, _ := snap.Collection(name)
		normalized, err := schema.Normalize(name, version, records, nil)
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		replacement[name] = normalized
	}

	for _, name := range types.AllCollections {
		if err := store.Write(name, replacement[name]); err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
	}
	return nil
}

// formatVersion parses the snapshot's format tag. Documents from before
// the tag existed carry none and are treated as version 1. Unknown or
// future tags are rejected rather than guessed at.
func formatVersion(tag string) (int, error) {
	if tag == "" {
		return 1, nil
	}
	v, err := strconv.Atoi(tag)
	if err != nil {
		return 0, fmt.Errorf("%w: unrecognized format tag %q", types.ErrUnsupportedVersion, tag)
	}
	if v < 1 || v > types.SchemaVersion {
		return 0, fmt.Errorf("%w: snapshot is v%d, this build supports up to v%d",
			types.ErrUnsupportedVersion, v, types.SchemaVersion)
	}
	return v, nil
}
