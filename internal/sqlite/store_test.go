// Tests for SQLite store implementation.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

func testConfig(dir string) types.Config {
	return types.Config{Backend: types.BackendSQLite, DataDir: dir}
}

// attachedStore returns a store attached to a temp directory.
func attachedStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore()
	s.SetLogger(log.New(io.Discard, "", 0))
	if err := s.Attach(testConfig(dir)); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { s.Detach() })
	return s, dir
}

func TestStore_Attach(t *testing.T) {
	dir := t.TempDir()
	s := NewStore()

	if err := s.Attach(testConfig(dir)); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer s.Detach()

	if _, err := os.Stat(filepath.Join(dir, dbFileName)); os.IsNotExist(err) {
		t.Errorf("%s not created", dbFileName)
	}

	if err := s.Attach(testConfig(dir)); err != types.ErrAlreadyAttached {
		t.Errorf("double attach: got %v, want ErrAlreadyAttached", err)
	}
}

func TestStore_Attach_InvalidConfig(t *testing.T) {
	s := NewStore()
	if err := s.Attach(types.Config{}); err != types.ErrBackendEmpty {
		t.Errorf("empty backend: got %v, want ErrBackendEmpty", err)
	}
	if err := s.Attach(types.Config{Backend: "etcd"}); err != types.ErrBackendUnknown {
		t.Errorf("unknown backend: got %v, want ErrBackendUnknown", err)
	}
}

func TestStore_Attach_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := NewStore()
	if err := s.Attach(testConfig(dir)); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer s.Detach()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestStore_Detach(t *testing.T) {
	s, _ := attachedStore(t)

	if err := s.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if err := s.Detach(); err != nil {
		t.Errorf("second Detach should be a no-op: %v", err)
	}

	if _, _, err := s.Read(types.Clients); err != types.ErrStoreDetached {
		t.Errorf("Read after detach: got %v, want ErrStoreDetached", err)
	}
	if err := s.Write(types.Clients, nil); err != types.ErrStoreDetached {
		t.Errorf("Write after detach: got %v, want ErrStoreDetached", err)
	}
	if err := s.Delete(types.Clients); err != types.ErrStoreDetached {
		t.Errorf("Delete after detach: got %v, want ErrStoreDetached", err)
	}
}

func TestStore_ReadMissingCollection(t *testing.T) {
	s, _ := attachedStore(t)

	records, version, err := s.Read("neverWritten")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if version != types.SchemaVersion {
		t.Errorf("missing collection version = %d, want current %d", version, types.SchemaVersion)
	}
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s, _ := attachedStore(t)

	in := []json.RawMessage{
		json.RawMessage(`{"id":"c1","name":"Alice"}`),
		json.RawMessage(`{"id":"c2","name":"Bob"}`),
	}
	if err := s.Write(types.Clients, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, version, err := s.Read(types.Clients)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if version != types.SchemaVersion {
		t.Errorf("version = %d, want %d", version, types.SchemaVersion)
	}
	if len(out) != 2 {
		t.Fatalf("record count = %d, want 2", len(out))
	}
	for i := range in {
		if string(out[i]) != string(in[i]) {
			t.Errorf("record %d changed: %s != %s", i, out[i], in[i])
		}
	}
}

func TestStore_LastWriterWins(t *testing.T) {
	s, _ := attachedStore(t)

	if err := s.Write(types.Clients, []json.RawMessage{json.RawMessage(`{"id":"old"}`)}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := s.Write(types.Clients, []json.RawMessage{json.RawMessage(`{"id":"new"}`)}); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	out, _, err := s.Read(types.Clients)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 1 || string(out[0]) != `{"id":"new"}` {
		t.Errorf("expected only the second write to survive, got %v", out)
	}
}

func TestStore_WriteNilRecords(t *testing.T) {
	s, _ := attachedStore(t)

	if err := s.Write(types.Clients, nil); err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
	out, _, err := s.Read(types.Clients)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty collection, got %d records", len(out))
	}
}

func TestStore_Delete(t *testing.T) {
	s, _ := attachedStore(t)

	if err := s.Write(types.Clients, []json.RawMessage{json.RawMessage(`{"id":"c1"}`)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Delete(types.Clients); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	out, _, err := s.Read(types.Clients)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("collection should be gone, got %d records", len(out))
	}

	// Deleting again succeeds.
	if err := s.Delete(types.Clients); err != nil {
		t.Errorf("Delete of missing collection: %v", err)
	}
}

func TestStore_Collections(t *testing.T) {
	s, _ := attachedStore(t)

	names, err := s.Collections()
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("fresh store should have no collections, got %v", names)
	}

	for _, name := range []string{types.Income, types.Clients} {
		if err := s.Write(name, nil); err != nil {
			t.Fatalf("Write %s: %v", name, err)
		}
	}

	names, err = s.Collections()
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(names) != 2 || names[0] != types.Clients || names[1] != types.Income {
		t.Errorf("Collections = %v, want sorted [clients income]", names)
	}
}

func TestStore_CorruptPayloadReadsEmpty(t *testing.T) {
	dir := t.TempDir()

	s := NewStore()
	s.SetLogger(log.New(io.Discard, "", 0))
	if err := s.Attach(testConfig(dir)); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := s.Write(types.Income, []json.RawMessage{json.RawMessage(`{"id":"i1"}`)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	// Corrupt the stored payload behind the store's back.
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(`UPDATE collections SET data = '{{not json' WHERE name = ?`, types.Income); err != nil {
		t.Fatalf("corrupt payload: %v", err)
	}
	db.Close()

	s2 := NewStore()
	s2.SetLogger(log.New(io.Discard, "", 0))
	if err := s2.Attach(testConfig(dir)); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	defer s2.Detach()

	records, version, err := s2.Read(types.Income)
	if err != nil {
		t.Fatalf("Read of corrupt collection should not error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("corrupt collection should read as empty, got %d records", len(records))
	}
	if version != types.SchemaVersion {
		t.Errorf("corrupt collection version = %d, want current %d", version, types.SchemaVersion)
	}

	// Other collections are unaffected; writing the corrupt one heals it.
	if err := s2.Write(types.Income, []json.RawMessage{json.RawMessage(`{"id":"i2"}`)}); err != nil {
		t.Fatalf("healing Write: %v", err)
	}
	records, _, err = s2.Read(types.Income)
	if err != nil {
		t.Fatalf("Read after heal: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("healed collection should have 1 record, got %d", len(records))
	}
}

func TestStore_PersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	s := NewStore()
	if err := s.Attach(testConfig(dir)); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := s.Write(types.Clients, []json.RawMessage{json.RawMessage(`{"id":"c1","name":"Alice"}`)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	s2 := NewStore()
	if err := s2.Attach(testConfig(dir)); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	defer s2.Detach()

	out, _, err := s2.Read(types.Clients)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected 1 record after restart, got %d", len(out))
	}
}
