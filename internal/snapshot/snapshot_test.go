// Tests for snapshot export and import.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"testing"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

// memStore is an attached in-memory store for snapshot tests.
type memStore struct {
	collections map[string][]json.RawMessage
	versions    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		collections: make(map[string][]json.RawMessage),
		versions:    make(map[string]int),
	}
}

func (m *memStore) Attach(types.Config) error { return nil }
func (m *memStore) Detach() error             { return nil }
func (m *memStore) Delete(collection string) error {
	delete(m.collections, collection)
	return nil
}

func (m *memStore) Collections() ([]string, error) {
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) Read(collection string) ([]json.RawMessage, int, error) {
	recs, ok := m.collections[collection]
	if !ok {
		return nil, types.SchemaVersion, nil
	}
	return recs, m.versions[collection], nil
}

func (m *memStore) Write(collection string, records []json.RawMessage) error {
	m.collections[collection] = records
	m.versions[collection] = types.SchemaVersion
	return nil
}

// put stores records at the given version, bypassing Write's stamping.
func (m *memStore) put(collection string, version int, records ...string) {
	recs := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		recs = append(recs, json.RawMessage(r))
	}
	m.collections[collection] = recs
	m.versions[collection] = version
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestExport_StampsEnvelope(t *testing.T) {
	store := newMemStore()
	store.put(types.Clients, types.SchemaVersion, `{"id":"c1","name":"Alice"}`)

	snap, err := Export(store, testLogger())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if snap.ExportDate == "" {
		t.Error("export date not stamped")
	}
	if snap.Version != fmt.Sprint(types.SchemaVersion) {
		t.Errorf("version tag = %q, want %d", snap.Version, types.SchemaVersion)
	}

	// Every collection key is present, even when empty, so the document
	// always satisfies its own import checks.
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	for _, name := range types.AllCollections {
		if _, ok := doc[name]; !ok {
			t.Errorf("exported document missing %q key", name)
		}
	}
}

func TestExport_NormalizesOldRecords(t *testing.T) {
	store := newMemStore()
	store.put(types.Appointments, 1, `{"id":"a1","date":"2024-01-15"}`)

	snap, err := Export(store, testLogger())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	recs, _ := snap.Collection(types.Appointments)
	if len(recs) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(recs))
	}
	var rec map[string]any
	if err := json.Unmarshal(recs[0], &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["status"] != types.StatusScheduled {
		t.Errorf("old record not upgraded on export: status = %v", rec["status"])
	}
}

func TestImportExport_RoundTrip(t *testing.T) {
	store := newMemStore()
	store.put(types.Clients, types.SchemaVersion, `{"id":"c1","name":"Alice"}`)
	store.put(types.Income, types.SchemaVersion, `{"id":"i1","amount":"85.50","date":"2024-03-15","taxable":true}`)

	snap, err := Export(store, testLogger())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := newMemStore()
	if err := Import(restored, data); err != nil {
		t.Fatalf("Import: %v", err)
	}

	clients, _, _ := restored.Read(types.Clients)
	if len(clients) != 1 {
		t.Errorf("clients = %d records, want 1", len(clients))
	}
	income, _, _ := restored.Read(types.Income)
	if len(income) != 1 {
		t.Errorf("income = %d records, want 1", len(income))
	}
	var rec map[string]any
	if err := json.Unmarshal(income[0], &rec); err != nil {
		t.Fatalf("decode income: %v", err)
	}
	if rec["amount"] != "85.50" {
		t.Errorf("amount changed through round trip: %v", rec["amount"])
	}
}

func TestImport_ReplacesExistingState(t *testing.T) {
	store := newMemStore()
	store.put(types.Clients, types.SchemaVersion,
		`{"id":"old1","name":"Old"}`, `{"id":"old2","name":"Older"}`)
	store.put(types.Invoices, types.SchemaVersion,
		`{"id":"v1","date":"2024-01-01","total":"10","status":"paid","tax":"0"}`)

	doc := []byte(`{
		"clients": [{"id":"new1","name":"New"}],
		"appointments": [],
		"income": [],
		"expenses": [],
		"exportDate": "2024-06-01T00:00:00Z",
		"version": "3"
	}`)
	if err := Import(store, doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	clients, _, _ := store.Read(types.Clients)
	if len(clients) != 1 {
		t.Fatalf("clients = %d records, want only the imported one", len(clients))
	}
	// Collections absent from the document are cleared, not kept: import
	// replaces the whole dataset.
	invoices, _, _ := store.Read(types.Invoices)
	if len(invoices) != 0 {
		t.Errorf("invoices should be cleared on import, got %d records", len(invoices))
	}
}

func TestImport_RejectsMissingCoreArray(t *testing.T) {
	store := newMemStore()
	store.put(types.Clients, types.SchemaVersion, `{"id":"keep","name":"Keep"}`)

	doc := []byte(`{
		"clients": [],
		"appointments": [],
		"income": [],
		"exportDate": "2024-06-01T00:00:00Z"
	}`) // expenses missing

	err := Import(store, doc)
	if !errors.Is(err, types.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}

	// Rejection happens before any write.
	clients, _, _ := store.Read(types.Clients)
	if len(clients) != 1 {
		t.Errorf("existing state touched by rejected import: %d records", len(clients))
	}
}

func TestImport_RejectsNonJSON(t *testing.T) {
	err := Import(newMemStore(), []byte(`this is not json`))
	if !errors.Is(err, types.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestImport_RejectsFutureVersion(t *testing.T) {
	store := newMemStore()
	store.put(types.Clients, types.SchemaVersion, `{"id":"keep","name":"Keep"}`)

	doc := []byte(fmt.Sprintf(`{
		"clients": [],
		"appointments": [],
		"income": [],
		"expenses": [],
		"exportDate": "2024-06-01T00:00:00Z",
		"version": "%d"
	}`, types.SchemaVersion+1))

	err := Import(store, doc)
	if !errors.Is(err, types.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
	clients, _, _ := store.Read(types.Clients)
	if len(clients) != 1 {
		t.Errorf("existing state touched by rejected import: %d records", len(clients))
	}
}

func TestImport_RejectsGarbageVersionTag(t *testing.T) {
	doc := []byte(`{
		"clients": [],
		"appointments": [],
		"income": [],
		"expenses": [],
		"exportDate": "2024-06-01T00:00:00Z",
		"version": "latest"
	}`)
	if err := Import(newMemStore(), doc); !errors.Is(err, types.ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestImport_LegacyDocumentWithoutVersion(t *testing.T) {
	// Documents from before the format tag existed carry none and are
	// treated as version 1, so their records go through the full
	// migration chain.
	doc := []byte(`{
		"clients": [{"id":"c1","name":"Alice"}],
		"appointments": [{"id":"a1","date":"2024-01-15"}],
		"income": [{"id":"i1","amount":"50","date":"2024-01-15"}],
		"expenses": [],
		"exportDate": "2023-01-01T00:00:00Z"
	}`)

	store := newMemStore()
	if err := Import(store, doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	appts, _, _ := store.Read(types.Appointments)
	if len(appts) != 1 {
		t.Fatalf("appointments = %d records, want 1", len(appts))
	}
	var rec map[string]any
	if err := json.Unmarshal(appts[0], &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["status"] != types.StatusScheduled {
		t.Errorf("legacy appointment not migrated: status = %v", rec["status"])
	}

	income, _, _ := store.Read(types.Income)
	if err := json.Unmarshal(income[0], &rec); err != nil {
		t.Fatalf("decode income: %v", err)
	}
	if rec["taxable"] != true {
		t.Errorf("legacy income not migrated: taxable = %v", rec["taxable"])
	}
}
