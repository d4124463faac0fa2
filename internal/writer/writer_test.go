// Tests for debounced collection writes.
package writer

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

// countingStore records every Write and can be told to fail.
type countingStore struct {
	mu     sync.Mutex
	writes map[string][][]json.RawMessage
	fail   error
}

func newCountingStore() *countingStore {
	return &countingStore{writes: make(map[string][][]json.RawMessage)}
}

func (c *countingStore) Attach(types.Config) error      { return nil }
func (c *countingStore) Detach() error                  { return nil }
func (c *countingStore) Delete(string) error            { return nil }
func (c *countingStore) Collections() ([]string, error) { return nil, nil }

func (c *countingStore) Read(string) ([]json.RawMessage, int, error) {
	return nil, types.SchemaVersion, nil
}

func (c *countingStore) Write(collection string, records []json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.writes[collection] = append(c.writes[collection], records)
	return nil
}

func (c *countingStore) writeCount(collection string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes[collection])
}

func (c *countingStore) lastWrite(collection string) []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	writes := c.writes[collection]
	if len(writes) == 0 {
		return nil
	}
	return writes[len(writes)-1]
}

func (c *countingStore) setFail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = err
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func recordsOf(values ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		out = append(out, json.RawMessage(v))
	}
	return out
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSchedule_CoalescesBurst(t *testing.T) {
	store := newCountingStore()
	w := New(store, 50*time.Millisecond, testLogger())

	// A burst of edits within the quiet interval collapses to one write
	// carrying the final state.
	w.Schedule("income", recordsOf(`{"id":"1"}`))
	w.Schedule("income", recordsOf(`{"id":"1"}`, `{"id":"2"}`))
	w.Schedule("income", recordsOf(`{"id":"1"}`, `{"id":"2"}`, `{"id":"3"}`))

	waitFor(t, func() bool { return store.writeCount("income") > 0 })

	if got := store.writeCount("income"); got != 1 {
		t.Errorf("write count = %d, want 1", got)
	}
	if got := store.lastWrite("income"); len(got) != 3 {
		t.Errorf("final write carried %d records, want 3", len(got))
	}
	if w.Pending() {
		t.Error("nothing should remain pending after the timer fires")
	}
}

func TestSchedule_IndependentCollections(t *testing.T) {
	store := newCountingStore()
	w := New(store, 30*time.Millisecond, testLogger())

	w.Schedule("income", recordsOf(`{"id":"i"}`))
	w.Schedule("expenses", recordsOf(`{"id":"e"}`))

	waitFor(t, func() bool {
		return store.writeCount("income") == 1 && store.writeCount("expenses") == 1
	})
}

func TestFlush_WritesPendingImmediately(t *testing.T) {
	store := newCountingStore()
	w := New(store, time.Hour, testLogger()) // timer will never fire on its own

	w.Schedule("clients", recordsOf(`{"id":"c1"}`))
	if !w.Pending() {
		t.Fatal("expected a pending write")
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := store.writeCount("clients"); got != 1 {
		t.Errorf("write count = %d, want 1", got)
	}
	if w.Pending() {
		t.Error("Flush should clear pending state")
	}

	// Flushing with nothing pending is a no-op.
	if err := w.Flush(); err != nil {
		t.Fatalf("empty Flush: %v", err)
	}
	if got := store.writeCount("clients"); got != 1 {
		t.Errorf("empty Flush wrote again: count = %d", got)
	}
}

func TestFlush_ReportsFailures(t *testing.T) {
	store := newCountingStore()
	w := New(store, time.Hour, testLogger())

	boom := errors.New("disk full")
	store.setFail(boom)

	w.Schedule("clients", recordsOf(`{"id":"c1"}`))
	if err := w.Flush(); !errors.Is(err, boom) {
		t.Errorf("Flush error = %v, want wrapped %v", err, boom)
	}
}

func TestFlush_SurfacesAsyncFailures(t *testing.T) {
	store := newCountingStore()
	w := New(store, 20*time.Millisecond, testLogger())

	boom := errors.New("disk full")
	store.setFail(boom)

	w.Schedule("clients", recordsOf(`{"id":"c1"}`))
	waitFor(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.errs) > 0
	})

	// The deferred write failed in the background; the next Flush
	// reports it.
	if err := w.Flush(); !errors.Is(err, boom) {
		t.Errorf("Flush error = %v, want wrapped %v", err, boom)
	}

	// And only once.
	store.setFail(nil)
	if err := w.Flush(); err != nil {
		t.Errorf("subsequent Flush: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(newCountingStore(), 0, nil)
	want := time.Duration(types.DefaultDebounceMillis) * time.Millisecond
	if w.quiet != want {
		t.Errorf("quiet = %v, want default %v", w.quiet, want)
	}
	if w.logger == nil {
		t.Error("logger should default, not stay nil")
	}
}
