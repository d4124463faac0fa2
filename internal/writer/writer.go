// Package writer coalesces bursts of collection mutations into one
// durable write per collection after a quiet interval, so that typing
// into a form does not thrash storage on every keystroke.
package writer

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

// Writer debounces collection writes. Each collection has its own timer;
// a new Schedule before the quiet interval elapses replaces the pending
// records and resets the timer, so the state that reaches storage is
// always the latest one scheduled, never a stale intermediate.
type Writer struct {
	store  types.Store
	quiet  time.Duration
	logger *log.Logger

	mu      sync.Mutex
	pending map[string]*pendingWrite
	errs    []error // asynchronous write failures since the last Flush
}

// pendingWrite is the latest scheduled state for one collection.
type pendingWrite struct {
	records []json.RawMessage
	timer   *time.Timer
}

// New creates a Writer flushing to store after quiet. A non-positive
// quiet falls back to the default interval.
func New(store types.Store, quiet time.Duration, logger *log.Logger) *Writer {
	if quiet <= 0 {
		quiet = time.Duration(types.DefaultDebounceMillis) * time.Millisecond
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Writer{
		store:   store,
		quiet:   quiet,
		logger:  logger,
		pending: make(map[string]*pendingWrite),
	}
}

// Schedule records the desired durable state of a collection and arms
// (or re-arms) its timer. Storage failures surface on a later Flush;
// the in-memory state the caller holds stays authoritative either way.
func (w *Writer) Schedule(collection string, records []json.RawMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pw, ok := w.pending[collection]; ok {
		pw.records = records
		pw.timer.Reset(w.quiet)
		return
	}

	pw := &pendingWrite{records: records}
	pw.timer = time.AfterFunc(w.quiet, func() { w.fire(collection) })
	w.pending[collection] = pw
}

// fire performs the deferred write once the quiet interval has elapsed.
func (w *Writer) fire(collection string) {
	w.mu.Lock()
	pw, ok := w.pending[collection]
	if !ok {
		// Already flushed synchronously.
		w.mu.Unlock()
		return
	}
	delete(w.pending, collection)
	records := pw.records
	w.mu.Unlock()

	if err := w.store.Write(collection, records); err != nil {
		w.logger.Printf("deferred write of %s failed: %v", collection, err)
		w.mu.Lock()
		w.errs = append(w.errs, err)
		w.mu.Unlock()
	}
}

// Flush synchronously writes everything pending. Call on teardown so a
// pending write is never lost. The returned error joins any failures,
// including asynchronous ones recorded since the previous Flush.
func (w *Writer) Flush() error {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]*pendingWrite)
	errs := w.errs
	w.errs = nil
	w.mu.Unlock()

	for collection, pw := range pending {
		pw.timer.Stop()
		if err := w.store.Write(collection, pw.records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Pending reports whether any collection still has an unflushed write.
func (w *Writer) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending) > 0
}
