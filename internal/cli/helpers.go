// Shared helpers for daybook CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/daybook/internal/schema"
	"github.com/mesh-intelligence/daybook/internal/writer"
	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/sqlite"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// session bundles the attached store and the debounced writer for one
// command invocation. Commands mutate collections in memory and schedule
// persistence; Close flushes whatever is still pending so teardown never
// loses a write.
type session struct {
	store  types.Store
	writer *writer.Writer
	config types.Config
	logger *log.Logger
}

// openSession resolves directories, attaches the store, and builds the
// debounced writer from the configured quiet interval. The caller must
// defer sess.Close().
func openSession() (*session, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:        loadedConfig.backend,
		DataDir:        dataDir,
		HorizonMonths:  loadedConfig.horizon,
		DebounceMillis: loadedConfig.debounce,
	}
	if cfg.Backend == "" {
		cfg.Backend = types.BackendSQLite
	}

	store := sqlite.NewStore()
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	logger := log.New(os.Stderr, "", 0)
	quiet := time.Duration(cfg.GetDebounceMillis()) * time.Millisecond
	return &session{
		store:  store,
		writer: writer.New(store, quiet, logger),
		config: cfg,
		logger: logger,
	}, nil
}

// Close flushes pending writes and detaches the store.
func (s *session) Close() error {
	flushErr := s.writer.Flush()
	detachErr := s.store.Detach()
	if flushErr != nil {
		return flushErr
	}
	return detachErr
}

// loadRecords reads a collection through the store, normalizes it to the
// current shape, and decodes it into typed records. Records that fail to
// decode after normalization are skipped with a log line.
func loadRecords[T any](s *session, collection string) ([]T, error) {
	raw, version, err := s.store.Read(collection)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	normalized, err := schema.Normalize(collection, version, raw, s.logger)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(normalized))
	for _, rec := range normalized {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			s.logger.Printf("skipping undecodable %s record: %v", collection, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// scheduleSave hands the collection's new state to the debounced writer.
// The durable write happens after the quiet interval or on Close.
func scheduleSave[T any](s *session, collection string, items []T) error {
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal %s record: %w", collection, err)
		}
		records = append(records, json.RawMessage(data))
	}
	s.writer.Schedule(collection, records)
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// printTable renders rows with aligned columns, then a total line.
func printTable(header []string, rows [][]string, total string) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(header, "\t"))
	underline := make([]string, len(header))
	for i, h := range header {
		underline[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(underline, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		if line != "" {
			fmt.Println(strings.TrimRight(line, " "))
		}
	}
	if total != "" {
		fmt.Println(total)
	}
}

// shortID truncates a UUID to its first 8 characters for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens a string for table display.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// parseDateFlag parses a --date style flag, defaulting to today when
// empty.
func parseDateFlag(value string) (dates.Date, error) {
	if value == "" {
		return dates.Today(), nil
	}
	return dates.Parse(value)
}

// parseAmount parses a money flag value.
func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return d, nil
}

// sortByDateDesc orders rows newest first, matching how the screens
// present history.
func sortByDateDesc[T any](items []T, date func(T) dates.Date) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[j]).Before(date(items[i]))
	})
}
