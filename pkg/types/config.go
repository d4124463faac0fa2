package types

import "errors"

// Config holds backend selection and tuning parameters for Store.Attach.
type Config struct {
	Backend        string `json:"backend" yaml:"backend"`
	DataDir        string `json:"data_dir" yaml:"data_dir"`
	HorizonMonths  int    `json:"horizon_months" yaml:"horizon_months"`
	DebounceMillis int    `json:"debounce_ms" yaml:"debounce_ms"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Tuning defaults.
const (
	DefaultHorizonMonths  = 3
	DefaultDebounceMillis = 500
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// GetHorizonMonths returns the generation horizon in calendar months,
// falling back to the default when unset or non-positive.
func (c Config) GetHorizonMonths() int {
	if c.HorizonMonths <= 0 {
		return DefaultHorizonMonths
	}
	return c.HorizonMonths
}

// GetDebounceMillis returns the debounced-writer quiet interval in
// milliseconds, falling back to the default when unset or non-positive.
func (c Config) GetDebounceMillis() int {
	if c.DebounceMillis <= 0 {
		return DefaultDebounceMillis
	}
	return c.DebounceMillis
}
