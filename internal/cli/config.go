// Config loading for the daybook CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyHorizon  = "horizon_months"
	cfgKeyDebounce = "debounce_ms"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Daybook configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# How many calendar months ahead recurring appointments are generated
horizon_months: 3

# Quiet interval for coalescing rapid edits into one durable write
debounce_ms: 500
`

// configValues are the settings subcommands care about.
type configValues struct {
	backend  string
	dataDir  string
	horizon  int
	debounce int
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A
// missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyHorizon, types.DefaultHorizonMonths)
	v.SetDefault(cfgKeyDebounce, types.DefaultDebounceMillis)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// configFromViper extracts the settings subcommands use.
func configFromViper(v *viper.Viper) configValues {
	return configValues{
		backend:  v.GetString(cfgKeyBackend),
		dataDir:  v.GetString(cfgKeyDataDir),
		horizon:  v.GetInt(cfgKeyHorizon),
		debounce: v.GetInt(cfgKeyDebounce),
	}
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
