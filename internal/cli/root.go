// Package cli implements the daybook command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/internal/paths"
)

// Version is the daybook release version.
const Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// loadedConfig holds the settings read from config.yaml, populated by
// PersistentPreRunE so every subcommand can use them.
var loadedConfig configValues

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Daybook is a local-first bookkeeping tool",
	Long: `Daybook keeps clients, appointments, income, expenses, mileage,
invoices, and goals in a local store on this device. Nothing ever
leaves the machine unless you export it.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		loadedConfig = configFromViper(v)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.daybook-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(apptCmd)
	rootCmd.AddCommand(ruleCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(mileageCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("daybook v" + Version)
	},
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: flag > DAYBOOK_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence
// chain: flag > config.yaml > DAYBOOK_DATA_DIR env > CWD default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, loadedConfig.dataDir)
}
