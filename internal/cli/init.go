// Init command: create configuration and storage.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize daybook storage",
	Long:  "Create the configuration and data directories, then initialize the storage backend.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Config dir and default config.yaml were created by the root
	// PersistentPreRunE; attaching creates the data directory and schema.
	sess, err := openSession()
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := sess.Close(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Daybook initialized successfully")
	return nil
}
