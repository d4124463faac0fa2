// Import command: restore the full dataset from a JSON snapshot.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/internal/snapshot"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data from a JSON snapshot",
	Long: `Import replaces every stored collection with the contents of a
snapshot file. This is destructive: current data is overwritten, not
merged. The --force flag is required as confirmation.

Example:
  daybook import --force backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "confirm replacing all current data")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !importForce {
		return fmt.Errorf("import replaces all current data; re-run with --force to confirm")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := snapshot.Import(sess.store, data); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	fmt.Printf("Imported snapshot from %s\n", args[0])
	return nil
}
