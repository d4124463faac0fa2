// Export command: write the full dataset as one JSON document.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/internal/snapshot"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all data as a JSON snapshot",
	Long: `Export writes every collection into one JSON document suitable for
backup or transfer to another machine. Without a file argument the
document goes to stdout.

Example:
  daybook export backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		exportOutput = args[0]
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	snap, err := snapshot.Export(sess.store, sess.logger)
	if err != nil {
		return fmt.Errorf("export data: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Printf("Exported snapshot to %s\n", exportOutput)
	return nil
}
