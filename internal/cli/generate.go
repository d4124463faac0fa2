// Generate command: expand recurring rules into appointments.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/internal/recur"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Materialize appointments from recurring rules",
	Long: `Generate expands every active recurring rule into concrete
appointments, from today through the configured horizon. Running it
twice in a row is safe: occurrences that already exist are never
duplicated, and occurrences you deleted by hand are not recreated.

Example:
  daybook generate`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	// The engine persists immediately through the store, not the
	// debounced path, so its progress survives a crash mid-run.
	engine := recur.New(sess.store, sess.config.GetHorizonMonths(), sess.logger)
	res, err := engine.Run()
	if err != nil {
		return fmt.Errorf("generate appointments: %w", err)
	}

	if flagJSON {
		return printJSON(res)
	}
	fmt.Printf("Generated %d appointment(s)\n", res.Generated)
	if res.SkippedRules > 0 {
		fmt.Printf("Skipped %d malformed rule(s), see log output\n", res.SkippedRules)
	}
	return nil
}
