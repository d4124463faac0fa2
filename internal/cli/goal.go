// Business goal commands.
package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	goalName     string
	goalTarget   string
	goalCurrent  string
	goalDeadline string
	goalNotes    string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track savings and revenue goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a goal",
	Long: `Add creates a business goal.

Example:
  daybook goal add --name "Q4 revenue" --target 12000 --deadline 2026-12-31`,
	RunE: runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE:  runGoalList,
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <id> <amount>",
	Short: "Set a goal's current amount",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalProgress,
}

var goalRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalRm,
}

func init() {
	goalAddCmd.Flags().StringVar(&goalName, "name", "", "goal name (required)")
	goalAddCmd.Flags().StringVar(&goalTarget, "target", "", "target amount (required)")
	goalAddCmd.Flags().StringVar(&goalCurrent, "current", "0", "starting amount")
	goalAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "deadline (YYYY-MM-DD)")
	goalAddCmd.Flags().StringVar(&goalNotes, "notes", "", "free-text notes")
	_ = goalAddCmd.MarkFlagRequired("name")
	_ = goalAddCmd.MarkFlagRequired("target")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalProgressCmd)
	goalCmd.AddCommand(goalRmCmd)
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	target, err := parseAmount(goalTarget)
	if err != nil {
		return err
	}
	current := decimal.Zero
	if goalCurrent != "" {
		if current, err = parseAmount(goalCurrent); err != nil {
			return err
		}
	}

	goal := types.BusinessGoal{
		ID:            types.NewID(),
		Name:          goalName,
		TargetAmount:  target,
		CurrentAmount: current,
		Notes:         goalNotes,
	}
	if goalDeadline != "" {
		deadline, err := dates.Parse(goalDeadline)
		if err != nil {
			return err
		}
		goal.Deadline = &deadline
	}

	goals, err := loadRecords[types.BusinessGoal](sess, types.BusinessGoals)
	if err != nil {
		return err
	}
	goals = append(goals, goal)

	if err := scheduleSave(sess, types.BusinessGoals, goals); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(goal)
	}
	fmt.Printf("Created goal: %s (target $%s)\n", goal.ID, goal.TargetAmount.StringFixed(2))
	return nil
}

func runGoalList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	goals, err := loadRecords[types.BusinessGoal](sess, types.BusinessGoals)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(goals)
	}
	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		deadline := ""
		if g.Deadline != nil {
			deadline = g.Deadline.String()
		}
		progress := "0%"
		if g.TargetAmount.IsPositive() {
			pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
			progress = pct.StringFixed(0) + "%"
		}
		rows = append(rows, []string{
			shortID(g.ID), truncate(g.Name, 30),
			g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), progress, deadline,
		})
	}
	printTable([]string{"ID", "NAME", "CURRENT", "TARGET", "PROGRESS", "DEADLINE"}, rows,
		fmt.Sprintf("Total: %d goal(s)", len(goals)))
	return nil
}

func runGoalProgress(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	goals, err := loadRecords[types.BusinessGoal](sess, types.BusinessGoals)
	if err != nil {
		return err
	}

	found := false
	for i := range goals {
		if goals[i].ID == args[0] || shortID(goals[i].ID) == args[0] {
			goals[i].CurrentAmount = amount
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("goal %q not found", args[0])
	}

	if err := scheduleSave(sess, types.BusinessGoals, goals); err != nil {
		return err
	}
	fmt.Printf("Goal %s now at $%s\n", args[0], amount.StringFixed(2))
	return nil
}

func runGoalRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	goals, err := loadRecords[types.BusinessGoal](sess, types.BusinessGoals)
	if err != nil {
		return err
	}

	kept := goals[:0]
	found := false
	for _, g := range goals {
		if g.ID == args[0] || shortID(g.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return fmt.Errorf("goal %q not found", args[0])
	}

	if err := scheduleSave(sess, types.BusinessGoals, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted goal %s\n", args[0])
	return nil
}
