// Recurring-rule commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/internal/recur"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	ruleClient   string
	ruleTime     string
	ruleService  string
	ruleFreq     string
	ruleInterval int
	ruleStart    string
	ruleNotes    string
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage recurring appointment rules",
	Long: `A recurring rule is the source of truth for which appointments
should exist; run "daybook generate" to materialize them. Pausing a
rule freezes its progress: resuming continues forward from where it
stopped, never backfilling the paused period.`,
}

var ruleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring rule",
	Long: `Add creates a recurring appointment rule.

Example:
  daybook rule add --client 0198c2f1 --freq weekly --interval 1 --time 10:00 --service "Dog walking"
  daybook rule add --client 0198c2f1 --freq monthly --start 2026-01-31`,
	RunE: runRuleAdd,
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring rules",
	RunE:  runRuleList,
}

var rulePauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Pause a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRuleActive(args[0], false)
	},
}

var ruleResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume a paused rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRuleActive(args[0], true)
	},
}

var ruleRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a rule",
	Long: `Rm deletes a recurring rule. Appointments already materialized
from it are kept; they simply stop growing.`,
	Args: cobra.ExactArgs(1),
	RunE: runRuleRm,
}

func init() {
	ruleAddCmd.Flags().StringVar(&ruleClient, "client", "", "client id (required)")
	ruleAddCmd.Flags().StringVar(&ruleTime, "time", "", "time of day (HH:MM)")
	ruleAddCmd.Flags().StringVar(&ruleService, "service", "", "service description")
	ruleAddCmd.Flags().StringVar(&ruleFreq, "freq", types.FreqWeekly, "frequency (daily, weekly, monthly, yearly)")
	ruleAddCmd.Flags().IntVar(&ruleInterval, "interval", 1, "every N frequency units")
	ruleAddCmd.Flags().StringVar(&ruleStart, "start", "", "start date (YYYY-MM-DD, default today)")
	ruleAddCmd.Flags().StringVar(&ruleNotes, "notes", "", "free-text notes")
	_ = ruleAddCmd.MarkFlagRequired("client")

	ruleCmd.AddCommand(ruleAddCmd)
	ruleCmd.AddCommand(ruleListCmd)
	ruleCmd.AddCommand(rulePauseCmd)
	ruleCmd.AddCommand(ruleResumeCmd)
	ruleCmd.AddCommand(ruleRmCmd)
}

func runRuleAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	start, err := parseDateFlag(ruleStart)
	if err != nil {
		return err
	}

	rule := types.RecurringRule{
		ID:        types.NewID(),
		ClientID:  ruleClient,
		Time:      ruleTime,
		Service:   ruleService,
		Frequency: ruleFreq,
		Interval:  ruleInterval,
		StartDate: start,
		Active:    true,
		Notes:     ruleNotes,
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	rules, err := loadRecords[types.RecurringRule](sess, types.RecurringRules)
	if err != nil {
		return err
	}
	rules = append(rules, rule)

	if err := scheduleSave(sess, types.RecurringRules, rules); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rule)
	}
	fmt.Printf("Created rule: %s (every %d %s from %s)\n", rule.ID, rule.Interval, rule.Frequency, rule.StartDate)
	return nil
}

func runRuleList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	rules, err := loadRecords[types.RecurringRule](sess, types.RecurringRules)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(rules)
	}
	if len(rules) == 0 {
		fmt.Println("No recurring rules found.")
		return nil
	}

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		state := "active"
		if !r.Active {
			state = "paused"
		}
		next := "-"
		if d, err := recur.Next(r); err == nil {
			next = d.String()
		}
		rows = append(rows, []string{
			shortID(r.ID),
			fmt.Sprintf("every %d %s", r.Interval, r.Frequency),
			r.Time,
			truncate(r.Service, 30),
			state,
			next,
		})
	}
	printTable([]string{"ID", "SCHEDULE", "TIME", "SERVICE", "STATE", "NEXT"}, rows,
		fmt.Sprintf("Total: %d rule(s)", len(rules)))
	return nil
}

// setRuleActive toggles a rule without touching its high-water mark, so
// resuming continues forward from where the rule stopped.
func setRuleActive(id string, active bool) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	rules, err := loadRecords[types.RecurringRule](sess, types.RecurringRules)
	if err != nil {
		return err
	}

	found := false
	for i := range rules {
		if rules[i].ID == id || shortID(rules[i].ID) == id {
			rules[i].Active = active
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("rule %q not found", id)
	}

	if err := scheduleSave(sess, types.RecurringRules, rules); err != nil {
		return err
	}
	if active {
		fmt.Printf("Rule %s resumed\n", id)
	} else {
		fmt.Printf("Rule %s paused\n", id)
	}
	return nil
}

func runRuleRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	rules, err := loadRecords[types.RecurringRule](sess, types.RecurringRules)
	if err != nil {
		return err
	}

	kept := rules[:0]
	found := false
	for _, r := range rules {
		if r.ID == args[0] || shortID(r.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("rule %q not found", args[0])
	}

	if err := scheduleSave(sess, types.RecurringRules, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted rule %s\n", args[0])
	return nil
}
