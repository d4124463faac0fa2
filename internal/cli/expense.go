// Expense commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	expenseAmount        string
	expenseDate          string
	expenseCategory      string
	expenseMiles         string
	expenseNotes         string
	expenseNonDeductible bool
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record and list expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense entry",
	Long: `Add records money spent. For the Travel & Mileage category, pass
--miles instead of --amount and the amount is derived from the
standard mileage rate.

Example:
  daybook expense add --amount 42.50 --category "Office Supplies"
  daybook expense add --category "Travel & Mileage" --miles 18.4`,
	RunE: runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expense entries",
	RunE:  runExpenseList,
}

var expenseRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an expense entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseRm,
}

func init() {
	expenseAddCmd.Flags().StringVar(&expenseAmount, "amount", "", "amount spent")
	expenseAddCmd.Flags().StringVar(&expenseDate, "date", "", "date (YYYY-MM-DD, default today)")
	expenseAddCmd.Flags().StringVar(&expenseCategory, "category", "Other", "expense category")
	expenseAddCmd.Flags().StringVar(&expenseMiles, "miles", "", "miles driven (Travel & Mileage only)")
	expenseAddCmd.Flags().StringVar(&expenseNotes, "notes", "", "free-text notes")
	expenseAddCmd.Flags().BoolVar(&expenseNonDeductible, "non-deductible", false, "exclude from tax deductions")

	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	expenseCmd.AddCommand(expenseRmCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	date, err := parseDateFlag(expenseDate)
	if err != nil {
		return err
	}

	entry := types.ExpenseEntry{
		ID:            types.NewID(),
		Date:          date,
		Category:      expenseCategory,
		Notes:         expenseNotes,
		TaxDeductible: !expenseNonDeductible,
	}

	switch {
	case expenseMiles != "":
		if expenseCategory != types.CategoryTravelMileage {
			return fmt.Errorf("--miles requires category %q", types.CategoryTravelMileage)
		}
		miles, err := parseAmount(expenseMiles)
		if err != nil {
			return err
		}
		entry.Miles = &miles
		entry.Amount = miles.Mul(types.DefaultMileageRate)
	case expenseAmount != "":
		amount, err := parseAmount(expenseAmount)
		if err != nil {
			return err
		}
		entry.Amount = amount
	default:
		return fmt.Errorf("either --amount or --miles is required")
	}

	entries, err := loadRecords[types.ExpenseEntry](sess, types.Expenses)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := scheduleSave(sess, types.Expenses, entries); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entry)
	}
	fmt.Printf("Recorded expense: %s ($%s, %s)\n", entry.ID, entry.Amount.StringFixed(2), entry.Category)
	return nil
}

func runExpenseList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.ExpenseEntry](sess, types.Expenses)
	if err != nil {
		return err
	}
	sortByDateDesc(entries, func(e types.ExpenseEntry) dates.Date { return e.Date })

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No expense entries found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		deductible := "yes"
		if !e.TaxDeductible {
			deductible = "no"
		}
		rows = append(rows, []string{
			shortID(e.ID), e.Date.String(), e.Amount.StringFixed(2), truncate(e.Category, 24), deductible, truncate(e.Notes, 30),
		})
	}
	printTable([]string{"ID", "DATE", "AMOUNT", "CATEGORY", "DEDUCTIBLE", "NOTES"}, rows,
		fmt.Sprintf("Total: %d entry(ies)", len(entries)))
	return nil
}

func runExpenseRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.ExpenseEntry](sess, types.Expenses)
	if err != nil {
		return err
	}

	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == args[0] || shortID(e.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("expense entry %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Expenses, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted expense entry %s\n", args[0])
	return nil
}
