// Income commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	incomeAmount     string
	incomeDate       string
	incomeMethod     string
	incomeClient     string
	incomeAppt       string
	incomeNotes      string
	incomeNonTaxable bool
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Record and list income",
}

var incomeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an income entry",
	Long: `Add records money received. Link it to an appointment with --appt
to keep payment history attached to the visit.

Example:
  daybook income add --amount 85.00 --method Venmo --client 0198c2f1`,
	RunE: runIncomeAdd,
}

var incomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List income entries",
	RunE:  runIncomeList,
}

var incomeRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an income entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runIncomeRm,
}

func init() {
	incomeAddCmd.Flags().StringVar(&incomeAmount, "amount", "", "amount received (required)")
	incomeAddCmd.Flags().StringVar(&incomeDate, "date", "", "date (YYYY-MM-DD, default today)")
	incomeAddCmd.Flags().StringVar(&incomeMethod, "method", "", "payment method")
	incomeAddCmd.Flags().StringVar(&incomeClient, "client", "", "client id")
	incomeAddCmd.Flags().StringVar(&incomeAppt, "appt", "", "appointment id this payment settles")
	incomeAddCmd.Flags().StringVar(&incomeNotes, "notes", "", "free-text notes")
	incomeAddCmd.Flags().BoolVar(&incomeNonTaxable, "non-taxable", false, "exclude from taxable income")
	_ = incomeAddCmd.MarkFlagRequired("amount")

	incomeCmd.AddCommand(incomeAddCmd)
	incomeCmd.AddCommand(incomeListCmd)
	incomeCmd.AddCommand(incomeRmCmd)
}

func runIncomeAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	amount, err := parseAmount(incomeAmount)
	if err != nil {
		return err
	}
	date, err := parseDateFlag(incomeDate)
	if err != nil {
		return err
	}

	entry := types.IncomeEntry{
		ID:            types.NewID(),
		Amount:        amount,
		Date:          date,
		Method:        incomeMethod,
		Notes:         incomeNotes,
		ClientID:      incomeClient,
		AppointmentID: incomeAppt,
		Taxable:       !incomeNonTaxable,
	}

	entries, err := loadRecords[types.IncomeEntry](sess, types.Income)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := scheduleSave(sess, types.Income, entries); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entry)
	}
	fmt.Printf("Recorded income: %s ($%s on %s)\n", entry.ID, entry.Amount.StringFixed(2), entry.Date)
	return nil
}

func runIncomeList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.IncomeEntry](sess, types.Income)
	if err != nil {
		return err
	}
	sortByDateDesc(entries, func(e types.IncomeEntry) dates.Date { return e.Date })

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No income entries found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		taxable := "yes"
		if !e.Taxable {
			taxable = "no"
		}
		rows = append(rows, []string{
			shortID(e.ID), e.Date.String(), e.Amount.StringFixed(2), e.Method, taxable, truncate(e.Notes, 30),
		})
	}
	printTable([]string{"ID", "DATE", "AMOUNT", "METHOD", "TAXABLE", "NOTES"}, rows,
		fmt.Sprintf("Total: %d entry(ies)", len(entries)))
	return nil
}

func runIncomeRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.IncomeEntry](sess, types.Income)
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
		return fmt.Errorf("income entry %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Income, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted income entry %s\n", args[0])
	return nil
}
