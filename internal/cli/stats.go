// Stats command: period totals across income, expenses, and mileage.
package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	statsFrom string
	statsTo   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals for a period",
	Long: `Stats sums income, expenses, mileage deductions, and net profit over
a date range. Without flags it covers the current calendar year.

Example:
  daybook stats
  daybook stats --from 2026-01-01 --to 2026-03-31`,
	RunE: runStats,
}

// periodStats is the JSON shape emitted with --json.
type periodStats struct {
	From             dates.Date      `json:"from"`
	To               dates.Date      `json:"to"`
	Income           decimal.Decimal `json:"income"`
	TaxableIncome    decimal.Decimal `json:"taxableIncome"`
	Expenses         decimal.Decimal `json:"expenses"`
	Deductible       decimal.Decimal `json:"deductibleExpenses"`
	MileageDeduction decimal.Decimal `json:"mileageDeduction"`
	Net              decimal.Decimal `json:"net"`
	Appointments     int             `json:"appointmentsCompleted"`
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "period start (YYYY-MM-DD, default Jan 1)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "period end (YYYY-MM-DD, default today)")
}

func runStats(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	today := dates.Today()
	from := dates.New(today.Year(), 1, 1)
	to := today
	if statsFrom != "" {
		if from, err = dates.Parse(statsFrom); err != nil {
			return err
		}
	}
	if statsTo != "" {
		if to, err = dates.Parse(statsTo); err != nil {
			return err
		}
	}

	inPeriod := func(d dates.Date) bool {
		return !d.Before(from) && !d.After(to)
	}

	stats := periodStats{From: from, To: to}

	income, err := loadRecords[types.IncomeEntry](sess, types.Income)
	if err != nil {
		return err
	}
	for _, e := range income {
		if !inPeriod(e.Date) {
			continue
		}
		stats.Income = stats.Income.Add(e.Amount)
		if e.Taxable {
			stats.TaxableIncome = stats.TaxableIncome.Add(e.Amount)
		}
	}

	expenses, err := loadRecords[types.ExpenseEntry](sess, types.Expenses)
	if err != nil {
		return err
	}
	for _, e := range expenses {
		if !inPeriod(e.Date) {
			continue
		}
		stats.Expenses = stats.Expenses.Add(e.Amount)
		if e.TaxDeductible {
			stats.Deductible = stats.Deductible.Add(e.Amount)
		}
	}

	trips, err := loadRecords[types.MileageEntry](sess, types.Mileage)
	if err != nil {
		return err
	}
	for _, e := range trips {
		if inPeriod(e.Date) {
			stats.MileageDeduction = stats.MileageDeduction.Add(e.Deduction())
		}
	}

	appts, err := loadRecords[types.Appointment](sess, types.Appointments)
	if err != nil {
		return err
	}
	for _, a := range appts {
		if inPeriod(a.Date) && a.Status == types.StatusCompleted {
			stats.Appointments++
		}
	}

	stats.Net = stats.Income.Sub(stats.Expenses)

	if flagJSON {
		return printJSON(stats)
	}

	fmt.Printf("Period: %s through %s\n\n", stats.From, stats.To)
	rows := [][]string{
		{"Income", stats.Income.StringFixed(2)},
		{"  taxable", stats.TaxableIncome.StringFixed(2)},
		{"Expenses", stats.Expenses.StringFixed(2)},
		{"  deductible", stats.Deductible.StringFixed(2)},
		{"Mileage deduction", stats.MileageDeduction.StringFixed(2)},
		{"Net", stats.Net.StringFixed(2)},
	}
	printTable([]string{"METRIC", "AMOUNT"}, rows,
		fmt.Sprintf("Completed appointments: %d", stats.Appointments))
	return nil
}
