// Mileage commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	mileageDate    string
	mileageMiles   string
	mileageFrom    string
	mileageTo      string
	mileagePurpose string
	mileageClient  string
	mileageRate    string
)

var mileageCmd = &cobra.Command{
	Use:   "mileage",
	Short: "Record and list business trips",
}

var mileageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a trip",
	Long: `Add records a business trip. The deduction column in list output
is miles times the entry's rate; entries without a rate use the
current standard mileage rate.

Example:
  daybook mileage add --miles 18.4 --from "Home office" --to "Acme Corp"`,
	RunE: runMileageAdd,
}

var mileageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trips",
	RunE:  runMileageList,
}

var mileageRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runMileageRm,
}

func init() {
	mileageAddCmd.Flags().StringVar(&mileageDate, "date", "", "date (YYYY-MM-DD, default today)")
	mileageAddCmd.Flags().StringVar(&mileageMiles, "miles", "", "miles driven (required)")
	mileageAddCmd.Flags().StringVar(&mileageFrom, "from", "", "start location")
	mileageAddCmd.Flags().StringVar(&mileageTo, "to", "", "end location")
	mileageAddCmd.Flags().StringVar(&mileagePurpose, "purpose", "", "business purpose")
	mileageAddCmd.Flags().StringVar(&mileageClient, "client", "", "client id")
	mileageAddCmd.Flags().StringVar(&mileageRate, "rate", "", "dollars per mile (default standard rate)")
	_ = mileageAddCmd.MarkFlagRequired("miles")

	mileageCmd.AddCommand(mileageAddCmd)
	mileageCmd.AddCommand(mileageListCmd)
	mileageCmd.AddCommand(mileageRmCmd)
}

func runMileageAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	date, err := parseDateFlag(mileageDate)
	if err != nil {
		return err
	}
	miles, err := parseAmount(mileageMiles)
	if err != nil {
		return err
	}

	entry := types.MileageEntry{
		ID:            types.NewID(),
		Date:          date,
		StartLocation: mileageFrom,
		EndLocation:   mileageTo,
		Miles:         miles,
		Purpose:       mileagePurpose,
		ClientID:      mileageClient,
	}
	if mileageRate != "" {
		rate, err := parseAmount(mileageRate)
		if err != nil {
			return err
		}
		entry.Rate = &rate
	}

	entries, err := loadRecords[types.MileageEntry](sess, types.Mileage)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := scheduleSave(sess, types.Mileage, entries); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entry)
	}
	fmt.Printf("Recorded trip: %s (%s mi, $%s deduction)\n",
		entry.ID, entry.Miles.String(), entry.Deduction().StringFixed(2))
	return nil
}

func runMileageList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.MileageEntry](sess, types.Mileage)
	if err != nil {
		return err
	}
	sortByDateDesc(entries, func(e types.MileageEntry) dates.Date { return e.Date })

	if flagJSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No trips found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		route := e.StartLocation
		if e.EndLocation != "" {
			route += " -> " + e.EndLocation
		}
		rows = append(rows, []string{
			shortID(e.ID), e.Date.String(), e.Miles.String(), truncate(route, 36), e.Deduction().StringFixed(2),
		})
	}
	printTable([]string{"ID", "DATE", "MILES", "ROUTE", "DEDUCTION"}, rows,
		fmt.Sprintf("Total: %d trip(s)", len(entries)))
	return nil
}

func runMileageRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := loadRecords[types.MileageEntry](sess, types.Mileage)
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
		return fmt.Errorf("trip %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Mileage, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted trip %s\n", args[0])
	return nil
}
