// Appointment commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	apptClient   string
	apptDate     string
	apptTime     string
	apptService  string
	apptDuration int
	apptRate     string
	apptNotes    string
)

var apptCmd = &cobra.Command{
	Use:   "appt",
	Short: "Manage appointments",
}

var apptAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule an appointment",
	Long: `Add schedules a one-off appointment.

Example:
  daybook appt add --client 0198c2f1 --date 2026-09-03 --time 14:00 --service "Deep tissue massage"`,
	RunE: runApptAdd,
}

var apptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	RunE:  runApptList,
}

var apptDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an appointment completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setApptStatus(args[0], types.StatusCompleted)
	},
}

var apptCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Mark an appointment cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setApptStatus(args[0], types.StatusCancelled)
	},
}

var apptRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an appointment",
	Long: `Rm deletes an appointment. Deleting one that was generated from a
recurring rule is understood as an intentional override: the rule's
high-water mark has already passed its date, so the next generate run
will not recreate it.`,
	Args: cobra.ExactArgs(1),
	RunE: runApptRm,
}

func init() {
	apptAddCmd.Flags().StringVar(&apptClient, "client", "", "client id")
	apptAddCmd.Flags().StringVar(&apptDate, "date", "", "date (YYYY-MM-DD, default today)")
	apptAddCmd.Flags().StringVar(&apptTime, "time", "", "time of day (HH:MM)")
	apptAddCmd.Flags().StringVar(&apptService, "service", "", "service description")
	apptAddCmd.Flags().IntVar(&apptDuration, "duration", 0, "duration in minutes")
	apptAddCmd.Flags().StringVar(&apptRate, "rate", "", "hourly rate")
	apptAddCmd.Flags().StringVar(&apptNotes, "notes", "", "free-text notes")

	apptCmd.AddCommand(apptAddCmd)
	apptCmd.AddCommand(apptListCmd)
	apptCmd.AddCommand(apptDoneCmd)
	apptCmd.AddCommand(apptCancelCmd)
	apptCmd.AddCommand(apptRmCmd)
}

func runApptAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	date, err := parseDateFlag(apptDate)
	if err != nil {
		return err
	}

	appt := types.Appointment{
		ID:       types.NewID(),
		ClientID: apptClient,
		Date:     date,
		Time:     apptTime,
		Service:  apptService,
		Status:   types.StatusScheduled,
		Duration: apptDuration,
		Notes:    apptNotes,
	}
	if apptRate != "" {
		rate, err := parseAmount(apptRate)
		if err != nil {
			return err
		}
		appt.HourlyRate = &rate
	}

	appts, err := loadRecords[types.Appointment](sess, types.Appointments)
	if err != nil {
		return err
	}
	appts = append(appts, appt)

	if err := scheduleSave(sess, types.Appointments, appts); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(appt)
	}
	fmt.Printf("Scheduled appointment: %s on %s\n", appt.ID, appt.Date)
	return nil
}

func runApptList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	appts, err := loadRecords[types.Appointment](sess, types.Appointments)
	if err != nil {
		return err
	}
	sortByDateDesc(appts, func(a types.Appointment) dates.Date { return a.Date })

	if flagJSON {
		return printJSON(appts)
	}
	if len(appts) == 0 {
		fmt.Println("No appointments found.")
		return nil
	}

	rows := make([][]string, 0, len(appts))
	for _, a := range appts {
		recurring := ""
		if a.RecurringRuleID != "" {
			recurring = "yes"
		}
		rows = append(rows, []string{
			shortID(a.ID), a.Date.String(), a.Time, truncate(a.Service, 30), a.Status, recurring,
		})
	}
	printTable([]string{"ID", "DATE", "TIME", "SERVICE", "STATUS", "RECURRING"}, rows,
		fmt.Sprintf("Total: %d appointment(s)", len(appts)))
	return nil
}

// setApptStatus updates one appointment's status by full or short ID.
func setApptStatus(id, status string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	appts, err := loadRecords[types.Appointment](sess, types.Appointments)
	if err != nil {
		return err
	}

	found := false
	for i := range appts {
		if appts[i].ID == id || shortID(appts[i].ID) == id {
			appts[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("appointment %q not found", id)
	}

	if err := scheduleSave(sess, types.Appointments, appts); err != nil {
		return err
	}
	fmt.Printf("Appointment %s marked %s\n", id, status)
	return nil
}

func runApptRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	appts, err := loadRecords[types.Appointment](sess, types.Appointments)
	if err != nil {
		return err
	}

	kept := appts[:0]
	found := false
	for _, a := range appts {
		if a.ID == args[0] || shortID(a.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("appointment %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Appointments, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted appointment %s\n", args[0])
	return nil
}
