// Invoice commands.
package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	invoiceNumber   string
	invoiceClient   string
	invoiceDate     string
	invoiceDue      string
	invoiceSubtotal string
	invoiceTax      string
	invoiceNotes    string
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage invoices",
}

var invoiceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an invoice",
	Long: `Add creates a draft invoice. The total is subtotal plus tax.

Example:
  daybook invoice add --number INV-007 --client 0198c2f1 --subtotal 340.00 --tax 27.20`,
	RunE: runInvoiceAdd,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE:  runInvoiceList,
}

var invoiceMarkCmd = &cobra.Command{
	Use:   "mark <id> <status>",
	Short: "Set an invoice's status",
	Long:  "Mark sets an invoice's status to one of: draft, sent, paid, overdue.",
	Args:  cobra.ExactArgs(2),
	RunE:  runInvoiceMark,
}

var invoiceRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceRm,
}

func init() {
	invoiceAddCmd.Flags().StringVar(&invoiceNumber, "number", "", "invoice number (required)")
	invoiceAddCmd.Flags().StringVar(&invoiceClient, "client", "", "client id (required)")
	invoiceAddCmd.Flags().StringVar(&invoiceDate, "date", "", "issue date (YYYY-MM-DD, default today)")
	invoiceAddCmd.Flags().StringVar(&invoiceDue, "due", "", "due date (YYYY-MM-DD)")
	invoiceAddCmd.Flags().StringVar(&invoiceSubtotal, "subtotal", "", "subtotal before tax (required)")
	invoiceAddCmd.Flags().StringVar(&invoiceTax, "tax", "0", "tax amount")
	invoiceAddCmd.Flags().StringVar(&invoiceNotes, "notes", "", "free-text notes")
	_ = invoiceAddCmd.MarkFlagRequired("number")
	_ = invoiceAddCmd.MarkFlagRequired("client")
	_ = invoiceAddCmd.MarkFlagRequired("subtotal")

	invoiceCmd.AddCommand(invoiceAddCmd)
	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceMarkCmd)
	invoiceCmd.AddCommand(invoiceRmCmd)
}

func runInvoiceAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	date, err := parseDateFlag(invoiceDate)
	if err != nil {
		return err
	}
	subtotal, err := parseAmount(invoiceSubtotal)
	if err != nil {
		return err
	}
	tax := decimal.Zero
	if invoiceTax != "" {
		if tax, err = parseAmount(invoiceTax); err != nil {
			return err
		}
	}

	entry := types.InvoiceEntry{
		ID:            types.NewID(),
		InvoiceNumber: invoiceNumber,
		ClientID:      invoiceClient,
		Date:          date,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		Status:        types.InvoiceDraft,
		Notes:         invoiceNotes,
	}
	if invoiceDue != "" {
		due, err := dates.Parse(invoiceDue)
		if err != nil {
			return err
		}
		entry.DueDate = &due
	}

	invoices, err := loadRecords[types.InvoiceEntry](sess, types.Invoices)
	if err != nil {
		return err
	}
	invoices = append(invoices, entry)

	if err := scheduleSave(sess, types.Invoices, invoices); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entry)
	}
	fmt.Printf("Created invoice: %s (%s, $%s)\n", entry.ID, entry.InvoiceNumber, entry.Total.StringFixed(2))
	return nil
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	invoices, err := loadRecords[types.InvoiceEntry](sess, types.Invoices)
	if err != nil {
		return err
	}
	sortByDateDesc(invoices, func(e types.InvoiceEntry) dates.Date { return e.Date })

	if flagJSON {
		return printJSON(invoices)
	}
	if len(invoices) == 0 {
		fmt.Println("No invoices found.")
		return nil
	}

	rows := make([][]string, 0, len(invoices))
	for _, e := range invoices {
		due := ""
		if e.DueDate != nil {
			due = e.DueDate.String()
		}
		rows = append(rows, []string{
			shortID(e.ID), e.InvoiceNumber, e.Date.String(), due, e.Total.StringFixed(2), e.Status,
		})
	}
	printTable([]string{"ID", "NUMBER", "DATE", "DUE", "TOTAL", "STATUS"}, rows,
		fmt.Sprintf("Total: %d invoice(s)", len(invoices)))
	return nil
}

func runInvoiceMark(cmd *cobra.Command, args []string) error {
	id, status := args[0], args[1]
	if !types.ValidInvoiceStatus(status) {
		return fmt.Errorf("invalid status %q (want draft, sent, paid, or overdue)", status)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	invoices, err := loadRecords[types.InvoiceEntry](sess, types.Invoices)
	if err != nil {
		return err
	}

	found := false
	for i := range invoices {
		if invoices[i].ID == id || shortID(invoices[i].ID) == id {
			invoices[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invoice %q not found", id)
	}

	if err := scheduleSave(sess, types.Invoices, invoices); err != nil {
		return err
	}
	fmt.Printf("Invoice %s marked %s\n", id, status)
	return nil
}

func runInvoiceRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	invoices, err := loadRecords[types.InvoiceEntry](sess, types.Invoices)
	if err != nil {
		return err
	}

	kept := invoices[:0]
	found := false
	for _, e := range invoices {
		if e.ID == args[0] || shortID(e.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("invoice %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Invoices, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted invoice %s\n", args[0])
	return nil
}
