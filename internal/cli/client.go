// Client commands: manage the people and businesses you work for.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

var (
	clientName    string
	clientPhone   string
	clientEmail   string
	clientAddress string
	clientNotes   string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new client",
	Long: `Add creates a new client record.

Example:
  daybook client add --name "Dana Reyes" --phone 555-0137
  daybook client add --name "Acme Corp" --email billing@acme.test`,
	RunE: runClientAdd,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE:  runClientList,
}

var clientRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a client",
	Long: `Rm deletes a client record. References from appointments and
income history are soft: they keep their clientId and stay intact.`,
	Args: cobra.ExactArgs(1),
	RunE: runClientRm,
}

func init() {
	clientAddCmd.Flags().StringVar(&clientName, "name", "", "client name (required)")
	clientAddCmd.Flags().StringVar(&clientPhone, "phone", "", "phone number")
	clientAddCmd.Flags().StringVar(&clientEmail, "email", "", "email address")
	clientAddCmd.Flags().StringVar(&clientAddress, "address", "", "postal address")
	clientAddCmd.Flags().StringVar(&clientNotes, "notes", "", "service notes")
	_ = clientAddCmd.MarkFlagRequired("name")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientRmCmd)
}

func runClientAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	clients, err := loadRecords[types.Client](sess, types.Clients)
	if err != nil {
		return err
	}

	client := types.Client{
		ID:           types.NewID(),
		Name:         clientName,
		Phone:        clientPhone,
		Email:        clientEmail,
		Address:      clientAddress,
		ServiceNotes: clientNotes,
	}
	clients = append(clients, client)

	if err := scheduleSave(sess, types.Clients, clients); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(client)
	}
	fmt.Printf("Created client: %s\n", client.ID)
	return nil
}

func runClientList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	clients, err := loadRecords[types.Client](sess, types.Clients)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(clients)
	}
	if len(clients) == 0 {
		fmt.Println("No clients found.")
		return nil
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		lastVisit := ""
		if c.LastVisitDate != nil {
			lastVisit = c.LastVisitDate.String()
		}
		rows = append(rows, []string{shortID(c.ID), truncate(c.Name, 40), c.Phone, c.Email, lastVisit})
	}
	printTable([]string{"ID", "NAME", "PHONE", "EMAIL", "LAST VISIT"}, rows,
		fmt.Sprintf("Total: %d client(s)", len(clients)))
	return nil
}

func runClientRm(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	clients, err := loadRecords[types.Client](sess, types.Clients)
	if err != nil {
		return err
	}

	kept := clients[:0]
	found := false
	for _, c := range clients {
		if c.ID == args[0] || shortID(c.ID) == args[0] {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("client %q not found", args[0])
	}

	if err := scheduleSave(sess, types.Clients, kept); err != nil {
		return err
	}
	fmt.Printf("Deleted client %s\n", args[0])
	return nil
}
