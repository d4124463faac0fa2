package types

import "github.com/mesh-intelligence/daybook/pkg/dates"

// Client is a person or business the user works for. Other records refer
// to a client by ID; the reference is soft, so deleting a client leaves
// income history intact.
type Client struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone,omitempty"`
	Email         string      `json:"email,omitempty"`
	Address       string      `json:"address,omitempty"`
	ServiceNotes  string      `json:"serviceNotes,omitempty"`
	LastVisitDate *dates.Date `json:"lastVisitDate,omitempty"`
}
