package types

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/daybook/pkg/dates"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// validStatuses is the set of recognized appointment status values.
var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a recognized appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment is a scheduled visit. When materialized from a recurring
// rule it carries RecurringRuleID as a weak back-reference, used only for
// duplicate lookup, never for ownership: appointments are disposable
// projections of their rule.
type Appointment struct {
	ID              string           `json:"id"`
	ClientID        string           `json:"clientId,omitempty"`
	Date            dates.Date       `json:"date"`
	Time            string           `json:"time,omitempty"`
	Service         string           `json:"service,omitempty"`
	Status          string           `json:"status"`
	Duration        int              `json:"duration,omitempty"` // minutes
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	RecurringRuleID string           `json:"recurringRuleId,omitempty"`
}
