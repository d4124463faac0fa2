package types

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/daybook/pkg/dates"
)

// Expense categories offered by the UI. The store accepts free text;
// these exist so screens and reports stay consistent.
var ExpenseCategories = []string{
	"Office Supplies",
	"Software & Tools",
	"Travel & Mileage",
	"Professional Services",
	"Marketing & Advertising",
	"Equipment",
	"Phone & Internet",
	"Rent & Utilities",
	"Meals & Entertainment",
	"Other",
}

// CategoryTravelMileage is the expense category whose amount may be
// derived from miles driven.
const CategoryTravelMileage = "Travel & Mileage"

// Payment methods offered by the UI.
var PaymentMethods = []string{
	"Cash",
	"Check",
	"Bank Transfer",
	"PayPal",
	"Venmo",
	"Zelle",
	"Credit Card",
	"Other",
}

// MileageRate2024 is the 2024 IRS standard mileage rate in dollars per
// mile. Rates are versioned constants, never stored per entry edit.
var MileageRate2024 = decimal.RequireFromString("0.670")

// DefaultMileageRate is the rate applied when an entry carries none.
var DefaultMileageRate = MileageRate2024

// IncomeEntry records money received. AppointmentID is an explicit
// optional reference; an empty value means no linked appointment.
type IncomeEntry struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          dates.Date      `json:"date"`
	Method        string          `json:"method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ClientID      string          `json:"clientId,omitempty"`
	AppointmentID string          `json:"appointmentId,omitempty"`
	Taxable       bool            `json:"taxable"`
}

// ExpenseEntry records money spent. Entries in the Travel & Mileage
// category may carry Miles, from which the amount can be derived.
type ExpenseEntry struct {
	ID            string           `json:"id"`
	Amount        decimal.Decimal  `json:"amount"`
	Date          dates.Date       `json:"date"`
	Category      string           `json:"category"`
	Notes         string           `json:"notes,omitempty"`
	TaxDeductible bool             `json:"taxDeductible"`
	Miles         *decimal.Decimal `json:"mileage,omitempty"`
}

// MileageEntry records a business trip.
type MileageEntry struct {
	ID            string           `json:"id"`
	Date          dates.Date       `json:"date"`
	StartLocation string           `json:"startLocation,omitempty"`
	EndLocation   string           `json:"endLocation,omitempty"`
	Miles         decimal.Decimal  `json:"miles"`
	Purpose       string           `json:"purpose,omitempty"`
	ClientID      string           `json:"clientId,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
}

// Deduction returns the deductible amount for the trip, miles times the
// entry's rate (or the default rate when none is set).
func (m MileageEntry) Deduction() decimal.Decimal {
	rate := DefaultMileageRate
	if m.Rate != nil {
		rate = *m.Rate
	}
	return m.Miles.Mul(rate)
}

// Invoice statuses.
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// validInvoiceStatuses is the set of recognized invoice status values.
var validInvoiceStatuses = map[string]bool{
	InvoiceDraft:   true,
	InvoiceSent:    true,
	InvoicePaid:    true,
	InvoiceOverdue: true,
}

// ValidInvoiceStatus reports whether s is a recognized invoice status.
func ValidInvoiceStatus(s string) bool { return validInvoiceStatuses[s] }

// InvoiceEntry is a billed invoice.
type InvoiceEntry struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientID      string          `json:"clientId"`
	Date          dates.Date      `json:"date"`
	DueDate       *dates.Date     `json:"dueDate,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
}

// BusinessGoal tracks progress toward a savings or revenue target.
type BusinessGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *dates.Date     `json:"deadline,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}
