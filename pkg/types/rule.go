package types

import (
	"fmt"

	"github.com/mesh-intelligence/daybook/pkg/dates"
)

// Recurrence frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// validFrequencies is the set of recognized frequency values.
var validFrequencies = map[string]bool{
	FreqDaily:   true,
	FreqWeekly:  true,
	FreqMonthly: true,
	FreqYearly:  true,
}

// ValidFrequency reports whether f is a recognized recurrence frequency.
func ValidFrequency(f string) bool { return validFrequencies[f] }

// RecurringRule is the source of truth for which appointments should
// exist. LastGenerated is the high-water mark of materialized occurrence
// dates; it only moves forward, which is what makes generation resumable
// and idempotent.
type RecurringRule struct {
	ID            string      `json:"id"`
	ClientID      string      `json:"clientId"`
	Time          string      `json:"time,omitempty"`
	Service       string      `json:"service,omitempty"`
	Frequency     string      `json:"frequency"`
	Interval      int         `json:"interval"`
	StartDate     dates.Date  `json:"startDate"`
	LastGenerated *dates.Date `json:"lastGenerated"`
	Active        bool        `json:"isActive"`
	Notes         string      `json:"notes,omitempty"`
}

// Validate checks that the rule is usable for generation. Errors wrap
// ErrInvalidRule so callers can skip bad rules without aborting the run.
func (r RecurringRule) Validate() error {
	if !ValidFrequency(r.Frequency) {
		return fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRule, r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1, got %d", ErrInvalidRule, r.Interval)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}
	return nil
}
