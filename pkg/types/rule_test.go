// Tests for recurring rule validation.
package types

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/daybook/pkg/dates"
)

func validRule() RecurringRule {
	return RecurringRule{
		ID:        "r1",
		ClientID:  "c1",
		Frequency: FreqWeekly,
		Interval:  1,
		StartDate: dates.MustParse("2024-01-01"),
		Active:    true,
	}
}

func TestRecurringRule_Validate(t *testing.T) {
	if err := validRule().Validate(); err != nil {
		t.Fatalf("valid rule failed validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RecurringRule)
	}{
		{"unknown frequency", func(r *RecurringRule) { r.Frequency = "fortnightly" }},
		{"empty frequency", func(r *RecurringRule) { r.Frequency = "" }},
		{"zero interval", func(r *RecurringRule) { r.Interval = 0 }},
		{"negative interval", func(r *RecurringRule) { r.Interval = -2 }},
		{"zero start date", func(r *RecurringRule) { r.StartDate = dates.Date{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRule()
			tt.mutate(&r)
			err := r.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("error should wrap ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []string{FreqDaily, FreqWeekly, FreqMonthly, FreqYearly} {
		if !ValidFrequency(f) {
			t.Errorf("%q should be a valid frequency", f)
		}
	}
	if ValidFrequency("hourly") {
		t.Error("hourly should not be a valid frequency")
	}
}
