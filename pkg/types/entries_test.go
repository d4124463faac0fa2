package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/daybook/pkg/dates"
)

func TestMileageEntry_Deduction(t *testing.T) {
	entry := MileageEntry{
		Miles: decimal.RequireFromString("10"),
	}
	// Default rate applies when the entry carries none.
	if got := entry.Deduction(); !got.Equal(decimal.RequireFromString("6.70")) {
		t.Errorf("Deduction() = %s, want 6.70", got)
	}

	rate := decimal.RequireFromString("0.5")
	entry.Rate = &rate
	if got := entry.Deduction(); !got.Equal(decimal.RequireFromString("5")) {
		t.Errorf("Deduction() with explicit rate = %s, want 5", got)
	}
}

func TestIncomeEntry_WireFormat(t *testing.T) {
	entry := IncomeEntry{
		ID:      "i1",
		Amount:  decimal.RequireFromString("85.50"),
		Date:    dates.MustParse("2024-03-15"),
		Taxable: true,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// Amounts persist as strings so no precision is lost.
	if got, ok := m["amount"].(string); !ok || got != "85.5" {
		t.Errorf("amount persisted as %v, want string \"85.5\"", m["amount"])
	}
	if got := m["date"]; got != "2024-03-15" {
		t.Errorf("date persisted as %v, want 2024-03-15", got)
	}
	if got := m["taxable"]; got != true {
		t.Errorf("taxable persisted as %v, want true", got)
	}
}
