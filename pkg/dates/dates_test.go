package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNew_Normalizes(t *testing.T) {
	// Out-of-range days roll over the way time.Date does.
	d := New(2024, time.January, 32)
	if got := d.String(); got != "2024-02-01" {
		t.Errorf("New(2024, 1, 32) = %s, want 2024-02-01", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-15", want: "2024-01-15"},
		{in: "2024-1-5", want: "2024-01-05"}, // permissive single-digit form
		{in: "2024-02-29", want: "2024-02-29"},
		{in: "not-a-date", wantErr: true},
		{in: "2024-13-01", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		d, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, d, tt.want)
		}
	}
}

func TestAddDays(t *testing.T) {
	d := MustParse("2024-02-27")
	if got := d.AddDays(3).String(); got != "2024-03-01" {
		t.Errorf("AddDays(3) = %s, want 2024-03-01 (leap year)", got)
	}
	if got := d.AddDays(-27).String(); got != "2024-01-31" {
		t.Errorf("AddDays(-27) = %s, want 2024-01-31", got)
	}
}

func TestAddMonths_Clamps(t *testing.T) {
	tests := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"}, // leap year clamp
		{"2023-01-31", 1, "2023-02-28"}, // non-leap clamp
		{"2024-01-31", 3, "2024-04-30"},
		{"2024-03-31", 1, "2024-04-30"},
		{"2024-01-15", 1, "2024-02-15"}, // no clamp needed
		{"2024-11-30", 3, "2025-02-28"}, // year boundary
		{"2024-03-31", -1, "2024-02-29"},
	}
	for _, tt := range tests {
		got := MustParse(tt.start).AddMonths(tt.months).String()
		if got != tt.want {
			t.Errorf("%s + %d months = %s, want %s", tt.start, tt.months, got, tt.want)
		}
	}
}

func TestAddYears_ClampsLeapDay(t *testing.T) {
	d := MustParse("2024-02-29")
	if got := d.AddYears(1).String(); got != "2025-02-28" {
		t.Errorf("2024-02-29 + 1 year = %s, want 2025-02-28", got)
	}
	if got := d.AddYears(4).String(); got != "2028-02-29" {
		t.Errorf("2024-02-29 + 4 years = %s, want 2028-02-29", got)
	}
}

func TestBeforeAfter(t *testing.T) {
	a := MustParse("2024-01-01")
	b := MustParse("2024-01-02")
	if !a.Before(b) || b.Before(a) {
		t.Error("Before ordering wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After ordering wrong")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestIsZero(t *testing.T) {
	var zero Date
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if MustParse("2024-01-01").IsZero() {
		t.Error("real date should not report IsZero")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2024-07-04")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-07-04"` {
		t.Errorf("Marshal = %s, want \"2024-07-04\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip changed date: %s != %s", back, d)
	}
}

func TestUnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"garbage"`), &d); err == nil {
		t.Error("expected error for invalid date string")
	}
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Error("expected error for non-string JSON")
	}
}
