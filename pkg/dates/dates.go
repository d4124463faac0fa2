// Package dates provides a day-granularity Date type for bookkeeping records.
// All persisted dates are ISO-8601 day strings; arithmetic is calendar-aware.
package dates

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the canonical string representation of a Date.
const Format = "2006-01-02"

// readFormat is slightly permissive on read, accepting single-digit
// month and day (e.g. "2025-7-1").
const readFormat = "2006-1-2"

// Date represents a calendar date with no time-of-day component.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
// Out-of-range components roll over the way time.Date does.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in local time.
func Today() Date { return New(time.Now().Date()) }

// time returns the canonical time.Time for the date (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// String formats the date in the canonical "2006-01-02" form.
func (d Date) String() string { return d.time().Format(Format) }

// AddDays returns the date i days after d (or before, for negative i).
func (d Date) AddDays(i int) Date { return New(d.y, d.m, d.d+i) }

// AddMonths returns the date i calendar months after d. When the day of
// month does not exist in the target month it is clamped to the last day
// of that month (Jan 31 + 1 month = Feb 28/29), never rolled over.
func (d Date) AddMonths(i int) Date {
	first := time.Date(d.y, d.m+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
	day := d.d
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

// AddYears returns the date i calendar years after d, clamping Feb 29
// to Feb 28 in non-leap years.
func (d Date) AddYears(i int) Date {
	day := d.d
	if last := daysIn(d.y+i, d.m); day > last {
		day = last
	}
	return New(d.y+i, d.m, day)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Parse parses a Date from its string form.
func Parse(str string) (Date, error) {
	t, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, Format, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON encodes the date as a "2006-01-02" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "2006-01-02" JSON string into the date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
