package recur

import (
	"fmt"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// Advance computes the occurrence date that follows cursor for the given
// frequency and interval. It is a pure function of its inputs: the same
// cursor always yields the same successor. Monthly and yearly arithmetic
// is calendar-aware, clamping a day-of-month that does not exist in the
// target month (Jan 31 + 1 month = Feb 28/29) rather than rolling over.
func Advance(cursor dates.Date, frequency string, interval int) (dates.Date, error) {
	if interval < 1 {
		return dates.Date{}, fmt.Errorf("%w: interval must be at least 1, got %d", types.ErrInvalidRule, interval)
	}
	switch frequency {
	case types.FreqDaily:
		return cursor.AddDays(interval), nil
	case types.FreqWeekly:
		return cursor.AddDays(interval * 7), nil
	case types.FreqMonthly:
		return cursor.AddMonths(interval), nil
	case types.FreqYearly:
		return cursor.AddYears(interval), nil
	default:
		return dates.Date{}, fmt.Errorf("%w: unsupported frequency %q", types.ErrInvalidRule, frequency)
	}
}

// Next returns the occurrence a rule would materialize next: the
// successor of its high-water mark, or the start date itself when
// nothing was generated yet.
func Next(rule types.RecurringRule) (dates.Date, error) {
	if rule.LastGenerated == nil {
		return rule.StartDate, nil
	}
	return Advance(*rule.LastGenerated, rule.Frequency, rule.Interval)
}
