package report

import "time"

// Range is an inclusive reporting period. Start is normalized to the first
// millisecond of its day and End to 23:59:59.999, so two adjacent ranges are
// separated by exactly one millisecond.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a normalized inclusive range from two timestamps.
func NewRange(start, end time.Time) Range {
	return Range{
		Start: startOfDay(start),
		End:   endOfDay(end),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Key returns the canonical string identity of the range, used for cache
// validity checks.
func (r Range) Key() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

// Contains reports whether t falls inside the inclusive range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the inclusive calendar day count of the range.
func (r Range) Days() int {
	return int(startOfDay(r.End).Sub(startOfDay(r.Start))/(24*time.Hour)) + 1
}

// Comparison derives the preceding period of identical duration: its end is
// exactly one millisecond before the current start and its start is offset
// backward by the same duration. The two periods never overlap regardless of
// period length, which keeps the percentage-change computation uniform.
func Comparison(r Range) Range {
	duration := r.End.Sub(r.Start)
	end := r.Start.Add(-time.Millisecond)
	return Range{
		Start: end.Add(-duration),
		End:   end,
	}
}

// PercentChange computes the change of current vs comparison in percent.
// A zero comparison total yields 100 when the current total is positive and
// 0 otherwise, avoiding division by zero.
func PercentChange(current, comparison float64) float64 {
	if comparison == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - comparison) / comparison * 100
}
