package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRangeNormalizesDayBounds(t *testing.T) {
	r := NewRange(
		time.Date(2025, 3, 10, 9, 45, 12, 0, time.UTC),
		time.Date(2025, 3, 12, 17, 3, 0, 0, time.UTC),
	)

	assert.Equal(t, day(2025, 3, 10), r.Start)
	assert.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.End)
	assert.Equal(t, 3, r.Days())
	assert.Equal(t, "2025-03-10..2025-03-12", r.Key())
}

func TestComparisonPrecedesWithoutOverlap(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"single day", day(2025, 3, 10), day(2025, 3, 10)},
		{"week", day(2025, 3, 10), day(2025, 3, 16)},
		{"custom 11 days", day(2025, 3, 2), day(2025, 3, 12)},
		{"across month boundary", day(2025, 3, 1), day(2025, 3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := NewRange(tt.start, tt.end)
			comparison := Comparison(current)

			// Identical duration, end exactly 1ms before the current start.
			assert.Equal(t, current.End.Sub(current.Start), comparison.End.Sub(comparison.Start))
			assert.Equal(t, current.Start.Add(-time.Millisecond), comparison.End)
			assert.Equal(t, current.Days(), comparison.Days())
			assert.False(t, comparison.Contains(current.Start))
			assert.False(t, current.Contains(comparison.End))
		})
	}
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 100.0, PercentChange(300, 0))
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.Equal(t, -50.0, PercentChange(100, 200))
	assert.Equal(t, 50.0, PercentChange(300, 200))
}
