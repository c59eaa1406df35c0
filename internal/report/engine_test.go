package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateScenario(t *testing.T) {
	day1 := day(2025, 3, 10)
	day2 := day(2025, 3, 11)
	current := NewRange(day1, day2)

	records := []Record{
		{OccurredAt: day1.Add(10 * time.Hour), Amount: "1,200.50"},
		{OccurredAt: day1.Add(11 * time.Hour), Amount: 0},
		{OccurredAt: day2.Add(9 * time.Hour), Amount: 500},
	}

	snap := Aggregate(records, current, nil)

	assert.Equal(t, 1700.50, snap.TotalSales)
	// Zero-amount records still count as orders.
	assert.Equal(t, 3, snap.OrderCount)

	byDate := make(map[string]DayPoint)
	for _, p := range snap.Daily {
		byDate[p.Date] = p
	}
	assert.Equal(t, 1200.50, byDate["2025-03-10"].Total)
	assert.Equal(t, 2, byDate["2025-03-10"].Count)
	assert.Equal(t, 500.0, byDate["2025-03-11"].Total)
	assert.Equal(t, 1, byDate["2025-03-11"].Count)

	// Empty comparison period: change is 100% by policy.
	assert.Equal(t, 100.0, snap.PercentChange)
}

func TestAggregateDailySeriesIsGapless(t *testing.T) {
	current := NewRange(day(2025, 3, 8), day(2025, 3, 14))

	// Only two days carry data, the series still covers the whole
	// comparison-start..end window.
	records := []Record{
		{OccurredAt: day(2025, 3, 9), Amount: 40},
		{OccurredAt: day(2025, 3, 13), Amount: 60},
	}

	snap := Aggregate(records, current, nil)

	comparison := Comparison(current)
	wantLen := comparison.Days() + current.Days()
	require.Len(t, snap.Daily, wantLen)

	// Consecutive calendar days, no gaps.
	prev, err := time.Parse(time.DateOnly, snap.Daily[0].Date)
	require.NoError(t, err)
	for _, p := range snap.Daily[1:] {
		d, err := time.Parse(time.DateOnly, p.Date)
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 1), d)
		prev = d
	}
	assert.Equal(t, comparison.Start.Format(time.DateOnly), snap.Daily[0].Date)
	assert.Equal(t, current.End.Format(time.DateOnly), snap.Daily[wantLen-1].Date)
}

func TestAggregateConservation(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 12))
	comparison := Comparison(current)

	records := []Record{
		{OccurredAt: comparison.Start.Add(2 * time.Hour), Amount: "100"},
		{OccurredAt: comparison.Start.AddDate(0, 0, 1), Amount: 250.25},
		{OccurredAt: current.Start.Add(time.Hour), Amount: "1,000"},
		{OccurredAt: current.End.Add(-time.Hour), Amount: 49.75},
		// Outside the window on both sides: contributes nowhere.
		{OccurredAt: comparison.Start.AddDate(0, 0, -1), Amount: 9999},
		{OccurredAt: current.End.AddDate(0, 0, 1), Amount: 9999},
		// Unresolvable date: skipped.
		{OccurredAt: "someday", Amount: 42},
	}

	snap := Aggregate(records, current, nil)

	var daySum float64
	for _, p := range snap.Daily {
		daySum += p.Total
	}
	assert.InDelta(t, 100+250.25+1000+49.75, daySum, 1e-9)
	assert.InDelta(t, 1049.75, snap.TotalSales, 1e-9)
	assert.InDelta(t, 350.25, snap.ComparisonTotal, 1e-9)
	assert.Equal(t, 2, snap.OrderCount)
}

func TestAggregatePaymentMethods(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 10))
	at := current.Start.Add(12 * time.Hour)

	records := []Record{
		// Breakdown map: each positive entry contributes under its
		// normalized label, zero entries are skipped.
		{OccurredAt: at, Amount: 700, Payments: map[string]interface{}{
			"creditCard":   "500",
			"mobile_money": 200,
			"cash":         0,
		}},
		// Single method field fallback.
		{OccurredAt: at, Amount: 80, Method: "cash"},
		// No method at all.
		{OccurredAt: at, Amount: 20},
	}

	snap := Aggregate(records, current, nil)

	totals := make(map[string]float64)
	for _, b := range snap.TopPaymentMethods {
		totals[b.Label] = b.Total
	}
	assert.Equal(t, 500.0, totals["Credit Card"])
	assert.Equal(t, 200.0, totals["Mobile Money"])
	assert.Equal(t, 80.0, totals["Cash"])
	assert.Equal(t, 20.0, totals["N/A"])
}

func TestAggregateLineItems(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 10))
	at := current.Start.Add(8 * time.Hour)

	records := []Record{
		{OccurredAt: at, Amount: 260, Items: []Item{
			// Explicit total wins.
			{Name: "Sugar 1kg", Quantity: 2, UnitPrice: 100, Total: 180},
			// Quantity x unit price.
			{Name: "Bread", Quantity: 2, UnitPrice: 30},
			// Quantity defaults to 1.
			{Name: "Milk 500ml", UnitPrice: 20},
			// Nameless items are dropped.
			{Quantity: 3, UnitPrice: 5},
		}},
	}

	snap := Aggregate(records, current, nil)

	totals := make(map[string]float64)
	for _, b := range snap.TopItems {
		totals[b.Label] = b.Total
	}
	assert.Equal(t, 180.0, totals["Sugar 1kg"])
	assert.Equal(t, 60.0, totals["Bread"])
	assert.Equal(t, 20.0, totals["Milk 500ml"])
	assert.Len(t, snap.TopItems, 3)
}

func TestAggregateSalespersonRoster(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 10))
	at := current.Start.Add(8 * time.Hour)
	roster := NewRoster([]string{"Alice Wanjiku", "Brian Otieno"})

	records := []Record{
		{OccurredAt: at, Amount: 100, Salesperson: "alice wanjiku"},
		{OccurredAt: at, Amount: 50, Salesperson: " Alice Wanjiku "},
		{OccurredAt: at, Amount: 75, Salesperson: "Brian Otieno"},
		// Not on the roster: excluded from the ranking.
		{OccurredAt: at, Amount: 500, Salesperson: "Random Walk-in"},
		// No salesperson at all lands in the Admin bucket.
		{OccurredAt: at, Amount: 500},
	}

	snap := Aggregate(records, current, roster)

	require.Len(t, snap.TopSalespeople, 3)
	assert.Equal(t, "Admin", snap.TopSalespeople[0].Label)
	assert.Equal(t, 500.0, snap.TopSalespeople[0].Total)
	assert.Equal(t, "Alice Wanjiku", snap.TopSalespeople[1].Label)
	assert.Equal(t, 150.0, snap.TopSalespeople[1].Total)
	assert.Equal(t, "Brian Otieno", snap.TopSalespeople[2].Label)
	assert.Equal(t, 75.0, snap.TopSalespeople[2].Total)
}

func TestAggregateCustomerResolution(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 10))
	at := current.Start.Add(8 * time.Hour)

	records := []Record{
		{OccurredAt: at, Amount: 100, Customer: "Jane Doe"},
		{OccurredAt: at, Amount: 40, Customer: map[string]interface{}{"name": "Jane Doe"}},
		{OccurredAt: at, Amount: 25},
	}

	snap := Aggregate(records, current, nil)

	totals := make(map[string]float64)
	for _, b := range snap.TopCustomers {
		totals[b.Label] = b.Total
	}
	assert.Equal(t, 140.0, totals["Jane Doe"])
	assert.Equal(t, 25.0, totals["N/A"])
}

func TestTopNTruncationAndOrdering(t *testing.T) {
	current := NewRange(day(2025, 3, 10), day(2025, 3, 10))
	at := current.Start.Add(8 * time.Hour)

	var records []Record
	for i := 0; i < 8; i++ {
		records = append(records, Record{
			OccurredAt: at,
			Amount:     float64(10 * (i + 1)),
			Customer:   fmt.Sprintf("Customer %d", i),
		})
	}
	// Two customers tied with the leader: label breaks the tie.
	records = append(records,
		Record{OccurredAt: at, Amount: 80, Customer: "Aardvark Ltd"},
		Record{OccurredAt: at, Amount: 80, Customer: "Zebra Ltd"},
	)

	snap := Aggregate(records, current, nil)

	require.Len(t, snap.TopCustomers, TopN)
	for i := 1; i < len(snap.TopCustomers); i++ {
		assert.GreaterOrEqual(t, snap.TopCustomers[i-1].Total, snap.TopCustomers[i].Total)
	}
	assert.Equal(t, "Aardvark Ltd", snap.TopCustomers[0].Label)
	assert.Equal(t, "Customer 7", snap.TopCustomers[1].Label)
	assert.Equal(t, "Zebra Ltd", snap.TopCustomers[2].Label)
}
