package report

import (
	"sort"
	"strings"
	"time"

	"github.com/mkamau/storesight-api/pkg/normalize"
)

// TopN is the length every ranking list is truncated to.
const TopN = 5

const (
	// FallbackCustomer labels records with no resolvable counterparty.
	FallbackCustomer = "N/A"
	// FallbackSalesperson labels records with no resolvable salesperson.
	FallbackSalesperson = "Admin"
	// FallbackMethod labels records with no payment method at all.
	FallbackMethod = "N/A"
)

// Bucket is one ranked entry: a category label with its running total and
// count.
type Bucket struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// DayPoint is one day of the gapless daily series.
type DayPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Snapshot is the fully computed dashboard result for one tenant and range.
// It is immutable once produced: the orchestrator owns it and handlers only
// ever see it read-only.
type Snapshot struct {
	Start             string     `json:"start"`
	End               string     `json:"end"`
	TotalSales        float64    `json:"total_sales"`
	OrderCount        int        `json:"order_count"`
	ComparisonTotal   float64    `json:"comparison_total"`
	PercentChange     float64    `json:"percent_change"`
	Daily             []DayPoint `json:"daily"`
	TopPaymentMethods []Bucket   `json:"top_payment_methods"`
	TopItems          []Bucket   `json:"top_items"`
	TopCustomers      []Bucket   `json:"top_customers"`
	TopSalespeople    []Bucket   `json:"top_salespeople"`
	GeneratedAt       time.Time  `json:"generated_at"`
}

type accumulator struct {
	total float64
	count int
}

// Roster is the allowlist of known salesperson names, keyed by trimmed
// lower-case name with the user's display name as value. Matches are
// grouped under the display name so case variants land in one bucket;
// names absent from the roster are dropped from the ranking.
type Roster map[string]string

// NewRoster builds a roster from user display names.
func NewRoster(names []string) Roster {
	r := make(Roster, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		r[strings.ToLower(n)] = n
	}
	return r
}

func (r Roster) resolve(name string) (string, bool) {
	display, ok := r[strings.ToLower(strings.TrimSpace(name))]
	return display, ok
}

// Aggregate folds records into a Snapshot in a single linear pass.
//
// Day buckets are pre-seeded for every calendar day of
// [comparison.Start, current.End], so the output series never has gaps.
// A record contributes to day buckets when its date falls anywhere in that
// window, to category and grand totals only inside the current window, and
// to the comparison total only inside the comparison window. Records whose
// date resolves to nothing are skipped; all other malformed fields fall back
// to normalization defaults. Counts increment on any window match,
// independent of amount.
func Aggregate(records []Record, current Range, roster Roster) *Snapshot {
	comparison := Comparison(current)
	window := Range{Start: comparison.Start, End: current.End}

	days := make(map[string]*accumulator)
	var dayOrder []string
	for d := startOfDay(window.Start); !d.After(window.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		days[key] = &accumulator{}
		dayOrder = append(dayOrder, key)
	}

	methods := make(map[string]*accumulator)
	items := make(map[string]*accumulator)
	customers := make(map[string]*accumulator)
	salespeople := make(map[string]*accumulator)

	var totalSales, comparisonTotal float64
	var orderCount int

	for _, rec := range records {
		occurredAt, ok := normalize.Date(rec.OccurredAt)
		if !ok {
			continue
		}
		amount := normalize.Amount(rec.Amount)

		if window.Contains(occurredAt) {
			if day, ok := days[occurredAt.Format(time.DateOnly)]; ok {
				day.total += amount
				day.count++
			}
		}

		switch {
		case current.Contains(occurredAt):
			totalSales += amount
			orderCount++
			foldCategories(rec, amount, roster, methods, items, customers, salespeople)
		case comparison.Contains(occurredAt):
			comparisonTotal += amount
		}
	}

	daily := make([]DayPoint, 0, len(dayOrder))
	for _, key := range dayOrder {
		daily = append(daily, DayPoint{
			Date:  key,
			Total: days[key].total,
			Count: days[key].count,
		})
	}

	return &Snapshot{
		Start:             current.Start.Format(time.DateOnly),
		End:               current.End.Format(time.DateOnly),
		TotalSales:        totalSales,
		OrderCount:        orderCount,
		ComparisonTotal:   comparisonTotal,
		PercentChange:     PercentChange(totalSales, comparisonTotal),
		Daily:             daily,
		TopPaymentMethods: topN(methods),
		TopItems:          topN(items),
		TopCustomers:      topN(customers),
		TopSalespeople:    topN(salespeople),
		GeneratedAt:       time.Now().UTC(),
	}
}

// foldCategories applies one current-window record to every category map.
func foldCategories(
	rec Record,
	amount float64,
	roster Roster,
	methods, items, customers, salespeople map[string]*accumulator,
) {
	// Payment breakdown map wins over the single method field. Only
	// positive entries contribute.
	if len(rec.Payments) > 0 {
		for method, raw := range rec.Payments {
			if sub := normalize.Amount(raw); sub > 0 {
				add(methods, normalize.Label(method), sub)
			}
		}
	} else {
		label := FallbackMethod
		if rec.Method != "" {
			label = normalize.Label(rec.Method)
		}
		add(methods, label, amount)
	}

	for _, item := range rec.Items {
		if item.Name == "" {
			continue
		}
		add(items, item.Name, item.amount())
	}

	add(customers, normalize.Name(rec.Customer, FallbackCustomer), amount)

	// Salesperson ranking is allowlisted against the roster of known
	// salesman users; the record itself is not trusted. Records with no
	// salesperson at all are attributed to the admin bucket.
	name := normalize.Name(rec.Salesperson, FallbackSalesperson)
	if display, ok := roster.resolve(name); ok {
		add(salespeople, display, amount)
	} else if name == FallbackSalesperson {
		add(salespeople, FallbackSalesperson, amount)
	}
}

func add(m map[string]*accumulator, label string, amount float64) {
	acc, ok := m[label]
	if !ok {
		acc = &accumulator{}
		m[label] = acc
	}
	acc.total += amount
	acc.count++
}

// topN ranks a category map descending by total amount with an ascending
// label tie-break, then truncates to TopN. The tie-break keeps ranking
// output deterministic.
func topN(m map[string]*accumulator) []Bucket {
	buckets := make([]Bucket, 0, len(m))
	for label, acc := range m {
		buckets = append(buckets, Bucket{Label: label, Total: acc.total, Count: acc.count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Total != buckets[j].Total {
			return buckets[i].Total > buckets[j].Total
		}
		return buckets[i].Label < buckets[j].Label
	})

	if len(buckets) > TopN {
		buckets = buckets[:TopN]
	}
	return buckets
}
