package report

import (
	"github.com/mkamau/storesight-api/pkg/normalize"
)

// Record is the aggregation engine's view of a single sale or purchase
// event. Fields deliberately stay loosely typed: POS clients have shipped
// amounts as punctuated strings, timestamps as seconds objects and
// counterparties as either plain names or nested objects. The normalize
// package resolves every shape during the fold, so one malformed record can
// never abort a pass.
type Record struct {
	ID          string
	OccurredAt  interface{}
	Amount      interface{}
	Payments    map[string]interface{}
	Method      string
	Items       []Item
	Customer    interface{}
	Salesperson interface{}
}

// Item is one line item on a record.
type Item struct {
	Name      string
	Quantity  interface{}
	UnitPrice interface{}
	Total     interface{}
}

// amount returns the item's contribution: the explicit total when present
// and non-zero, otherwise quantity times unit price with quantity defaulting
// to 1.
func (it Item) amount() float64 {
	if total := normalize.Amount(it.Total); total != 0 {
		return total
	}
	qty := 1.0
	if it.Quantity != nil {
		qty = normalize.Amount(it.Quantity)
	}
	return qty * normalize.Amount(it.UnitPrice)
}
