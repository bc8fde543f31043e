package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Allocate runs the oldest-debt-first waterfall over an owner's complete
// event list and returns the settled flag for every expense event, keyed by
// event ID. Income events do not appear in the result.
//
// All income is pooled, then expenses are walked in (Timestamp, Seq) order.
// An expense is settled only if the remaining pool covers its full amount.
// The first expense the pool cannot cover is a hard barrier: everything after
// it stays unsettled even when the pool would cover a smaller, later expense.
// Older debts have seniority; this is not bin packing.
//
// Allocate is pure. Inputs are assumed validated (amounts non-negative).
func Allocate(events []Event) map[string]bool {
	available := decimal.Zero
	var expenses []Event
	for _, e := range events {
		switch e.Kind {
		case Income:
			available = available.Add(e.Amount)
		case Expense:
			expenses = append(expenses, e)
		}
	}

	sortByOccurrence(expenses)

	out := make(map[string]bool, len(expenses))
	blocked := false
	for _, e := range expenses {
		if !blocked && available.GreaterThanOrEqual(e.Amount) {
			out[e.ID] = true
			available = available.Sub(e.Amount)
			continue
		}
		blocked = true
		out[e.ID] = false
	}
	return out
}

// sortByOccurrence orders events by Timestamp ascending, breaking ties by
// insertion sequence so equal timestamps allocate in the order recorded.
func sortByOccurrence(events []Event) {
	slices.SortFunc(events, func(a, b Event) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}
