package ledger

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// Status summarizes how far behind an owner is. ExpensesBack counts unsettled
// expenses; LastKvittDate is the date of the most recent settled expense.
// An owner with ExpensesBack == 0 is "kvitt" (paid up).
type Status struct {
	ExpensesBack  int  `json:"expensesBack"`
	LastKvittDate Date `json:"lastKvittDate"`
}

// Report derives the owner's status from the same waterfall that assigns
// settled flags, so the count can never disagree with the stored partition.
// When no expense is settled, LastKvittDate falls back to now's date.
func Report(events []Event, now time.Time) Status {
	settled := Allocate(events)

	st := Status{LastKvittDate: DateOf(now)}
	var last time.Time
	haveLast := false
	for _, e := range events {
		if e.Kind != Expense {
			continue
		}
		if !settled[e.ID] {
			st.ExpensesBack++
			continue
		}
		if !haveLast || e.Timestamp.After(last) {
			last = e.Timestamp
			haveLast = true
		}
	}
	if haveLast {
		st.LastKvittDate = DateOf(last)
	}
	return st
}

// Totals aggregates an owner's ledger. Balance is Income minus Expense and
// may be negative.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Sum computes exact-decimal totals over all events.
func Sum(events []Event) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range events {
		switch e.Kind {
		case Income:
			t.Income = t.Income.Add(e.Amount)
		case Expense:
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
