package ledger_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/johanlk/kvitt/internal/ledger"
)

var now = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func TestReport(t *testing.T) {
	cases := []struct {
		name     string
		events   []ledger.Event
		wantBack int
		wantDate ledger.Date
	}{
		{
			name:     "no events means kvitt today",
			events:   nil,
			wantBack: 0,
			wantDate: ledger.DateOf(now),
		},
		{
			name: "one behind",
			events: []ledger.Event{
				ev("salary", ledger.Income, "100", 0, 1),
				ev("rent", ledger.Expense, "60", 1, 2),
				ev("food", ledger.Expense, "50", 2, 3),
			},
			wantBack: 1,
			wantDate: ledger.DateOf(t0.AddDate(0, 0, 1)),
		},
		{
			name: "fully settled reports newest expense date",
			events: []ledger.Event{
				ev("salary", ledger.Income, "100", 0, 1),
				ev("bonus", ledger.Income, "50", 5, 2),
				ev("rent", ledger.Expense, "60", 1, 3),
				ev("food", ledger.Expense, "50", 2, 4),
			},
			wantBack: 0,
			wantDate: ledger.DateOf(t0.AddDate(0, 0, 2)),
		},
		{
			name: "nothing settled falls back to today",
			events: []ledger.Event{
				ev("rent", ledger.Expense, "60", 1, 1),
			},
			wantBack: 1,
			wantDate: ledger.DateOf(now),
		},
		{
			name: "income only is kvitt today",
			events: []ledger.Event{
				ev("salary", ledger.Income, "100", 0, 1),
			},
			wantBack: 0,
			wantDate: ledger.DateOf(now),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ledger.Report(tc.events, now)
			if got.ExpensesBack != tc.wantBack {
				t.Errorf("ExpensesBack = %d, want %d", got.ExpensesBack, tc.wantBack)
			}
			if got.LastKvittDate != tc.wantDate {
				t.Errorf("LastKvittDate = %s, want %s", got.LastKvittDate, tc.wantDate)
			}
		})
	}
}

func TestReportMatchesAllocate(t *testing.T) {
	events := []ledger.Event{
		ev("salary", ledger.Income, "100", 0, 1),
		ev("e1", ledger.Expense, "40", 1, 2),
		ev("e2", ledger.Expense, "80", 2, 3),
		ev("e3", ledger.Expense, "10", 3, 4),
	}
	settled := ledger.Allocate(events)
	unsettled := 0
	for _, ok := range settled {
		if !ok {
			unsettled++
		}
	}
	st := ledger.Report(events, now)
	if st.ExpensesBack != unsettled {
		t.Fatalf("ExpensesBack = %d, Allocate reports %d unsettled", st.ExpensesBack, unsettled)
	}
}

func TestStatusJSON(t *testing.T) {
	st := ledger.Status{
		ExpensesBack:  2,
		LastKvittDate: ledger.Date{Year: 2024, Month: time.March, Day: 7},
	}
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"expensesBack":2,"lastKvittDate":"2024-03-07"}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}

	var back ledger.Status
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != st {
		t.Errorf("round trip got %+v, want %+v", back, st)
	}
}

func TestSum(t *testing.T) {
	events := []ledger.Event{
		ev("salary", ledger.Income, "100.10", 0, 1),
		ev("bonus", ledger.Income, "0.20", 1, 2),
		ev("rent", ledger.Expense, "60.15", 2, 3),
	}
	got := ledger.Sum(events)
	if got.Income.String() != "100.3" {
		t.Errorf("Income = %s, want 100.3", got.Income)
	}
	if got.Expense.String() != "60.15" {
		t.Errorf("Expense = %s, want 60.15", got.Expense)
	}
	if got.Balance.String() != "40.15" {
		t.Errorf("Balance = %s, want 40.15", got.Balance)
	}
}

func TestSumNegativeBalance(t *testing.T) {
	events := []ledger.Event{
		ev("salary", ledger.Income, "10", 0, 1),
		ev("rent", ledger.Expense, "60", 1, 2),
	}
	if got := ledger.Sum(events).Balance.String(); got != "-50" {
		t.Errorf("Balance = %s, want -50", got)
	}
}
