package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates income from expense events.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Event is a single financial occurrence in an owner's ledger.
type Event struct {
	ID     string          `json:"id"`
	Owner  string          `json:"owner"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	Kind   Kind            `json:"kind"`

	// Timestamp is when the event occurred, not when it was recorded.
	// It is the primary ordering key for allocation and is editable.
	Timestamp time.Time `json:"timestamp"`

	// Settled is a cached allocation result, meaningful only for expenses.
	// It must always equal what Allocate would compute over the owner's
	// current events.
	Settled bool `json:"settled"`

	// Seq is the store-assigned insertion number, used to break timestamp
	// ties so allocation stays deterministic.
	Seq uint64 `json:"-"`
}
