// Package store persists ledger events. The Store interface is the contract
// the mutation coordinator depends on; memory.go provides the in-process
// implementation the server runs with.
package store

import (
	"context"
	"errors"

	"github.com/johanlk/kvitt/internal/ledger"
)

var (
	// ErrNotFound reports that an event ID does not resolve to an event.
	ErrNotFound = errors.New("event not found")

	// ErrUnavailable reports a transient store failure. Callers may retry
	// the whole mutate-then-reallocate sequence, never a partial write.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the durable event collection, keyed by owner.
//
// Insert assigns the event's ID and insertion sequence. SaveAll applies a
// batch of updates atomically: either every event in the batch is persisted
// or none is, so a failed settled-flag write-back can never leave a mix of
// old and new flags.
type Store interface {
	Insert(ctx context.Context, ev *ledger.Event) error
	FindByID(ctx context.Context, id string) (*ledger.Event, error)
	FindAllByOwner(ctx context.Context, owner string) ([]ledger.Event, error)
	SaveAll(ctx context.Context, events []ledger.Event) error
	Delete(ctx context.Context, id string) error
}
