// Package service coordinates ledger mutations. Every write goes through the
// same sequence inside a per-owner critical section: validate, apply the
// change, reload the owner's full event set, rerun the settlement waterfall,
// and write every expense's settled flag back in one batch. Flags are never
// patched incrementally; any edit can move the waterfall barrier.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johanlk/kvitt/internal/ledger"
	"github.com/johanlk/kvitt/internal/metrics"
	"github.com/johanlk/kvitt/internal/store"
	"github.com/johanlk/kvitt/internal/user"
)

// ErrInvalidInput reports a rejected create or edit: blank title, negative
// amount, or unknown kind.
var ErrInvalidInput = errors.New("invalid input")

// Service is the mutation coordinator.
type Service struct {
	store store.Store
	users user.Registry
	locks *ownerLocks
	now   func() time.Time
}

// New wires a Service over the given store and owner registry.
func New(st store.Store, users user.Registry) *Service {
	return &Service{
		store: st,
		users: users,
		locks: newOwnerLocks(),
		now:   time.Now,
	}
}

// CreateParams are the inputs for CreateEvent.
type CreateParams struct {
	Owner     string
	Title     string
	Amount    decimal.Decimal
	Kind      ledger.Kind
	Timestamp time.Time
}

// EditParams carry the fields of an edit; nil fields are left unchanged.
type EditParams struct {
	Title     *string
	Amount    *decimal.Decimal
	Kind      *ledger.Kind
	Timestamp *time.Time
}

// RegisterOwner adds a new owner to the registry.
func (s *Service) RegisterOwner(ctx context.Context, name string) (*user.User, error) {
	u, err := s.users.Register(ctx, name)
	if err != nil {
		return nil, err
	}
	metrics.OwnersRegistered.Inc()
	slog.Info("owner registered", "owner", u.Name, "id", u.ID)
	return u, nil
}

// CreateEvent validates, persists and settles a new event. The returned
// event carries the settled flag the reallocation assigned it.
func (s *Service) CreateEvent(ctx context.Context, p CreateParams) (*ledger.Event, error) {
	if err := s.checkOwner(ctx, p.Owner); err != nil {
		return nil, s.done("create", err)
	}
	if err := validateCreate(p); err != nil {
		return nil, s.done("create", err)
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = s.now()
	}

	mu := s.locks.get(p.Owner)
	mu.Lock()
	defer mu.Unlock()

	ev := &ledger.Event{
		Owner:     p.Owner,
		Title:     p.Title,
		Amount:    p.Amount,
		Kind:      p.Kind,
		Timestamp: p.Timestamp,
	}
	if err := s.store.Insert(ctx, ev); err != nil {
		return nil, s.done("create", err)
	}
	if err := s.reallocate(ctx, p.Owner); err != nil {
		return nil, s.done("create", err)
	}

	out, err := s.store.FindByID(ctx, ev.ID)
	if err != nil {
		return nil, s.done("create", err)
	}
	metrics.EventsCreated.WithLabelValues(string(p.Kind)).Inc()
	slog.Info("event created", "owner", p.Owner, "id", out.ID, "kind", out.Kind, "amount", out.Amount)
	return out, s.done("create", nil)
}

// EditEvent applies the non-nil fields of p to the event and resettles the
// owner's ledger. A previously settled expense can come back unsettled if
// the edit breaks affordability.
func (s *Service) EditEvent(ctx context.Context, id string, p EditParams) (*ledger.Event, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.done("edit", err)
	}
	owner := found.Owner
	if err := s.checkOwner(ctx, owner); err != nil {
		return nil, s.done("edit", err)
	}

	mu := s.locks.get(owner)
	mu.Lock()
	defer mu.Unlock()

	// Reload under the lock; the event may have changed or vanished since
	// the unlocked lookup above.
	ev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.done("edit", err)
	}
	if err := applyEdit(ev, p); err != nil {
		return nil, s.done("edit", err)
	}
	if err := s.store.SaveAll(ctx, []ledger.Event{*ev}); err != nil {
		return nil, s.done("edit", err)
	}
	if err := s.reallocate(ctx, owner); err != nil {
		return nil, s.done("edit", err)
	}

	out, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.done("edit", err)
	}
	slog.Info("event edited", "owner", owner, "id", id)
	return out, s.done("edit", nil)
}

// DeleteEvent removes the event and resettles the previous owner's ledger.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.done("delete", err)
	}
	owner := found.Owner
	if err := s.checkOwner(ctx, owner); err != nil {
		return s.done("delete", err)
	}

	mu := s.locks.get(owner)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return s.done("delete", err)
	}
	if err := s.reallocate(ctx, owner); err != nil {
		return s.done("delete", err)
	}
	slog.Info("event deleted", "owner", owner, "id", id)
	return s.done("delete", nil)
}

// GetEvents lists the owner's events in insertion order.
func (s *Service) GetEvents(ctx context.Context, owner string) ([]ledger.Event, error) {
	if err := s.checkOwner(ctx, owner); err != nil {
		return nil, err
	}
	mu := s.locks.get(owner)
	mu.Lock()
	defer mu.Unlock()

	return s.store.FindAllByOwner(ctx, owner)
}

// GetTotals returns exact-decimal income, expense and balance totals.
func (s *Service) GetTotals(ctx context.Context, owner string) (ledger.Totals, error) {
	if err := s.checkOwner(ctx, owner); err != nil {
		return ledger.Totals{}, err
	}
	mu := s.locks.get(owner)
	mu.Lock()
	defer mu.Unlock()

	events, err := s.store.FindAllByOwner(ctx, owner)
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Sum(events), nil
}

// GetStatus reports how far behind the owner is.
func (s *Service) GetStatus(ctx context.Context, owner string) (ledger.Status, error) {
	if err := s.checkOwner(ctx, owner); err != nil {
		return ledger.Status{}, err
	}
	mu := s.locks.get(owner)
	mu.Lock()
	defer mu.Unlock()

	events, err := s.store.FindAllByOwner(ctx, owner)
	if err != nil {
		return ledger.Status{}, err
	}
	return ledger.Report(events, s.now()), nil
}

// reallocate reruns the waterfall over the owner's current events and writes
// every expense's settled flag back in a single batch. Caller must hold the
// owner's lock.
func (s *Service) reallocate(ctx context.Context, owner string) error {
	start := time.Now()
	events, err := s.store.FindAllByOwner(ctx, owner)
	if err != nil {
		return err
	}
	settled := ledger.Allocate(events)

	var batch []ledger.Event
	for i := range events {
		if events[i].Kind != ledger.Expense {
			continue
		}
		events[i].Settled = settled[events[i].ID]
		batch = append(batch, events[i])
	}
	if len(batch) > 0 {
		if err := s.store.SaveAll(ctx, batch); err != nil {
			return fmt.Errorf("settled flag write-back for %s: %w", owner, err)
		}
	}

	metrics.ReallocationsTotal.Inc()
	metrics.ReallocationDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
	slog.Debug("ledger resettled", "owner", owner, "events", len(events), "expenses", len(batch))
	return nil
}

func (s *Service) checkOwner(ctx context.Context, owner string) error {
	ok, err := s.users.Exists(ctx, owner)
	if err != nil {
		return fmt.Errorf("owner lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("owner %s: %w", owner, user.ErrNotFound)
	}
	return nil
}

// done records the mutation outcome metric and passes err through.
func (s *Service) done(op string, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.MutationsTotal.WithLabelValues(op, status).Inc()
	return err
}

func validateCreate(p CreateParams) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
	}
	return nil
}

func applyEdit(ev *ledger.Event, p EditParams) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
		}
		ev.Title = *p.Title
	}
	if p.Amount != nil {
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
		}
		ev.Amount = *p.Amount
	}
	if p.Kind != nil {
		if !p.Kind.Valid() {
			return fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
		}
		ev.Kind = *p.Kind
		if ev.Kind == ledger.Income {
			// Settled does not apply to income.
			ev.Settled = false
		}
	}
	if p.Timestamp != nil {
		ev.Timestamp = *p.Timestamp
	}
	return nil
}
