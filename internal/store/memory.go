package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/johanlk/kvitt/internal/ledger"
)

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	events map[string]ledger.Event
	seq    uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]ledger.Event)}
}

// Insert assigns an ID and insertion sequence, then stores the event.
func (m *Memory) Insert(ctx context.Context, ev *ledger.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	ev.ID = uuid.New().String()
	ev.Seq = m.seq
	m.events[ev.ID] = *ev
	return nil
}

// FindByID returns a copy of the event, or ErrNotFound.
func (m *Memory) FindByID(ctx context.Context, id string) (*ledger.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return &ev, nil
}

// FindAllByOwner returns copies of the owner's events in insertion order.
func (m *Memory) FindAllByOwner(ctx context.Context, owner string) ([]ledger.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.Event
	for _, ev := range m.events {
		if ev.Owner == owner {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// SaveAll upserts the batch under one lock acquisition. Events that already
// exist must keep their ID; new IDs are rejected so a write-back can never
// resurrect a deleted event.
func (m *Memory) SaveAll(ctx context.Context, events []ledger.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range events {
		if _, ok := m.events[ev.ID]; !ok {
			return fmt.Errorf("save batch, event %s: %w", ev.ID, ErrNotFound)
		}
	}
	for _, ev := range events {
		m.events[ev.ID] = ev
	}
	return nil
}

// Delete removes the event, or returns ErrNotFound.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(m.events, id)
	return nil
}
