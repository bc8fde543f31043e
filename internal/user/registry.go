// Package user tracks the owners that events may belong to. Authentication
// is out of scope; this is only the identity registry behind the owner
// existence check every ledger operation performs.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound reports that an owner name is not registered.
	ErrNotFound = errors.New("owner not found")

	// ErrExists reports a registration attempt for a taken name.
	ErrExists = errors.New("owner already registered")

	// ErrInvalidName reports a blank owner name.
	ErrInvalidName = errors.New("owner name must not be blank")
)

// User is a registered owner.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry answers the owner-exists question and records new owners.
type Registry interface {
	Register(ctx context.Context, name string) (*User, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// MemoryRegistry is an in-process Registry. Safe for concurrent use.
type MemoryRegistry struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{users: make(map[string]User)}
}

// Register adds a new owner. Names are unique.
func (r *MemoryRegistry) Register(ctx context.Context, name string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[name]; ok {
		return nil, fmt.Errorf("owner %s: %w", name, ErrExists)
	}
	u := User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	r.users[name] = u
	return &u, nil
}

// Exists reports whether name is registered.
func (r *MemoryRegistry) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[name]
	return ok, nil
}

// Count returns the number of registered owners.
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
