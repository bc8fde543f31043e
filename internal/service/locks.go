package service

import "sync"

// ownerLocks hands out one mutex per owner so mutations and reads for the
// same owner serialize while different owners proceed in parallel. Locks are
// never released from the map; the owner population is small and stable.
type ownerLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{m: make(map[string]*sync.Mutex)}
}

func (l *ownerLocks) get(owner string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	mu, ok := l.m[owner]
	if !ok {
		mu = &sync.Mutex{}
		l.m[owner] = mu
	}
	return mu
}
