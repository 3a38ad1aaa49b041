// Package unitlock provides a registry of per-unit write locks. Every
// calendar mutation for a unit goes through the unit's lock, so a sync and
// a staff edit can never interleave on the same calendar. Mutations for
// different units proceed in parallel.
package unitlock

import "sync"

type Registry struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New() *Registry {
	return &Registry{locks: make(map[int64]*sync.Mutex)}
}

func (r *Registry) get(unitID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[unitID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[unitID] = l
	}
	return l
}

// Do runs fn while holding the unit's write lock.
func (r *Registry) Do(unitID int64, fn func() error) error {
	l := r.get(unitID)
	l.Lock()
	defer l.Unlock()
	return fn()
}
