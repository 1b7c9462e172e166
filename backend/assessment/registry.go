package assessment

import (
	"sync"

	"cloudmentor/backend/apperr"
)

// Registry keeps live attempts in memory. Attempts are transient,
// single-session state; they are dropped once submitted and collected.
type Registry struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{attempts: map[string]*Attempt{}}
}

func (r *Registry) Put(a *Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[a.ID] = a
}

func (r *Registry) Get(id string) (*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "attempt"}
	}
	return a, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, id)
}
