// internal/domain/projects/registry.go
package projects

import "sync"

// Registry hands out one BrowseState per session. The empty session id gets a
// throwaway state so anonymous browsing works without accumulating entries.
type Registry struct {
	mu     sync.Mutex
	states map[string]*BrowseState
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*BrowseState)}
}

func (r *Registry) Get(sessionID string) *BrowseState {
	if sessionID == "" {
		return NewBrowseState()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[sessionID]
	if !ok {
		st = NewBrowseState()
		r.states[sessionID] = st
	}
	return st
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, sessionID)
}
