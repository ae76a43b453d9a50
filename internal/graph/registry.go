package graph

import (
	"sort"
	"sync"
)

// Registry maps repository names to backing stores. Classes whose
// persistence target is not their parent name one of these.
type Registry struct {
	mu    sync.RWMutex
	repos map[string]Repository
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{repos: make(map[string]Repository)}
}

// Add registers repo under name, replacing any previous entry.
func (r *Registry) Add(name string, repo Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos[name] = repo
}

// Get looks up a repository by name.
func (r *Registry) Get(name string) (Repository, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	repo, ok := r.repos[name]
	return repo, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.repos))
	for name := range r.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
