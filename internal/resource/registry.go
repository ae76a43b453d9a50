package resource

import (
	"sync"

	"github.com/cayleygraph/quad"
)

// TypeRegistry maps rdf:type IRIs to the class that represents them.
//
// Entries are written while classes are declared and read whenever a child
// value is materialized. A registry belongs to one Mapper; there is no
// package-level registry.
type TypeRegistry struct {
	mu      sync.RWMutex
	classes map[quad.IRI]*Class
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{classes: make(map[quad.IRI]*Class)}
}

// Register associates typeIRI with class. A later registration for the
// same IRI replaces the earlier one.
func (r *TypeRegistry) Register(typeIRI quad.IRI, class *Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[typeIRI] = class
}

// Lookup returns the class registered for typeIRI.
func (r *TypeRegistry) Lookup(typeIRI quad.IRI) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[typeIRI]
	return c, ok
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}
