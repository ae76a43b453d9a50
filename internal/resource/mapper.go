package resource

import (
	"fmt"
	"log/slog"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
)

// Mapper is the entry point to the mapping core. It owns the type
// registry, the declared classes, the named repositories, and the blank
// node allocator that every resource it creates shares.
//
// Declaration (Declare) happens at startup. After that a Mapper is only
// read, so one Mapper may serve many resources. Resources themselves are
// not safe for concurrent use.
type Mapper struct {
	types        *TypeRegistry
	catalog      *Catalog
	repos        *graph.Registry
	nodeIDs      NodeIDGenerator
	logger       *slog.Logger
	defaultClass *Class
	listClass    *Class
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRepositories sets the named repositories used by classes whose
// repository is not "parent".
func WithRepositories(repos *graph.Registry) Option {
	return func(m *Mapper) {
		if repos != nil {
			m.repos = repos
		}
	}
}

// WithNodeIDs sets the blank-node allocator.
func WithNodeIDs(gen NodeIDGenerator) Option {
	return func(m *Mapper) {
		if gen != nil {
			m.nodeIDs = gen
		}
	}
}

// WithTypes shares an existing type registry.
func WithTypes(types *TypeRegistry) Option {
	return func(m *Mapper) {
		if types != nil {
			m.types = types
		}
	}
}

// NewMapper creates a Mapper with an empty registry and catalog.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		types:        NewTypeRegistry(),
		catalog:      NewCatalog(),
		repos:        graph.NewRegistry(),
		nodeIDs:      UUIDv7Generator{},
		logger:       slog.Default(),
		defaultClass: NewClass("Resource"),
		listClass:    NewClass("List", AsList()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Declare adds classes to the catalog, registers their types, and binds
// class-name references. Classes referring to each other should be
// declared in one call.
func (m *Mapper) Declare(classes ...*Class) error {
	m.catalog.Add(classes...)
	for _, c := range classes {
		if c.Type != "" {
			m.types.Register(c.Type, c)
		}
	}
	if err := m.catalog.Resolve(); err != nil {
		return fmt.Errorf("declare classes: %w", err)
	}
	return nil
}

// Class looks up a declared class by name.
func (m *Mapper) Class(name string) (*Class, bool) {
	return m.catalog.Get(name)
}

// Types returns the type registry.
func (m *Mapper) Types() *TypeRegistry {
	return m.types
}

// Repositories returns the named repository registry.
func (m *Mapper) Repositories() *graph.Registry {
	return m.repos
}

// DefaultClass is the class used when neither a recorded type nor a
// property class applies.
func (m *Mapper) DefaultClass() *Class {
	return m.defaultClass
}

// New constructs a resource of class with the given subject and parent,
// then reloads it. A nil or empty subject allocates a fresh blank node.
// A nil class means the default class.
func (m *Mapper) New(class *Class, subject any, parent graph.Repository) (*Resource, error) {
	if class == nil {
		class = m.defaultClass
	}
	r, err := m.newResource(class, subject, parent, false)
	if err != nil {
		return nil, err
	}
	r.Reload()
	r.ensureType()
	return r, nil
}

// NewList constructs an ordered list. A nil class means a plain list class
// with no properties.
func (m *Mapper) NewList(class *Class, subject any, parent graph.Repository) (*List, error) {
	if class == nil {
		class = m.listClass
	}
	r, err := m.newResource(class, subject, parent, true)
	if err != nil {
		return nil, err
	}
	l := &List{res: r}
	r.list = l
	r.Reload()
	l.ensureHead()
	r.ensureType()
	return l, nil
}

// NewNode constructs a *List for list classes and a *Resource otherwise.
func (m *Mapper) NewNode(class *Class, subject any, parent graph.Repository) (Node, error) {
	if class != nil && class.Kind == KindList {
		return m.NewList(class, subject, parent)
	}
	return m.New(class, subject, parent)
}

func (m *Mapper) newResource(class *Class, subject any, parent graph.Repository, list bool) (*Resource, error) {
	r := &Resource{
		mapper: m,
		class:  class,
		view:   graph.NewMemory(),
		parent: parent,
		cache:  newCache(),
	}
	if isBlank(subject) {
		r.subject = m.freshNode()
		return r, nil
	}
	ok, err := r.SetSubject(subject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &Error{
			Code:    ErrCodeInvalidSubject,
			Message: fmt.Sprintf("cannot build a subject from %T", subject),
		}
	}
	return r, nil
}

func (m *Mapper) freshNode() quad.BNode {
	return quad.BNode(m.nodeIDs.Generate())
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case quad.IRI:
		return t == ""
	case quad.BNode:
		return t == ""
	}
	return false
}
