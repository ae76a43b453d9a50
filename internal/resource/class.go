package resource

import (
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/vocab"
)

// Kind selects how instances of a class are represented.
type Kind int

const (
	// KindResource classes materialize as *Resource.
	KindResource Kind = iota

	// KindList classes materialize as *List.
	KindList
)

// ParentRepository is the repository name meaning "persist into the final
// parent". It is the default for every class.
const ParentRepository = "parent"

// typeProperty is the implicit property every class carries for rdf:type.
const typeProperty = "type"

// PropertyConfig maps one property name onto a predicate.
type PropertyConfig struct {
	// Name is the property name used by attribute assignment and accessors.
	Name string

	// Predicate is the full predicate IRI.
	Predicate quad.IRI

	// ClassName names the target class. It is resolved into Class when
	// the class is declared.
	ClassName string

	// Class is the resolved target class. Nil means values are materialized
	// by recorded type or with the default class.
	Class *Class

	// Multivalue selects slice results. Defaults to true.
	Multivalue bool

	// Behaviors are index behaviors. They are carried but not interpreted.
	Behaviors []string

	// raw properties return resource objects as IRIs instead of nodes.
	raw bool
}

// PropertyOption configures a PropertyConfig.
type PropertyOption func(*PropertyConfig)

// WithClass sets the target class directly.
func WithClass(c *Class) PropertyOption {
	return func(p *PropertyConfig) {
		p.Class = c
		if c != nil {
			p.ClassName = c.Name
		}
	}
}

// WithClassName sets the target class by name, resolved at declaration.
func WithClassName(name string) PropertyOption {
	return func(p *PropertyConfig) {
		p.ClassName = name
	}
}

// SingleValued makes Get collapse to one value or nil.
func SingleValued() PropertyOption {
	return func(p *PropertyConfig) {
		p.Multivalue = false
	}
}

// WithBehaviors records index behaviors such as "facetable".
func WithBehaviors(behaviors ...string) PropertyOption {
	return func(p *PropertyConfig) {
		p.Behaviors = append(p.Behaviors, behaviors...)
	}
}

// Class is the declared configuration of a resource class: identity rules,
// type, persistence target, and property table.
type Class struct {
	Name       string
	Kind       Kind
	BaseURI    string
	Type       quad.IRI
	Repository string

	// Labels lists property names or predicate IRIs consulted, in order,
	// before the default label predicates.
	Labels []string

	properties []*PropertyConfig
	byName     map[string]*PropertyConfig
	nested     map[string]bool
}

// ClassOption configures a Class.
type ClassOption func(*Class)

// WithBaseURI sets the prefix relative subjects are resolved against.
func WithBaseURI(base string) ClassOption {
	return func(c *Class) { c.BaseURI = base }
}

// WithType sets the rdf:type recorded on new instances and used to
// register the class.
func WithType(t quad.IRI) ClassOption {
	return func(c *Class) { c.Type = t }
}

// WithRepository names the repository instances persist into.
func WithRepository(name string) ClassOption {
	return func(c *Class) { c.Repository = name }
}

// WithLabel sets the class label properties.
func WithLabel(labels ...string) ClassOption {
	return func(c *Class) { c.Labels = append(c.Labels, labels...) }
}

// AsList makes instances ordered lists.
func AsList() ClassOption {
	return func(c *Class) { c.Kind = KindList }
}

// NewClass creates a class with the implicit type property.
func NewClass(name string, opts ...ClassOption) *Class {
	c := &Class{
		Name:       name,
		Repository: ParentRepository,
		byName:     make(map[string]*PropertyConfig),
		nested:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.add(&PropertyConfig{
		Name:       typeProperty,
		Predicate:  vocab.Type,
		Multivalue: true,
		raw:        true,
	})
	return c
}

// Property declares a property and returns the class for chaining.
// Redeclaring a name replaces the earlier declaration in place.
func (c *Class) Property(name string, predicate quad.IRI, opts ...PropertyOption) *Class {
	p := &PropertyConfig{Name: name, Predicate: predicate, Multivalue: true}
	for _, opt := range opts {
		opt(p)
	}
	c.add(p)
	return c
}

func (c *Class) add(p *PropertyConfig) {
	if _, ok := c.byName[p.Name]; ok {
		for i, existing := range c.properties {
			if existing.Name == p.Name {
				c.properties[i] = p
			}
		}
	} else {
		c.properties = append(c.properties, p)
	}
	c.byName[p.Name] = p
}

// PropertyByName looks up a property by its name.
func (c *Class) PropertyByName(name string) (*PropertyConfig, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// PropertyByPredicate returns the first property declared for predicate.
func (c *Class) PropertyByPredicate(predicate quad.IRI) (*PropertyConfig, bool) {
	for _, p := range c.properties {
		if p.Predicate == predicate {
			return p, true
		}
	}
	return nil, false
}

// Properties returns the properties in declaration order, type first.
func (c *Class) Properties() []*PropertyConfig {
	out := make([]*PropertyConfig, len(c.properties))
	copy(out, c.properties)
	return out
}

// AcceptsNestedAttributesFor enables "<name>_attributes" assignment for
// the named properties.
func (c *Class) AcceptsNestedAttributesFor(names ...string) *Class {
	for _, n := range names {
		c.nested[n] = true
	}
	return c
}

// AcceptsNested reports whether name accepts nested attributes.
func (c *Class) AcceptsNested(name string) bool {
	return c.nested[name]
}

// Nested returns the names accepting nested attributes, sorted.
func (c *Class) Nested() []string {
	out := make([]string, 0, len(c.nested))
	for n := range c.nested {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (c *Class) persistsToParent() bool {
	return c.Repository == "" || c.Repository == ParentRepository
}
