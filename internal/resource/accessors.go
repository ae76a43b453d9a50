package resource

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
)

// Term returns the memoized accessor for property on the resource's own
// subject. property is a declared name or a predicate IRI.
func (r *Resource) Term(property any) (*Term, error) {
	return r.TermFor(r.subject, property)
}

// TermFor returns the memoized accessor for property on an explicit
// subject. Lists use it to address their chain nodes.
func (r *Resource) TermFor(subject quad.Value, property any) (*Term, error) {
	if !graph.IsResource(subject) {
		return nil, &Error{
			Code:    ErrCodeInvalidSubject,
			Message: fmt.Sprintf("subject must be an IRI or blank node, got %T", subject),
		}
	}
	config, err := r.propertyConfig(property)
	if err != nil {
		return nil, err
	}

	key := subject.String() + "/" + config.Name
	if t, ok := r.cache.terms[key]; ok {
		return t, nil
	}
	t := &Term{owner: r, subject: subject, config: config}
	r.cache.terms[key] = t
	return t, nil
}

// TermForPredicate is TermFor with a predicate IRI.
func (r *Resource) TermForPredicate(subject quad.Value, predicate quad.IRI) (*Term, error) {
	return r.TermFor(subject, predicate)
}

// propertyConfig resolves a property name or predicate. Predicates with
// no declared property get an ad hoc multivalued config.
func (r *Resource) propertyConfig(property any) (*PropertyConfig, error) {
	switch p := property.(type) {
	case string:
		if config, ok := r.class.PropertyByName(p); ok {
			return config, nil
		}
		return nil, &Error{
			Code:     ErrCodeUnknownProperty,
			Message:  fmt.Sprintf("class %s has no property %q", r.class.Name, p),
			Subject:  r.subject.String(),
			Property: p,
		}
	case quad.IRI:
		if config, ok := r.class.PropertyByPredicate(p); ok {
			return config, nil
		}
		return &PropertyConfig{Name: p.String(), Predicate: p, Multivalue: true}, nil
	default:
		return nil, &Error{
			Code:    ErrCodeUnknownProperty,
			Message: fmt.Sprintf("property must be a name or an IRI, got %T", property),
			Subject: r.subject.String(),
		}
	}
}

// GetValues returns the Term for (property) or (subject, property).
func (r *Resource) GetValues(args ...any) (*Term, error) {
	switch len(args) {
	case 1:
		return r.Term(args[0])
	case 2:
		subject, ok := args[0].(quad.Value)
		if !ok {
			return nil, &Error{
				Code:    ErrCodeInvalidSubject,
				Message: fmt.Sprintf("subject must be an IRI or blank node, got %T", args[0]),
			}
		}
		return r.TermFor(subject, args[1])
	default:
		return nil, arityError(len(args), "1-2")
	}
}

// SetValue replaces the values of (property, values) or
// (subject, property, values).
func (r *Resource) SetValue(args ...any) error {
	if len(args) < 2 || len(args) > 3 {
		return arityError(len(args), "2-3")
	}
	t, err := r.GetValues(args[:len(args)-1]...)
	if err != nil {
		return err
	}
	return t.Set(args[len(args)-1])
}

// Get reads a property the way Term.Get does.
func (r *Resource) Get(property any) (any, error) {
	t, err := r.Term(property)
	if err != nil {
		return nil, err
	}
	return t.Get(), nil
}

// Values reads a property as a slice regardless of cardinality.
func (r *Resource) Values(property any) ([]any, error) {
	t, err := r.Term(property)
	if err != nil {
		return nil, err
	}
	return t.Values(), nil
}
