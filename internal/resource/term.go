package resource

import (
	"fmt"
	"reflect"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
)

// Term is the accessor for one (subject, predicate) pair of a resource.
//
// Terms are memoized by their owner under subject+property and read the
// owner's view on every call, so writes through any Term for the same key
// are visible. Writes made to the repository behind the owner's back are
// not, until the owner reloads.
type Term struct {
	owner   *Resource
	subject quad.Value
	config  *PropertyConfig
}

// Subject returns the subject the Term reads.
func (t *Term) Subject() quad.Value { return t.subject }

// Property returns the property configuration.
func (t *Term) Property() *PropertyConfig { return t.config }

// objects returns the raw objects of the slot in view order.
func (t *Term) objects() []quad.Value {
	quads := t.owner.view.Match(graph.Pattern{Subject: t.subject, Predicate: t.config.Predicate})
	out := make([]quad.Value, 0, len(quads))
	for _, q := range quads {
		out = append(out, q.Object)
	}
	return out
}

// Values returns every value of the slot. Literals come back as native Go
// values; IRIs and blank nodes come back as Nodes built by the
// materializer, minus children whose recorded type conflicts with the
// property class.
func (t *Term) Values() []any {
	out := []any{}
	for _, obj := range t.objects() {
		if !graph.IsResource(obj) {
			out = append(out, graph.Native(obj))
			continue
		}
		if t.config.raw {
			out = append(out, obj)
			continue
		}
		if node, ok := t.owner.materialize(obj, t.config.Class, true); ok {
			out = append(out, node)
		}
	}
	return out
}

// Get returns Values for multivalued properties. Single-valued properties
// collapse to the first value, or nil.
func (t *Term) Get() any {
	values := t.Values()
	if t.config.Multivalue {
		return values
	}
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// First returns the first value, or nil.
func (t *Term) First() any {
	values := t.Values()
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// Len returns the number of values Values would return.
func (t *Term) Len() int {
	return len(t.Values())
}

// binding is a value ready to become a statement object.
type binding struct {
	object quad.Value
	node   Node
}

// Set replaces the slot with values, a single value or a slice. nil clears.
//
// Existing objects are removed unless the property has a class and the
// object's recorded type resolves to a different registered class; such
// objects belong to a sibling slot sharing the predicate. Node values are
// linked by subject, adopted as children, and persisted when their class
// persists to its parent. The owner is then persisted if it persists to
// its parent and a repository is reachable.
//
// All values are checked before anything changes; an unassignable value,
// or more than one value for a single-valued property, fails with
// ErrCodeInvalidValue.
func (t *Term) Set(values any) error {
	normalized := normalize(values)
	if !t.config.Multivalue && len(normalized) > 1 {
		return &Error{
			Code:     ErrCodeInvalidValue,
			Message:  fmt.Sprintf("property is single-valued, got %d values", len(normalized)),
			Subject:  t.subject.String(),
			Property: t.config.Name,
		}
	}
	bindings, err := t.bind(normalized)
	if err != nil {
		return err
	}

	for _, q := range t.owner.view.Match(graph.Pattern{Subject: t.subject, Predicate: t.config.Predicate}) {
		if t.config.Class != nil && graph.IsResource(q.Object) {
			if recorded, ok := t.owner.recordedClass(q.Object); ok && recorded != t.config.Class {
				continue
			}
		}
		t.owner.view.RemoveQuad(q)
	}

	for _, b := range bindings {
		if err := t.link(b); err != nil {
			return err
		}
	}
	return t.owner.autoPersist()
}

func (t *Term) link(b binding) error {
	t.owner.view.Add(graph.Statement(t.subject, t.config.Predicate, b.object))
	if b.node == nil {
		return nil
	}
	child := b.node.Resource()
	if child == t.owner {
		return nil
	}

	key := graph.Key(b.object)
	delete(t.owner.cache.nodes, key)
	child.SetParent(t.owner)
	t.owner.cache.nodes[key] = b.node

	if child.class.persistsToParent() {
		if err := child.Persist(); err != nil {
			return fmt.Errorf("link %s: %w", b.object, err)
		}
	}
	return nil
}

func (t *Term) bind(values []any) ([]binding, error) {
	out := make([]binding, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case Node:
			out = append(out, binding{object: x.Subject(), node: x})
		case quad.IRI, quad.BNode:
			out = append(out, binding{object: x.(quad.Value)})
		default:
			lit, ok := graph.Literal(v)
			if !ok {
				return nil, &Error{
					Code:     ErrCodeInvalidValue,
					Message:  fmt.Sprintf("value of type %T is neither a literal nor a resource", v),
					Subject:  t.subject.String(),
					Property: t.config.Name,
				}
			}
			out = append(out, binding{object: lit})
		}
	}
	return out, nil
}

// Push adds value to the current values and sets the union. On a
// single-valued property it replaces the value.
func (t *Term) Push(value any) error {
	if !t.config.Multivalue {
		return t.Set(value)
	}
	current := t.objects()
	values := make([]any, 0, len(current)+1)
	for _, obj := range current {
		values = append(values, obj)
	}
	values = append(values, normalize(value)...)
	return t.Set(values)
}

// Delete removes the statements for exactly the given values.
func (t *Term) Delete(values ...any) error {
	bindings, err := t.bind(values)
	if err != nil {
		return err
	}
	for _, b := range bindings {
		t.owner.view.RemoveQuad(graph.Statement(t.subject, t.config.Predicate, b.object))
		delete(t.owner.cache.nodes, graph.Key(b.object))
	}
	return t.owner.autoPersist()
}

// Clear removes every value of the slot.
func (t *Term) Clear() error {
	return t.Set(nil)
}

// Build creates a child node, assigns attrs to it, and pushes it onto the
// slot. attrs["id"], when present, is the child's subject; otherwise the
// child gets a fresh blank node. The child's class is the property class
// or the default class.
func (t *Term) Build(attrs map[string]any) (Node, error) {
	rest := make(map[string]any, len(attrs))
	var id any
	for k, v := range attrs {
		if k == "id" {
			id = v
			continue
		}
		rest[k] = v
	}

	class := t.config.Class
	if class == nil {
		class = t.owner.mapper.defaultClass
	}
	node, err := t.owner.mapper.NewNode(class, id, t.owner)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", t.config.Name, err)
	}
	if len(rest) > 0 {
		if err := node.SetAttributes(rest); err != nil {
			return nil, fmt.Errorf("build %s: %w", t.config.Name, err)
		}
	}
	if err := t.Push(node); err != nil {
		return nil, fmt.Errorf("build %s: %w", t.config.Name, err)
	}
	return node, nil
}

// FirstOrCreate returns the first value, building one from attrs when the
// slot is empty.
func (t *Term) FirstOrCreate(attrs map[string]any) (any, error) {
	if first := t.First(); first != nil {
		return first, nil
	}
	return t.Build(attrs)
}

// normalize turns a single value or a slice into a slice. nil is empty.
func normalize(values any) []any {
	switch v := values.(type) {
	case nil:
		return nil
	case []any:
		return v
	case quad.Value, Node, string:
		return []any{v}
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{values}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
