package resource

import (
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

// listState is the shape of the chain. Append and Shift are defined per
// state.
type listState int

const (
	listEmpty listState = iota
	listSingle
	listMulti
)

func stateOf(n int) listState {
	switch n {
	case 0:
		return listEmpty
	case 1:
		return listSingle
	default:
		return listMulti
	}
}

// List is an ordered sequence stored as an rdf:first/rdf:rest chain
// terminated by rdf:nil. The head node is the list's subject and carries
// rdf:type rdf:List. Every other chain node is a fresh blank node.
//
// Elements are materialized by recorded type with no class filtering, so a
// list may hold mixed element classes.
type List struct {
	res *Resource
}

// Subject returns the head subject.
func (l *List) Subject() quad.Value { return l.res.subject }

// Resource returns the resource backing the list.
func (l *List) Resource() *Resource { return l.res }

// Persist persists the list resource.
func (l *List) Persist() error { return l.res.Persist() }

// Reload reloads the head and the chain.
func (l *List) Reload() bool {
	ok := l.res.Reload()
	l.ensureHead()
	return ok
}

func (l *List) ensureHead() {
	head := graph.Statement(l.res.subject, vocab.Type, vocab.List)
	if !l.res.view.Has(head) {
		l.res.view.Add(head)
	}
}

// walk follows rest links from the head. It stops at rdf:nil, at a node
// with no rdf:first, or on revisiting a node, which it reports as a cycle.
func (l *List) walk() (subjects []quad.Value, cyclic bool) {
	view := l.res.view
	seen := make(map[string]bool)
	current := l.res.subject
	for {
		if _, ok := view.FirstObject(current, vocab.First); !ok {
			return subjects, false
		}
		seen[graph.Key(current)] = true
		subjects = append(subjects, current)

		next, ok := view.FirstObject(current, vocab.Rest)
		if !ok || graph.Equal(next, vocab.Nil) {
			return subjects, false
		}
		if seen[graph.Key(next)] {
			return subjects, true
		}
		current = next
	}
}

// Subjects returns the chain nodes in order, head first.
func (l *List) Subjects() []quad.Value {
	subjects, _ := l.walk()
	return subjects
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.Subjects())
}

func (l *List) state() listState {
	return stateOf(l.Len())
}

// prepare converts v into an element object. nil becomes rdf:nil.
func (l *List) prepare(v any) (quad.Value, Node, error) {
	switch x := v.(type) {
	case nil:
		return vocab.Nil, nil, nil
	case Node:
		return x.Subject(), x, nil
	case quad.IRI:
		return x, nil, nil
	case quad.BNode:
		return x, nil, nil
	}
	lit, ok := graph.Literal(v)
	if !ok {
		return nil, nil, &Error{
			Code:    ErrCodeInvalidValue,
			Message: fmt.Sprintf("list element of type %T is neither a literal nor a resource", v),
			Subject: l.res.subject.String(),
		}
	}
	return lit, nil, nil
}

// Append adds v at the end.
//
// An empty list binds the head directly. Otherwise a fresh node replaces
// the tail's rdf:nil link. Node values have their statements copied into
// the list and become children of it, so the element stays reachable by
// its own subject.
func (l *List) Append(v any) error {
	object, node, err := l.prepare(v)
	if err != nil {
		return err
	}

	view := l.res.view
	subjects := l.Subjects()
	switch stateOf(len(subjects)) {
	case listEmpty:
		head := l.res.subject
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.First})
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.Rest})
		view.Add(
			graph.Statement(head, vocab.First, object),
			graph.Statement(head, vocab.Rest, vocab.Nil),
		)
	case listSingle, listMulti:
		tail := subjects[len(subjects)-1]
		next := l.res.mapper.freshNode()
		view.Remove(graph.Pattern{Subject: tail, Predicate: vocab.Rest})
		view.Add(
			graph.Statement(tail, vocab.Rest, next),
			graph.Statement(next, vocab.First, object),
			graph.Statement(next, vocab.Rest, vocab.Nil),
		)
	}

	if node != nil {
		l.adopt(object, node)
	}
	return l.res.autoPersist()
}

func (l *List) adopt(object quad.Value, node Node) {
	child := node.Resource()
	if child == l.res {
		return
	}
	l.res.view.Add(child.view.Statements()...)
	child.SetParent(l.res)
	l.res.cache.nodes[graph.Key(object)] = node
}

// Set assigns v at index i. Negative indexes fail with ErrCodeIndex. An
// index past the end pads the gap with owl:Nothing and then appends.
func (l *List) Set(i int, v any) error {
	if i < 0 {
		return &Error{
			Code:    ErrCodeIndex,
			Message: fmt.Sprintf("index %d too small for list: minimum 0", i),
			Subject: l.res.subject.String(),
		}
	}
	// Validate before padding so a bad value leaves the list alone.
	if _, _, err := l.prepare(v); err != nil {
		return err
	}

	subjects := l.Subjects()
	if i >= len(subjects) {
		for n := len(subjects); n < i; n++ {
			if err := l.Append(vocab.Nothing); err != nil {
				return err
			}
		}
		return l.Append(v)
	}

	t, err := l.res.TermFor(subjects[i], vocab.First)
	if err != nil {
		return err
	}
	return t.Set(v)
}

// element converts a raw rdf:first object into the value callers see.
// Placeholders (rdf:nil, owl:Nothing) come back as IRIs.
func (l *List) element(obj quad.Value) any {
	if !graph.IsResource(obj) {
		return graph.Native(obj)
	}
	if graph.Equal(obj, vocab.Nil) || graph.Equal(obj, vocab.Nothing) {
		return obj
	}
	if node, ok := l.res.materialize(obj, nil, false); ok {
		return node
	}
	return obj
}

// At returns the element at i.
func (l *List) At(i int) (any, bool) {
	subjects := l.Subjects()
	if i < 0 || i >= len(subjects) {
		return nil, false
	}
	obj, _ := l.res.view.FirstObject(subjects[i], vocab.First)
	return l.element(obj), true
}

// Each calls fn for every element in order until fn returns false.
func (l *List) Each(fn func(i int, v any) bool) {
	for i, s := range l.Subjects() {
		obj, _ := l.res.view.FirstObject(s, vocab.First)
		if !fn(i, l.element(obj)) {
			return
		}
	}
}

// Values returns every element in order.
func (l *List) Values() []any {
	out := []any{}
	l.Each(func(_ int, v any) bool {
		out = append(out, v)
		return true
	})
	return out
}

// First returns the first element, or nil for an empty list.
func (l *List) First() any {
	v, _ := l.At(0)
	return v
}

// Shift removes and returns the first element. The head subject is kept:
// the second node's first and rest move onto the head and the second node
// is deleted.
func (l *List) Shift() (any, error) {
	subjects := l.Subjects()
	state := stateOf(len(subjects))
	if state == listEmpty {
		return nil, nil
	}

	value := l.First()
	view := l.res.view
	head := subjects[0]
	switch state {
	case listSingle:
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.First})
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.Rest})
	case listMulti:
		second := subjects[1]
		first, _ := view.FirstObject(second, vocab.First)
		rest, _ := view.FirstObject(second, vocab.Rest)
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.First})
		view.Remove(graph.Pattern{Subject: head, Predicate: vocab.Rest})
		view.Remove(graph.Pattern{Subject: second})
		view.Add(
			graph.Statement(head, vocab.First, first),
			graph.Statement(head, vocab.Rest, rest),
		)
		if repo, ok := l.res.repository(); ok && l.res.class.persistsToParent() {
			if err := repo.Delete(graph.Pattern{Subject: second}); err != nil {
				return nil, fmt.Errorf("shift: %w", err)
			}
		}
	}

	if err := l.res.autoPersist(); err != nil {
		return nil, fmt.Errorf("shift: %w", err)
	}
	return value, nil
}

// WellFormed checks the chain: no cycle, and for a non-empty list exactly
// one rdf:rest rdf:nil statement, found on the last node.
func (l *List) WellFormed() error {
	subjects, cyclic := l.walk()
	if cyclic {
		return fmt.Errorf("list %s: rest chain has a cycle", l.res.subject)
	}
	terminators := l.res.view.Match(graph.Pattern{Predicate: vocab.Rest, Object: vocab.Nil})
	if len(subjects) == 0 {
		if len(terminators) != 0 {
			return fmt.Errorf("list %s: empty list has %d terminators", l.res.subject, len(terminators))
		}
		return nil
	}
	if len(terminators) != 1 {
		return fmt.Errorf("list %s: want 1 terminator, found %d", l.res.subject, len(terminators))
	}
	if !graph.Equal(terminators[0].Subject, subjects[len(subjects)-1]) {
		return fmt.Errorf("list %s: terminator is not on the last node", l.res.subject)
	}
	return nil
}

// SetAttributes assigns list attributes.
//
// "<name>_attributes" keys for nested properties create items of the
// property's class: a position-keyed mapping assigns each item at its
// index, anything else appends one item per entry. Declared property keys are set
// on the head. The list is then persisted if a repository is reachable.
func (l *List) SetAttributes(attrs any) error {
	values, err := attributeMap(attrs)
	if err != nil {
		return err
	}
	class := l.res.class
	for _, p := range class.properties {
		if v, ok := values[p.Name]; ok {
			if err := l.res.SetValue(p.Name, v); err != nil {
				return err
			}
		}
		if !class.AcceptsNested(p.Name) {
			continue
		}
		if v, ok := values[p.Name+nestedSuffix]; ok {
			if err := l.assignItems(p, v); err != nil {
				return err
			}
		}
	}
	if l.res.Reachable() {
		return l.res.Persist()
	}
	return nil
}

func (l *List) assignItems(p *PropertyConfig, value any) error {
	entries, indexed, err := nestedEntries(value)
	if err != nil {
		return fmt.Errorf("%s%s: %w", p.Name, nestedSuffix, err)
	}
	for _, e := range entries {
		item, err := l.newItem(p.Class, e.attrs)
		if err != nil {
			return err
		}
		if indexed {
			err = l.Set(e.index, item)
		} else {
			err = l.Append(item)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// newItem builds a detached item. attrs["id"] is its subject if present.
func (l *List) newItem(class *Class, attrs map[string]any) (Node, error) {
	rest := make(map[string]any, len(attrs))
	var id any
	for k, v := range attrs {
		if k == "id" {
			id = v
			continue
		}
		rest[k] = v
	}
	item, err := l.res.mapper.NewNode(class, id, nil)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		if err := item.SetAttributes(rest); err != nil {
			return nil, err
		}
	}
	return item, nil
}
