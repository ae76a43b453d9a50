package graph

import (
	"sort"

	"github.com/cayleygraph/quad"
)

// Memory is an insertion-ordered in-memory statement set.
// It has no internal locking; callers own synchronization.
type Memory struct {
	quads []quad.Quad
	keys  map[string]struct{}
}

// NewMemory creates a graph holding the given statements.
func NewMemory(quads ...quad.Quad) *Memory {
	m := &Memory{keys: make(map[string]struct{})}
	m.Add(quads...)
	return m
}

// Add inserts statements, skipping ones already present. Labels are dropped.
func (m *Memory) Add(quads ...quad.Quad) {
	for _, q := range quads {
		q.Label = nil
		k := QuadKey(q)
		if _, ok := m.keys[k]; ok {
			continue
		}
		m.keys[k] = struct{}{}
		m.quads = append(m.quads, q)
	}
}

// Has reports whether the exact statement is present.
func (m *Memory) Has(q quad.Quad) bool {
	_, ok := m.keys[QuadKey(q)]
	return ok
}

// Match returns the statements matching p, in insertion order.
func (m *Memory) Match(p Pattern) []quad.Quad {
	out := []quad.Quad{}
	for _, q := range m.quads {
		if p.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

// FirstObject returns the object of the first statement matching
// (subject, predicate, *).
func (m *Memory) FirstObject(subject, predicate quad.Value) (quad.Value, bool) {
	for _, q := range m.quads {
		if Equal(q.Subject, subject) && Equal(q.Predicate, predicate) {
			return q.Object, true
		}
	}
	return nil, false
}

// Remove deletes every statement matching p and returns how many went.
func (m *Memory) Remove(p Pattern) int {
	kept := m.quads[:0]
	removed := 0
	for _, q := range m.quads {
		if p.Matches(q) {
			delete(m.keys, QuadKey(q))
			removed++
			continue
		}
		kept = append(kept, q)
	}
	m.quads = kept
	return removed
}

// RemoveQuad deletes one exact statement.
func (m *Memory) RemoveQuad(q quad.Quad) bool {
	return m.Remove(Exact(q)) > 0
}

// Replace swaps old for next in place, keeping its position.
func (m *Memory) Replace(old, next quad.Quad) {
	next.Label = nil
	oldKey, nextKey := QuadKey(old), QuadKey(next)
	if oldKey == nextKey {
		return
	}
	if _, dup := m.keys[nextKey]; dup {
		m.RemoveQuad(old)
		return
	}
	for i, q := range m.quads {
		if QuadKey(q) == oldKey {
			m.quads[i] = next
			delete(m.keys, oldKey)
			m.keys[nextKey] = struct{}{}
			return
		}
	}
}

// Len returns the number of statements.
func (m *Memory) Len() int {
	return len(m.quads)
}

// Statements returns a copy of all statements in insertion order.
func (m *Memory) Statements() []quad.Quad {
	out := make([]quad.Quad, len(m.quads))
	copy(out, m.quads)
	return out
}

// Clear removes every statement.
func (m *Memory) Clear() {
	m.quads = nil
	m.keys = make(map[string]struct{})
}

// Query implements Repository.
func (m *Memory) Query(p Pattern) ([]quad.Quad, error) {
	return m.Match(p), nil
}

// Insert implements Repository.
func (m *Memory) Insert(quads ...quad.Quad) error {
	m.Add(quads...)
	return nil
}

// Delete implements Repository.
func (m *Memory) Delete(p Pattern) error {
	m.Remove(p)
	return nil
}

// Lines renders the statements as sorted N-Triples lines.
func Lines(quads []quad.Quad) []string {
	lines := make([]string, 0, len(quads))
	for _, q := range quads {
		lines = append(lines, FormatQuad(q))
	}
	sort.Strings(lines)
	return lines
}
