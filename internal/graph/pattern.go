package graph

import "github.com/cayleygraph/quad"

// Pattern selects statements. A nil component matches anything.
type Pattern struct {
	Subject   quad.Value
	Predicate quad.Value
	Object    quad.Value
}

// Exact returns the pattern that matches only q.
func Exact(q quad.Quad) Pattern {
	return Pattern{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

// Matches reports whether q satisfies the pattern.
func (p Pattern) Matches(q quad.Quad) bool {
	return matchTerm(p.Subject, q.Subject) &&
		matchTerm(p.Predicate, q.Predicate) &&
		matchTerm(p.Object, q.Object)
}

func matchTerm(want, got quad.Value) bool {
	return want == nil || Equal(want, got)
}

// Repository is the backing-store contract consumed by the mapping core.
// Implementations return statements in a stable order and treat Insert of
// an existing statement as a no-op.
type Repository interface {
	Query(p Pattern) ([]quad.Quad, error)
	Insert(quads ...quad.Quad) error
	Delete(p Pattern) error
}

// Statement builds a quad without a label.
func Statement(s, p, o quad.Value) quad.Quad {
	return quad.Quad{Subject: s, Predicate: p, Object: o}
}

// QuadKey is the identity of a statement, ignoring its label.
func QuadKey(q quad.Quad) string {
	return Key(q.Subject) + " " + Key(q.Predicate) + " " + Key(q.Object)
}

// FormatQuad renders a statement as one N-Triples line.
func FormatQuad(q quad.Quad) string {
	return QuadKey(q) + " ."
}
