package resource

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
)

type stringerID string

func (s stringerID) String() string { return string(s) }

func TestNew_SubjectResolution(t *testing.T) {
	f := newFixture(t)
	slash := NewClass("Slash", WithBaseURI("http://example.org/things"))
	bare := NewClass("Bare")

	tests := []struct {
		name    string
		class   *Class
		subject any
		want    quad.Value
	}{
		{"relative against hash base", f.topic, "baseball", quad.IRI(topics + "baseball")},
		{"relative against slash base", f.person, "alice", quad.IRI(people + "alice")},
		{"separator inserted", slash, "one", quad.IRI("http://example.org/things/one")},
		{"base prefix kept", f.person, people + "bob", quad.IRI(people + "bob")},
		{"absolute http kept", f.topic, "http://id.loc.gov/x", quad.IRI("http://id.loc.gov/x")},
		{"absolute https kept", f.topic, "https://id.loc.gov/x", quad.IRI("https://id.loc.gov/x")},
		{"urn kept", f.topic, "urn:isbn:0451450523", quad.IRI("urn:isbn:0451450523")},
		{"fedora kept", f.topic, "info:fedora/abc:1", quad.IRI("info:fedora/abc:1")},
		{"no base", bare, "plain", quad.IRI("plain")},
		{"blank node marker", f.topic, "_:b0", quad.BNode("b0")},
		{"iri value", f.topic, quad.IRI("http://example.org/x"), quad.IRI("http://example.org/x")},
		{"bnode value", f.topic, quad.BNode("b1"), quad.BNode("b1")},
		{"stringer", f.person, stringerID("carol"), quad.IRI(people + "carol")},
		{"nfc normalized", f.person, "cafe\u0301", quad.IRI(people + "caf\u00e9")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.newResource(t, tt.class, tt.subject, nil)
			assert.Equal(t, tt.want, r.Subject())
		})
	}
}

func TestNew_EmptySubjectAllocatesNode(t *testing.T) {
	f := newFixture(t)

	a := f.newResource(t, f.person, nil, nil)
	b := f.newResource(t, f.person, "", nil)

	assert.True(t, a.IsNode())
	assert.True(t, b.IsNode())
	assert.Equal(t, quad.BNode("n1"), a.Subject())
	assert.Equal(t, quad.BNode("n2"), b.Subject())
}

func TestNew_UnsupportedSubjectType(t *testing.T) {
	f := newFixture(t)

	_, err := f.mapper.New(f.person, 42, nil)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidSubject))
}

func TestSetSubject_RewritesStatements(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, nil, nil)
	old := r.Subject()
	other := quad.IRI(people + "zed")

	require.NoError(t, r.SetValue("name", "Alice"))
	require.NoError(t, r.Insert(graph.Statement(other, foaf("knows"), old)))
	require.NoError(t, r.Insert(graph.Statement(old, foaf("knows"), old)))
	before := countReferences(r.Statements(), old)
	require.Equal(t, 4, before)

	ok, err := r.SetSubject("alice")
	require.NoError(t, err)
	require.True(t, ok)

	next := quad.IRI(people + "alice")
	assert.Equal(t, next, r.Subject())
	assert.False(t, r.IsNode())
	assert.Equal(t, 0, countReferences(r.Statements(), old))
	assert.Equal(t, before, countReferences(r.Statements(), next))
	assert.Equal(t, "Alice", mustGet(t, r, "name"))
}

func TestSetSubject_RefusesBoundSubject(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", nil)

	ok, err := r.SetSubject("bob")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, IsStateError(err))
	assert.True(t, HasCode(err, ErrCodeSubjectBound))
	assert.Equal(t, quad.IRI(people+"alice"), r.Subject())
}

func TestSetSubject_EmptyOrUnsupportedIsNoop(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, nil, nil)
	old := r.Subject()

	for _, v := range []any{nil, "", "_:", quad.IRI(""), 3.5} {
		ok, err := r.SetSubject(v)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, old, r.Subject())
	}
}

func TestSetSubject_BlankToBlank(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, nil, nil)

	ok, err := r.SetSubject("_:renamed")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, quad.BNode("renamed"), r.Subject())

	// Still a blank node, so it can move again.
	ok, err = r.SetSubject("dave")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetSubject_InvalidatesTermCache(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, nil, nil)
	require.NoError(t, r.SetValue("name", "Alice"))

	before, err := r.Term("name")
	require.NoError(t, err)

	_, err = r.SetSubject("alice")
	require.NoError(t, err)

	after, err := r.Term("name")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, quad.IRI(people+"alice"), after.Subject())
	assert.Equal(t, "Alice", after.Get())
}

func mustGet(t *testing.T, r *Resource, property any) any {
	t.Helper()
	v, err := r.Get(property)
	require.NoError(t, err)
	return v
}
