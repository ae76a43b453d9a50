package harness

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/resource"
	"github.com/roach88/rdfmap/internal/testutil"
)

const foafNS = "http://xmlns.com/foaf/0.1/"

// newAssertionContext builds a context over an in-memory default
// repository holding one person with a name and a three element list.
func newAssertionContext(t *testing.T) (*AssertionContext, *graph.Memory) {
	t.Helper()
	mem := graph.NewMemory()
	repos := graph.NewRegistry()
	repos.Add(DefaultRepository, mem)

	m := resource.NewMapper(
		resource.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		resource.WithRepositories(repos),
		resource.WithNodeIDs(testutil.NewSequentialNodeIDs("")),
	)
	person := resource.NewClass("Person",
		resource.WithType(quad.IRI(foafNS+"Person")),
		resource.WithBaseURI("http://example.org/people/"),
	).
		Property("name", quad.IRI(foafNS+"name"), resource.SingleValued()).
		Property("nick", quad.IRI(foafNS+"nick"))
	require.NoError(t, m.Declare(person))

	bob, err := m.New(person, "bob", mem)
	require.NoError(t, err)
	require.NoError(t, bob.SetValue("name", "Bob"))
	require.NoError(t, bob.SetValue("nick", []any{"bobby", "rob"}))

	list, err := m.NewList(nil, nil, mem)
	require.NoError(t, err)
	require.NoError(t, list.Append("a"))
	require.NoError(t, list.Append(bob))
	require.NoError(t, list.Append(int64(3)))

	return &AssertionContext{
		Nodes:        map[string]resource.Node{"bob": bob, "list": list},
		Repositories: repos,
	}, mem
}

func evaluate(t *testing.T, actx *AssertionContext, a Assertion) []string {
	t.Helper()
	return EvaluateAssertions(NewResult(), []Assertion{a}, actx)
}

func TestAssertValue(t *testing.T) {
	actx, _ := newAssertionContext(t)

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertValue, Target: "bob", Property: "name", Equals: "Bob"}))
	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertValue, Target: "bob", Property: "nick", Equals: []any{"rob", "bobby"}}),
		"multivalued properties compare without order")

	errs := evaluate(t, actx, Assertion{Type: AssertValue, Target: "bob", Property: "name", Equals: "Robert"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "assertion[0]: Assertion failed: value")
	assert.Contains(t, errs[0], "bob.name = Robert")
}

func TestAssertValue_UnknownTargetAndProperty(t *testing.T) {
	actx, _ := newAssertionContext(t)

	errs := evaluate(t, actx, Assertion{Type: AssertValue, Target: "ghost", Property: "name"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `target "ghost" is not bound`)

	errs = evaluate(t, actx, Assertion{Type: AssertValue, Target: "bob", Property: "shoeSize"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "UNKNOWN_PROPERTY")
}

func TestAssertCount(t *testing.T) {
	actx, _ := newAssertionContext(t)

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertCount, Target: "bob", Property: "nick", Count: intPtr(2)}))

	errs := evaluate(t, actx, Assertion{Type: AssertCount, Target: "bob", Property: "nick", Count: intPtr(5)})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "2 values")
}

func TestAssertList(t *testing.T) {
	actx, _ := newAssertionContext(t)

	ok := Assertion{Type: AssertList, Target: "list", Equals: []any{"a", "<http://example.org/people/bob>", 3}}
	assert.Empty(t, evaluate(t, actx, ok))

	reordered := Assertion{Type: AssertList, Target: "list", Equals: []any{3, "a", "<http://example.org/people/bob>"}}
	assert.Len(t, evaluate(t, actx, reordered), 1, "lists compare in order")

	notList := Assertion{Type: AssertList, Target: "bob"}
	errs := evaluate(t, actx, notList)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `target "bob" is not a list`)
}

func TestAssertListClasses(t *testing.T) {
	actx, _ := newAssertionContext(t)

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertListClasses, Target: "list", Classes: []string{"", "Person", ""}}))
	assert.Len(t, evaluate(t, actx, Assertion{Type: AssertListClasses, Target: "list", Classes: []string{"Person"}}), 1)
}

func TestAssertWellFormed(t *testing.T) {
	actx, _ := newAssertionContext(t)
	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertWellFormed, Target: "list"}))
}

func TestAssertSubject(t *testing.T) {
	actx, _ := newAssertionContext(t)

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertSubject, Target: "bob", Equals: "<http://example.org/people/bob>"}))
	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertSubject, Target: "list", Equals: "_:n1"}))
	assert.Len(t, evaluate(t, actx, Assertion{Type: AssertSubject, Target: "bob", Equals: "_:bob"}), 1)
}

func TestAssertStatement(t *testing.T) {
	actx, _ := newAssertionContext(t)
	name := `<http://example.org/people/bob> <http://xmlns.com/foaf/0.1/name> "Bob" .`
	other := `<http://example.org/people/bob> <http://xmlns.com/foaf/0.1/name> "Robert" .`

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertStatement, Statement: name}))
	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertNoStatement, Statement: other}))

	errs := evaluate(t, actx, Assertion{Type: AssertNoStatement, Statement: name})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no_statement")

	errs = evaluate(t, actx, Assertion{Type: AssertStatement, Statement: other, Repository: "archive"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `repository "archive" is not registered`)
}

func TestAssertStoreCount(t *testing.T) {
	actx, mem := newAssertionContext(t)

	assert.Empty(t, evaluate(t, actx, Assertion{Type: AssertStoreCount, Count: intPtr(mem.Len())}))

	errs := evaluate(t, actx, Assertion{Type: AssertStoreCount, Count: intPtr(mem.Len() + 1)})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: store_count")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "vibes"}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "vibes"`)
}

func TestEvaluateAssertions_NilContext(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertValue, Target: "bob", Property: "name"},
		{Type: AssertStoreCount, Count: intPtr(0)},
	}, nil)
	assert.Len(t, errs, 2)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertValue,
		Expected: "bob.name = Bob",
		Actual:   "Robert",
		Trace: []StepEvent{
			{Seq: 1, Op: OpNew, Target: "bob", Outcome: OutcomeOK},
			{Seq: 2, Op: OpSet, Target: "bob", Outcome: "INVALID_VALUE"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: value")
	assert.Contains(t, msg, "Expected: bob.name = Bob")
	assert.Contains(t, msg, "Actual: Robert")
	assert.Contains(t, msg, "[1] new bob ok")
	assert.Contains(t, msg, "[2] set bob INVALID_VALUE")
}

func TestRender(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 3, int64(3)},
		{"int32", int32(3), int64(3)},
		{"float32", float32(0.5), float64(0.5)},
		{"iri", quad.IRI("http://example.org/a"), "<http://example.org/a>"},
		{"bnode", quad.BNode("b1"), "_:b1"},
		{"time", when, "2024-01-02T03:04:05Z"},
		{"slice", []any{1, "x"}, []any{int64(1), "x"}},
		{"string", "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.in))
		})
	}
}

func TestSameValues(t *testing.T) {
	assert.True(t, sameValues([]any{"a", "b"}, []any{"b", "a"}))
	assert.False(t, sameValues([]any{"a", "a"}, []any{"a", "b"}))
	assert.False(t, sameValues([]any{int64(1)}, []any{"1"}))
	assert.True(t, sameValues("a", "a"))
	assert.False(t, sameValues(nil, []any{}))
}
