package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/resource"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Trace    []StepEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s %s\n", event.Seq, event.Op, event.Target, event.Outcome)
	}
	return buf.String()
}

// AssertionContext provides the bound nodes and repositories assertions
// inspect.
type AssertionContext struct {
	Nodes        map[string]resource.Node
	Repositories *graph.Registry
}

func (a *AssertionContext) node(name string) (resource.Node, error) {
	if a == nil {
		return nil, fmt.Errorf("no assertion context")
	}
	n, ok := a.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("target %q is not bound", name)
	}
	return n, nil
}

func (a *AssertionContext) list(name string) (*resource.List, error) {
	n, err := a.node(name)
	if err != nil {
		return nil, err
	}
	l, ok := n.(*resource.List)
	if !ok {
		return nil, fmt.Errorf("target %q is not a list", name)
	}
	return l, nil
}

func (a *AssertionContext) repository(name string) (graph.Repository, error) {
	if a == nil || a.Repositories == nil {
		return nil, fmt.Errorf("no repositories in assertion context")
	}
	if name == "" {
		name = DefaultRepository
	}
	repo, ok := a.Repositories.Get(name)
	if !ok {
		return nil, fmt.Errorf("repository %q is not registered", name)
	}
	return repo, nil
}

// assertValue compares target.property with the expected value.
// Multivalued properties compare without regard to order.
func assertValue(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	n, err := actx.node(a.Target)
	if err != nil {
		return err
	}
	got, err := n.Resource().Get(propertyArg(a.Property))
	if err != nil {
		return err
	}

	actual := render(got)
	expected := render(a.Equals)
	if !sameValues(expected, actual) {
		return &AssertionError{
			Type:     AssertValue,
			Expected: fmt.Sprintf("%s.%s = %v", a.Target, a.Property, expected),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    trace,
		}
	}
	return nil
}

func assertCount(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	n, err := actx.node(a.Target)
	if err != nil {
		return err
	}
	t, err := n.Resource().Term(propertyArg(a.Property))
	if err != nil {
		return err
	}
	if got := t.Len(); got != *a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%s.%s has %d values", a.Target, a.Property, *a.Count),
			Actual:   fmt.Sprintf("%d values", got),
			Trace:    trace,
		}
	}
	return nil
}

// assertList compares list elements in order.
func assertList(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	l, err := actx.list(a.Target)
	if err != nil {
		return err
	}
	actual := render(l.Values())
	expected := render(a.Equals)
	if expected == nil {
		expected = []any{}
	}
	if !reflect.DeepEqual(expected, actual) {
		return &AssertionError{
			Type:     AssertList,
			Expected: fmt.Sprintf("%s = %v", a.Target, expected),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertListClasses compares the class name of every element. Literal and
// placeholder elements have an empty class name.
func assertListClasses(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	l, err := actx.list(a.Target)
	if err != nil {
		return err
	}
	actual := []string{}
	l.Each(func(_ int, v any) bool {
		name := ""
		if n, ok := v.(resource.Node); ok {
			name = n.Resource().Class().Name
		}
		actual = append(actual, name)
		return true
	})
	if !reflect.DeepEqual(a.Classes, actual) {
		return &AssertionError{
			Type:     AssertListClasses,
			Expected: fmt.Sprintf("%s classes %v", a.Target, a.Classes),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    trace,
		}
	}
	return nil
}

func assertWellFormed(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	l, err := actx.list(a.Target)
	if err != nil {
		return err
	}
	if err := l.WellFormed(); err != nil {
		return &AssertionError{
			Type:     AssertWellFormed,
			Expected: fmt.Sprintf("%s is well formed", a.Target),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}
	return nil
}

func assertSubject(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	n, err := actx.node(a.Target)
	if err != nil {
		return err
	}
	got := graph.Format(n.Subject())
	if want := fmt.Sprint(a.Equals); got != want {
		return &AssertionError{
			Type:     AssertSubject,
			Expected: fmt.Sprintf("%s subject %s", a.Target, want),
			Actual:   got,
			Trace:    trace,
		}
	}
	return nil
}

// assertStatement checks presence (or absence, when present is false) of
// one statement in a repository.
func assertStatement(trace []StepEvent, actx *AssertionContext, a Assertion, present bool) error {
	repo, err := actx.repository(a.Repository)
	if err != nil {
		return err
	}
	quads, err := ParseStatements([]string{a.Statement})
	if err != nil {
		return fmt.Errorf("parse statement %q: %w", a.Statement, err)
	}
	if len(quads) != 1 {
		return fmt.Errorf("statement %q: want exactly one triple, got %d", a.Statement, len(quads))
	}
	found, err := repo.Query(graph.Exact(quads[0]))
	if err != nil {
		return err
	}
	if (len(found) > 0) != present {
		typ, want, got := AssertStatement, "present", "absent"
		if !present {
			typ, want, got = AssertNoStatement, "absent", "present"
		}
		return &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("%s %s", graph.FormatQuad(quads[0]), want),
			Actual:   got,
			Trace:    trace,
		}
	}
	return nil
}

func assertStoreCount(trace []StepEvent, actx *AssertionContext, a Assertion) error {
	repo, err := actx.repository(a.Repository)
	if err != nil {
		return err
	}
	all, err := repo.Query(graph.Pattern{})
	if err != nil {
		return err
	}
	if len(all) != *a.Count {
		return &AssertionError{
			Type:     AssertStoreCount,
			Expected: fmt.Sprintf("%d statements", *a.Count),
			Actual:   fmt.Sprintf("%d statements\n%s", len(all), strings.Join(graph.Lines(all), "\n")),
			Trace:    trace,
		}
	}
	return nil
}

// render converts values into a comparable form: nodes and IRIs become
// their N-Triples rendering, integers int64, times RFC 3339 strings.
func render(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case resource.Node:
		return graph.Format(x.Subject())
	case quad.IRI, quad.BNode:
		return graph.Format(x.(quad.Value))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = render(e)
		}
		return out
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	}
	return v
}

// sameValues compares rendered values. Slices compare as multisets.
func sameValues(expected, actual any) bool {
	es, eok := expected.([]any)
	as, aok := actual.([]any)
	if !eok || !aok {
		return reflect.DeepEqual(expected, actual)
	}
	if len(es) != len(as) {
		return false
	}
	key := func(vs []any) []string {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = fmt.Sprintf("%T:%v", v, v)
		}
		sort.Strings(out)
		return out
	}
	return reflect.DeepEqual(key(es), key(as))
}

// EvaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertValue:
			err = assertValue(result.Trace, actx, assertion)
		case AssertCount:
			err = assertCount(result.Trace, actx, assertion)
		case AssertList:
			err = assertList(result.Trace, actx, assertion)
		case AssertListClasses:
			err = assertListClasses(result.Trace, actx, assertion)
		case AssertWellFormed:
			err = assertWellFormed(result.Trace, actx, assertion)
		case AssertSubject:
			err = assertSubject(result.Trace, actx, assertion)
		case AssertStatement:
			err = assertStatement(result.Trace, actx, assertion, true)
		case AssertNoStatement:
			err = assertStatement(result.Trace, actx, assertion, false)
		case AssertStoreCount:
			err = assertStoreCount(result.Trace, actx, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s", i, err.Error()))
		}
	}

	return errors
}
