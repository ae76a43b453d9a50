package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/resource"
	"github.com/roach88/rdfmap/internal/schema"
	"github.com/roach88/rdfmap/internal/store"
	"github.com/roach88/rdfmap/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios against a fresh store with deterministic blank-node
// ids and a logical step clock.
type Harness struct {
	store  *store.Store
	repos  *graph.Registry
	mapper *resource.Mapper
	clock  *testutil.DeterministicClock
	nodes  map[string]resource.Node
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and register it as "default"
// 2. Load the CUE schema and declare its classes
// 3. Seed the store
// 4. Execute steps, checking expected error codes
// 5. Evaluate assertions and capture the final statements
//
// A returned error means the scenario could not be set up; step and
// assertion failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(":memory:", store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	repos := graph.NewRegistry()
	repos.Add(DefaultRepository, st.Repository(ctx))
	for _, name := range scenario.Repositories {
		repos.Add(name, graph.NewMemory())
	}

	s, errs := schema.Load(scenario.Schema, schema.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load schema: %w", errs[0])
	}
	mapper := resource.NewMapper(
		resource.WithLogger(logger),
		resource.WithRepositories(repos),
		resource.WithNodeIDs(testutil.NewSequentialNodeIDs(scenario.NodePrefix)),
	)
	if err := s.Declare(mapper); err != nil {
		return nil, err
	}

	h := &Harness{
		store:  st,
		repos:  repos,
		mapper: mapper,
		clock:  testutil.NewDeterministicClock(),
		nodes:  make(map[string]resource.Node),
		logger: logger,
	}

	seed, err := ParseStatements(scenario.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := st.InsertQuads(ctx, seed...); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	result := NewResult()
	h.executeSteps(scenario.Steps, result)

	actx := &AssertionContext{Nodes: h.nodes, Repositories: repos}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	statements, err := st.Statements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read statements: %w", err)
	}
	result.Statements = graph.Lines(statements)
	return result, nil
}

// executeSteps runs every step. A step that fails unexpectedly, or that
// succeeds where an error was expected, is recorded and execution
// continues with the next step.
func (h *Harness) executeSteps(steps []Step, result *Result) {
	for i, step := range steps {
		seq := h.clock.Next()
		err := h.executeStep(step)
		outcome := outcomeOf(err)
		result.AddStep(seq, step.Op, stepTarget(step), outcome)

		switch {
		case step.Error != "" && outcome != step.Error:
			result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Op, step.Error, describe(err)))
		case step.Error == "" && err != nil:
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Op, err))
		}

		h.logger.Debug("step completed", "step", i, "op", step.Op, "outcome", outcome)
	}
}

func (h *Harness) executeStep(step Step) error {
	switch step.Op {
	case OpNew:
		class, err := h.class(step.Class)
		if err != nil {
			return err
		}
		parent, err := h.parent(step.Parent)
		if err != nil {
			return err
		}
		r, err := h.mapper.New(class, subjectArg(step.Subject), parent)
		if err != nil {
			return err
		}
		h.nodes[step.As] = r
		return nil

	case OpNewList:
		var class *resource.Class
		if step.Class != "" {
			c, err := h.class(step.Class)
			if err != nil {
				return err
			}
			class = c
		}
		parent, err := h.parent(step.Parent)
		if err != nil {
			return err
		}
		l, err := h.mapper.NewList(class, subjectArg(step.Subject), parent)
		if err != nil {
			return err
		}
		h.nodes[step.As] = l
		return nil
	}

	node, ok := h.nodes[step.Target]
	if !ok {
		return fmt.Errorf("target %q is not bound", step.Target)
	}
	r := node.Resource()

	switch step.Op {
	case OpSet, OpPush, OpDelete:
		t, err := r.Term(propertyArg(step.Property))
		if err != nil {
			return err
		}
		values, err := h.values(step.Values)
		if err != nil {
			return err
		}
		switch step.Op {
		case OpSet:
			return t.Set(values)
		case OpPush:
			return t.Push(values)
		default:
			return t.Delete(values...)
		}

	case OpSetAttributes:
		return node.SetAttributes(step.Attributes)

	case OpBuild:
		t, err := r.Term(propertyArg(step.Property))
		if err != nil {
			return err
		}
		child, err := t.Build(step.Attributes)
		if err != nil {
			return err
		}
		if step.As != "" {
			h.nodes[step.As] = child
		}
		return nil

	case OpAppend, OpSetIndex, OpShift:
		l, ok := node.(*resource.List)
		if !ok {
			return fmt.Errorf("target %q is not a list", step.Target)
		}
		value, err := h.value(step.Value)
		if err != nil {
			return err
		}
		switch step.Op {
		case OpAppend:
			return l.Append(value)
		case OpSetIndex:
			return l.Set(*step.Index, value)
		default:
			_, err := l.Shift()
			return err
		}

	case OpPersist:
		return r.Persist()

	case OpReload:
		if l, ok := node.(*resource.List); ok {
			l.Reload()
			return nil
		}
		r.Reload()
		return nil

	case OpDestroy:
		return r.Destroy()

	case OpSetSubject:
		subject, err := h.value(step.Subject)
		if err != nil {
			return err
		}
		changed, err := r.SetSubject(subject)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("subject %q was not accepted", step.Subject)
		}
		return nil
	}
	return fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) class(name string) (*resource.Class, error) {
	c, ok := h.mapper.Class(name)
	if !ok {
		return nil, fmt.Errorf("class %q is not declared", name)
	}
	return c, nil
}

// parent resolves a step parent: empty is the store, "none" is no parent,
// anything else is a bound node.
func (h *Harness) parent(name string) (graph.Repository, error) {
	switch name {
	case "":
		repo, _ := h.repos.Get(DefaultRepository)
		return repo, nil
	case "none":
		return nil, nil
	}
	node, ok := h.nodes[name]
	if !ok {
		return nil, fmt.Errorf("parent %q is not bound", name)
	}
	return node.Resource(), nil
}

// value converts a YAML value into an assignable one: "<iri>" strings
// become IRIs, "_:id" strings blank nodes, "$name" strings bound nodes.
// Slices convert element-wise; other values pass through.
func (h *Harness) value(v any) (any, error) {
	switch x := v.(type) {
	case string:
		switch {
		case strings.HasPrefix(x, "<") && strings.HasSuffix(x, ">"):
			return quad.IRI(x[1 : len(x)-1]), nil
		case strings.HasPrefix(x, "_:"):
			return quad.BNode(x[2:]), nil
		case strings.HasPrefix(x, "$"):
			node, ok := h.nodes[x[1:]]
			if !ok {
				return nil, fmt.Errorf("node %q is not bound", x[1:])
			}
			return node, nil
		}
		return x, nil
	case []any:
		return h.values(x)
	}
	return v, nil
}

func (h *Harness) values(vs []any) ([]any, error) {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		converted, err := h.value(v)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func subjectArg(s string) any {
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return quad.IRI(s[1 : len(s)-1])
	}
	if s == "" {
		return nil
	}
	return s
}

func propertyArg(p string) any {
	if strings.HasPrefix(p, "<") && strings.HasSuffix(p, ">") {
		return quad.IRI(p[1 : len(p)-1])
	}
	return p
}

func stepTarget(s Step) string {
	if s.As != "" {
		return s.As
	}
	return s.Target
}

// outcomeOf renders an error as a trace outcome: "ok", the resource error
// code, or "ERROR".
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var re *resource.Error
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return "ERROR"
}

func describe(err error) string {
	if err == nil {
		return "no error"
	}
	return err.Error()
}

// ParseStatements parses N-Triples lines.
func ParseStatements(lines []string) ([]quad.Quad, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	r := nquads.NewReader(strings.NewReader(strings.Join(lines, "\n")+"\n"), false)
	var out []quad.Quad
	for {
		q, err := r.ReadQuad()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
}
