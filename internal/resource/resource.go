package resource

import (
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

// maxParentDepth bounds the walk up the parent chain.
const maxParentDepth = 64

// Node is anything that can be linked as a child value: a *Resource or a
// *List.
type Node interface {
	Subject() quad.Value
	Resource() *Resource
	SetAttributes(attrs any) error
}

// Resource is a named subgraph: a subject, the statements about it that
// this instance knows, a class, and an optional parent.
//
// The parent is either an enclosing Resource or a backing repository.
// Persisting walks up the parent chain to the topmost ancestor (or uses the
// named repository of the class) and writes there.
//
// A Resource is itself a graph.Repository over its view, so children can
// persist into it before it is attached to a store.
type Resource struct {
	mapper    *Mapper
	class     *Class
	subject   quad.Value
	view      *graph.Memory
	parent    graph.Repository
	persisted bool
	cache     *cache
	list      *List
}

// cache holds the per-instance memoized Terms and materialized children.
// It is reset on Reload and SetSubject; Term.Set drops the entries of the
// values it relinks.
type cache struct {
	terms map[string]*Term
	nodes map[string]Node
}

func newCache() *cache {
	c := &cache{}
	c.reset()
	return c
}

func (c *cache) reset() {
	c.terms = make(map[string]*Term)
	c.nodes = make(map[string]Node)
}

// Subject returns the current subject, a quad.IRI or a quad.BNode.
func (r *Resource) Subject() quad.Value { return r.subject }

// Resource returns r. It lets a Resource be used where a Node is expected.
func (r *Resource) Resource() *Resource { return r }

// IsNode reports whether the subject is still a blank node.
func (r *Resource) IsNode() bool {
	_, ok := r.subject.(quad.BNode)
	return ok
}

// Class returns the resource's class.
func (r *Resource) Class() *Class { return r.class }

// Mapper returns the mapper that created the resource.
func (r *Resource) Mapper() *Mapper { return r.mapper }

// Parent returns the parent, or nil.
func (r *Resource) Parent() graph.Repository { return r.parent }

// SetParent replaces the parent.
func (r *Resource) SetParent(parent graph.Repository) { r.parent = parent }

// Persisted reports whether the resource was loaded with data or written.
func (r *Resource) Persisted() bool { return r.persisted }

// List returns the list this resource backs, or nil.
func (r *Resource) List() *List { return r.list }

// Statements returns a copy of the view.
func (r *Resource) Statements() []quad.Quad { return r.view.Statements() }

// Len returns the number of statements in the view.
func (r *Resource) Len() int { return r.view.Len() }

// Query implements graph.Repository over the view.
func (r *Resource) Query(p graph.Pattern) ([]quad.Quad, error) {
	return r.view.Match(p), nil
}

// Insert implements graph.Repository over the view.
func (r *Resource) Insert(quads ...quad.Quad) error {
	r.view.Add(quads...)
	return nil
}

// Delete implements graph.Repository over the view.
func (r *Resource) Delete(p graph.Pattern) error {
	r.view.Remove(p)
	return nil
}

// Types returns the rdf:type IRIs recorded for the subject.
func (r *Resource) Types() []quad.IRI {
	var out []quad.IRI
	for _, q := range r.view.Match(graph.Pattern{Subject: r.subject, Predicate: vocab.Type}) {
		if iri, ok := q.Object.(quad.IRI); ok {
			out = append(out, iri)
		}
	}
	return out
}

// Fields returns the declared property names, without type, in
// declaration order.
func (r *Resource) Fields() []string {
	var out []string
	for _, p := range r.class.properties {
		if p.Name != typeProperty {
			out = append(out, p.Name)
		}
	}
	return out
}

// Dump writes the view as N-Quads.
func (r *Resource) Dump(w io.Writer) error {
	qw := nquads.NewWriter(w)
	for _, q := range r.view.Statements() {
		if err := qw.WriteQuad(q); err != nil {
			return fmt.Errorf("dump %s: %w", r.subject, err)
		}
	}
	return qw.Close()
}

// ensureType records the class type when the subject has none.
func (r *Resource) ensureType() {
	if r.class.Type == "" || len(r.Types()) > 0 {
		return
	}
	r.view.Add(graph.Statement(r.subject, vocab.Type, r.class.Type))
}

// finalParent walks the parent chain to the first ancestor with a direct
// repository: a plain graph.Repository, or a resource whose class names
// one. Otherwise it is the topmost resource. A chain that revisits a
// resource or exceeds maxParentDepth has no final parent.
func (r *Resource) finalParent() (graph.Repository, bool) {
	seen := map[*Resource]bool{r: true}
	current := r.parent
	for depth := 0; current != nil; depth++ {
		if depth >= maxParentDepth {
			return nil, false
		}
		res, ok := current.(*Resource)
		if !ok {
			return current, true
		}
		if seen[res] {
			return nil, false
		}
		seen[res] = true
		if !res.class.persistsToParent() {
			return res.mapper.repos.Get(res.class.Repository)
		}
		if res.parent == nil {
			return res, true
		}
		current = res.parent
	}
	return nil, false
}

// repository returns where the resource reads from and persists to.
func (r *Resource) repository() (graph.Repository, bool) {
	if r.class.persistsToParent() {
		return r.finalParent()
	}
	return r.mapper.repos.Get(r.class.Repository)
}

// Reachable reports whether a repository is reachable.
func (r *Resource) Reachable() bool {
	_, ok := r.repository()
	return ok
}

// Reload copies the repository's statements about the subject into the
// view. Lists also load their chain nodes. It returns false without effect
// when no repository is reachable.
func (r *Resource) Reload() bool {
	r.cache.reset()
	repo, ok := r.repository()
	if !ok {
		r.mapper.logger.Debug("reload skipped: no repository", "subject", r.subject.String())
		return false
	}

	pending := []quad.Value{r.subject}
	seen := make(map[string]bool)
	for len(pending) > 0 {
		subject := pending[0]
		pending = pending[1:]
		if seen[graph.Key(subject)] {
			continue
		}
		seen[graph.Key(subject)] = true

		quads, err := repo.Query(graph.Pattern{Subject: subject})
		if err != nil {
			r.mapper.logger.Warn("reload query failed", "subject", subject.String(), "error", err)
			return false
		}
		r.view.Add(quads...)

		if r.list == nil {
			continue
		}
		for _, q := range quads {
			if graph.Equal(q.Predicate, vocab.Rest) && graph.IsResource(q.Object) && !graph.Equal(q.Object, vocab.Nil) {
				pending = append(pending, q.Object)
			}
		}
	}

	if r.view.Len() > 0 {
		r.persisted = true
	}
	r.mapper.logger.Debug("reloaded", "subject", r.subject.String(), "statements", r.view.Len())
	return true
}

// Persist replaces the repository's statements about this resource with
// the view.
//
// Every statement with this subject is deleted, then every (subject,
// predicate) pair present in the view. For blank-node subjects the whole
// repository is also scanned, since stores may not match blank nodes by
// pattern consistently. Not atomic: a reader can observe the subject empty
// between the two phases.
func (r *Resource) Persist() error {
	repo, ok := r.repository()
	if !ok {
		return noRepositoryError(r.subject.String())
	}

	if err := repo.Delete(graph.Pattern{Subject: r.subject}); err != nil {
		return fmt.Errorf("persist %s: %w", r.subject, err)
	}
	statements := r.view.Statements()
	cleared := make(map[string]bool)
	for _, q := range statements {
		pair := graph.Key(q.Subject) + " " + graph.Key(q.Predicate)
		if cleared[pair] {
			continue
		}
		cleared[pair] = true
		if err := repo.Delete(graph.Pattern{Subject: q.Subject, Predicate: q.Predicate}); err != nil {
			return fmt.Errorf("persist %s: %w", r.subject, err)
		}
	}
	if r.IsNode() {
		all, err := repo.Query(graph.Pattern{})
		if err != nil {
			return fmt.Errorf("persist %s: %w", r.subject, err)
		}
		key := graph.Key(r.subject)
		for _, q := range all {
			if graph.Key(q.Subject) != key {
				continue
			}
			if err := repo.Delete(graph.Exact(q)); err != nil {
				return fmt.Errorf("persist %s: %w", r.subject, err)
			}
		}
	}
	if err := repo.Insert(statements...); err != nil {
		return fmt.Errorf("persist %s: %w", r.subject, err)
	}

	r.persisted = true
	r.mapper.logger.Debug("persisted", "subject", r.subject.String(), "statements", len(statements))
	return nil
}

// autoPersist persists a parent-backed resource when a repository is
// reachable. Unattached resources are left alone.
func (r *Resource) autoPersist() error {
	if !r.class.persistsToParent() {
		return nil
	}
	if _, ok := r.repository(); !ok {
		return nil
	}
	return r.Persist()
}

// Destroy clears the view, persists the empty state, and asks the parent
// to purge statements referring to the subject. A list also deletes its
// chain nodes from the repository.
func (r *Resource) Destroy() error {
	var chain []quad.Value
	if r.list != nil {
		chain = r.list.Subjects()
	}
	r.view.Clear()
	r.cache.reset()
	if err := r.Persist(); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	if repo, ok := r.repository(); ok {
		for _, node := range chain {
			if graph.Equal(node, r.subject) {
				continue
			}
			if err := repo.Delete(graph.Pattern{Subject: node}); err != nil {
				return fmt.Errorf("destroy %s: %w", r.subject, err)
			}
		}
	}

	switch p := r.parent.(type) {
	case nil:
	case *Resource:
		p.DestroyChild(r)
	default:
		if err := p.Delete(graph.Pattern{Object: r.subject}); err != nil {
			return fmt.Errorf("destroy %s: %w", r.subject, err)
		}
	}
	r.mapper.logger.Debug("destroyed", "subject", r.subject.String())
	return nil
}

// DestroyChild removes every statement in the view where the child's
// subject is the subject or the object.
func (r *Resource) DestroyChild(child Node) {
	subject := child.Subject()
	r.view.Remove(graph.Pattern{Subject: subject})
	r.view.Remove(graph.Pattern{Object: subject})
	delete(r.cache.nodes, graph.Key(subject))
}

// Label returns the first non-empty value set among the class label
// properties and then the default label predicates. With no label, IRI
// subjects fall back to their IRI; blank nodes get an empty slice.
func (r *Resource) Label() []any {
	for _, label := range r.class.Labels {
		var property any = label
		if _, ok := r.class.PropertyByName(label); !ok {
			property = vocab.Expand(label, nil)
		}
		if values := r.labelValues(property); len(values) > 0 {
			return values
		}
	}
	for _, predicate := range vocab.DefaultLabels() {
		if values := r.labelValues(predicate); len(values) > 0 {
			return values
		}
	}
	if iri, ok := r.subject.(quad.IRI); ok {
		return []any{string(iri)}
	}
	return []any{}
}

func (r *Resource) labelValues(property any) []any {
	t, err := r.Term(property)
	if err != nil {
		return nil
	}
	return t.Values()
}
