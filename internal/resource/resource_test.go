package resource

import (
	"bytes"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

func TestNew_AppendsClassType(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.topic, "baseball", nil)

	assert.Equal(t, []quad.IRI{mads("Topic")}, r.Types())
	// Construction only touches the view.
	assert.Equal(t, 0, f.store.Len())
}

func TestNew_KeepsRecordedType(t *testing.T) {
	f := newFixture(t)
	subject := quad.IRI(topics + "baseball")
	f.store.Add(graph.Statement(subject, vocab.Type, mads("Topic")))

	r := f.newResource(t, f.topic, "baseball", f.store)
	assert.Len(t, r.Types(), 1)
}

func TestReload_NoRepository(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", nil)

	assert.False(t, r.Reachable())
	assert.False(t, r.Reload())
	assert.False(t, r.Persisted())
}

func TestReload_CopiesSubjectStatements(t *testing.T) {
	f := newFixture(t)
	alice := quad.IRI(people + "alice")
	f.store.Add(
		graph.Statement(alice, foaf("name"), quad.String("Alice")),
		graph.Statement(quad.IRI(people+"bob"), foaf("name"), quad.String("Bob")),
	)

	r := f.newResource(t, f.person, "alice", f.store)

	assert.True(t, r.Persisted())
	assert.Equal(t, "Alice", mustGet(t, r, "name"))
	assert.Empty(t, r.view.Match(graph.Pattern{Subject: quad.IRI(people + "bob")}))
}

func TestReload_EmptyRepositoryIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, NewClass("Untyped"), "http://example.org/x", f.store)

	assert.True(t, r.Reload())
	assert.False(t, r.Persisted())
}

func TestReload_ResetsTermCache(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", f.store)

	before, err := r.Term("name")
	require.NoError(t, err)
	again, err := r.Term("name")
	require.NoError(t, err)
	assert.Same(t, before, again)

	require.True(t, r.Reload())
	after, err := r.Term("name")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
}

func TestPersist_NoRepository(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", nil)

	err := r.Persist()
	require.Error(t, err)
	assert.True(t, IsStateError(err))
	assert.True(t, HasCode(err, ErrCodeNoRepository))
}

func TestPersist_ReplacesSubjectStatements(t *testing.T) {
	f := newFixture(t)
	alice := quad.IRI(people + "alice")
	f.store.Add(graph.Statement(alice, foaf("name"), quad.String("Alice")))

	r := f.newResource(t, f.person, "alice", f.store)
	// Written behind the resource's back.
	f.store.Add(graph.Statement(alice, foaf("nick"), quad.String("stale")))

	require.NoError(t, r.Persist())
	assert.Equal(t, graph.Lines(r.Statements()), graph.Lines(f.store.Match(graph.Pattern{Subject: alice})))
	assert.False(t, f.store.Has(graph.Statement(alice, foaf("nick"), quad.String("stale"))))
}

func TestPersist_Idempotent(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, nil, f.store)
	require.NoError(t, r.SetValue("name", "Alice"))
	require.NoError(t, r.SetValue("nick", []string{"al", "ally"}))

	require.NoError(t, r.Persist())
	first := graph.Lines(f.store.Statements())
	require.NoError(t, r.Persist())
	second := graph.Lines(f.store.Statements())

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestPersist_NamedRepository(t *testing.T) {
	f := newFixture(t)
	archive := graph.NewMemory()
	f.repos.Add("archive", archive)
	archived := NewClass("Archived", WithRepository("archive")).Property("title", vocab.Title)

	r := f.newResource(t, archived, "http://example.org/doc", nil)
	require.NoError(t, r.SetValue("title", "Report"))
	// Named repositories are written explicitly.
	assert.Equal(t, 0, archive.Len())

	require.NoError(t, r.Persist())
	assert.Equal(t, 1, archive.Len())

	again := f.newResource(t, archived, "http://example.org/doc", nil)
	assert.Equal(t, []any{"Report"}, mustGet(t, again, "title"))
}

func TestPersist_UnknownNamedRepository(t *testing.T) {
	f := newFixture(t)
	orphan := NewClass("Orphan", WithRepository("missing"))

	r := f.newResource(t, orphan, "http://example.org/o", f.store)
	assert.False(t, r.Reachable())
	assert.True(t, HasCode(r.Persist(), ErrCodeNoRepository))
}

func TestParentChain_PersistsIntoFinalParent(t *testing.T) {
	f := newFixture(t)
	root := f.newResource(t, f.person, "root", f.store)
	mid := f.newResource(t, f.person, "mid", root)
	leaf := f.newResource(t, f.person, "leaf", mid)

	require.NoError(t, leaf.SetValue("name", "Leaf"))

	assert.True(t, f.store.Has(graph.Statement(quad.IRI(people+"leaf"), foaf("name"), quad.String("Leaf"))))
	assert.Empty(t, root.view.Match(graph.Pattern{Subject: quad.IRI(people + "leaf")}))
}

func TestParentChain_UnattachedRootCollectsChildren(t *testing.T) {
	f := newFixture(t)
	root := f.newResource(t, f.person, "root", nil)
	child := f.newResource(t, f.person, "child", root)

	require.NoError(t, child.SetValue("name", "Child"))
	assert.True(t, root.view.Has(graph.Statement(quad.IRI(people+"child"), foaf("name"), quad.String("Child"))))
}

func TestParentChain_StopsAtNamedRepository(t *testing.T) {
	f := newFixture(t)
	owner := NewClass("Owner", WithRepository("default"), WithType(quad.IRI("http://example.org/Owner"))).
		Property("child", quad.IRI("http://example.org/child"), WithClass(f.person))
	require.NoError(t, f.mapper.Declare(owner))

	o := f.newResource(t, owner, "http://example.org/o", nil)
	node, err := mustTerm(t, o, "child").Build(map[string]any{"name": "Y"})
	require.NoError(t, err)
	child := node.Subject()

	// The child writes to the owner's repository, not the owner's view.
	assert.True(t, f.store.Has(graph.Statement(child, foaf("name"), quad.String("Y"))))
	assert.Empty(t, o.view.Match(graph.Pattern{Subject: child}))
	require.NoError(t, o.Persist())

	fresh := f.newResource(t, owner, "http://example.org/o", nil)
	children := mustGet(t, fresh, "child").([]any)
	require.Len(t, children, 1)
	loaded := children[0].(Node).Resource()
	assert.Equal(t, f.person, loaded.Class())
	assert.Equal(t, "Y", mustGet(t, loaded, "name"))
}

func TestParentChain_CycleIsUnreachable(t *testing.T) {
	f := newFixture(t)
	a := f.newResource(t, f.person, nil, nil)
	b := f.newResource(t, f.person, nil, a)
	a.SetParent(b)

	assert.False(t, a.Reachable())
	assert.False(t, b.Reachable())
	assert.False(t, a.Reload())
	assert.True(t, HasCode(a.Persist(), ErrCodeNoRepository))

	// Assignment still works; auto-persist is skipped.
	require.NoError(t, a.SetValue("name", "A"))
	assert.Equal(t, "A", mustGet(t, a, "name"))
}

func TestParentChain_SelfParentIsUnreachable(t *testing.T) {
	f := newFixture(t)
	a := f.newResource(t, f.person, nil, nil)
	a.SetParent(a)

	assert.False(t, a.Reachable())
}

func TestDestroy_PurgesStoreReferences(t *testing.T) {
	f := newFixture(t)
	alice := quad.IRI(people + "alice")
	bob := quad.IRI(people + "bob")

	r := f.newResource(t, f.person, "alice", f.store)
	require.NoError(t, r.SetValue("name", "Alice"))
	f.store.Add(graph.Statement(bob, foaf("knows"), alice))

	require.NoError(t, r.Destroy())

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, countReferences(f.store.Statements(), alice))
}

func TestDestroy_ChildOfResource(t *testing.T) {
	f := newFixture(t)
	owner := f.newResource(t, f.person, "bob", nil)
	node, err := mustTerm(t, owner, "knows").Build(map[string]any{"id": "carol", "name": "Carol"})
	require.NoError(t, err)
	carol := node.Subject()
	require.Equal(t, 3, countReferences(owner.Statements(), carol))

	require.NoError(t, node.Resource().Destroy())

	assert.Equal(t, 0, countReferences(owner.Statements(), carol))
	assert.Equal(t, []any{}, mustGet(t, owner, "knows"))
}

func TestDestroy_NoRepository(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", nil)

	assert.True(t, IsStateError(r.Destroy()))
}

func TestLabel(t *testing.T) {
	f := newFixture(t)

	t.Run("class label property first", func(t *testing.T) {
		r := f.newResource(t, f.person, "alice", nil)
		require.NoError(t, r.SetValue(vocab.PrefLabel, "Preferred"))
		require.NoError(t, r.SetValue("name", "Alice"))
		assert.Equal(t, []any{"Alice"}, r.Label())
	})

	t.Run("default labels in priority order", func(t *testing.T) {
		r := f.newResource(t, f.topic, "baseball", nil)
		require.NoError(t, r.SetValue(vocab.Label, "rdfs"))
		require.NoError(t, r.SetValue(vocab.Title, "dcterms"))
		assert.Equal(t, []any{"dcterms"}, r.Label())
	})

	t.Run("label given as prefixed IRI", func(t *testing.T) {
		c := NewClass("Labelled", WithLabel("skos:altLabel"))
		r := f.newResource(t, c, "http://example.org/l", nil)
		require.NoError(t, r.SetValue(vocab.AltLabel, "alt"))
		require.NoError(t, r.SetValue(vocab.PrefLabel, "pref"))
		assert.Equal(t, []any{"alt"}, r.Label())
	})

	t.Run("iri fallback", func(t *testing.T) {
		r := f.newResource(t, f.person, "dave", nil)
		assert.Equal(t, []any{people + "dave"}, r.Label())
	})

	t.Run("blank node has no label", func(t *testing.T) {
		r := f.newResource(t, f.person, nil, nil)
		assert.Equal(t, []any{}, r.Label())
	})
}

func TestFields(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.topic, nil, nil)

	assert.Equal(t, []string{"name", "elementList", "externalAuthority"}, r.Fields())
}

func TestDump(t *testing.T) {
	f := newFixture(t)
	r := f.newResource(t, f.person, "alice", nil)
	require.NoError(t, r.SetValue("name", "Alice"))

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf))

	out := buf.String()
	assert.Contains(t, out, "<"+people+"alice>")
	assert.Contains(t, out, `"Alice"`)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestResource_ImplementsRepository(t *testing.T) {
	f := newFixture(t)
	var repo graph.Repository = f.newResource(t, f.person, nil, nil)

	s := quad.IRI("http://example.org/s")
	require.NoError(t, repo.Insert(graph.Statement(s, vocab.Label, quad.String("x"))))
	got, err := repo.Query(graph.Pattern{Subject: s})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, repo.Delete(graph.Pattern{Subject: s}))
	got, err = repo.Query(graph.Pattern{Subject: s})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func mustTerm(t *testing.T, r *Resource, property any) *Term {
	t.Helper()
	term, err := r.Term(property)
	require.NoError(t, err)
	return term
}
