package resource

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

func appendAll(t *testing.T, l *List, values ...any) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, l.Append(v))
	}
}

func TestList_AppendAndSet(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, f.store)

	appendAll(t, l, "a", "b", "c")
	require.NoError(t, l.Set(1, "B"))

	assert.Equal(t, []any{"a", "B", "c"}, l.Values())
	assert.Equal(t, 3, l.Len())
	require.NoError(t, l.WellFormed())
	assert.Equal(t, 1, terminators(f.store.Statements()))
}

func TestList_ReloadFromStore(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, f.store)
	appendAll(t, l, "a", int64(2), true)

	fresh := f.newList(t, nil, l.Subject(), f.store)

	assert.Equal(t, []any{"a", int64(2), true}, fresh.Values())
	require.NoError(t, fresh.WellFormed())
	assert.Equal(t, l.Subjects(), fresh.Subjects())
}

func TestList_HeadType(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, f.store)
	appendAll(t, l, "a")

	assert.Contains(t, l.Resource().Types(), vocab.List)
	assert.True(t, f.store.Has(graph.Statement(l.Subject(), vocab.Type, vocab.List)))
}

func TestList_SetPastEndPads(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)

	require.NoError(t, l.Set(2, "c"))

	assert.Equal(t, []any{vocab.Nothing, vocab.Nothing, "c"}, l.Values())
	require.NoError(t, l.WellFormed())
}

func TestList_AppendNil(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)

	appendAll(t, l, nil, "x")

	assert.Equal(t, []any{vocab.Nil, "x"}, l.Values())
	require.NoError(t, l.WellFormed())
}

func TestList_NegativeIndex(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)

	err := l.Set(-1, "x")
	require.Error(t, err)
	assert.True(t, IsIndexError(err))
	assert.Contains(t, err.Error(), "index -1 too small for list: minimum 0")
}

func TestList_InvalidElement(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	appendAll(t, l, "a")

	assert.True(t, IsTypeError(l.Append(struct{}{})))
	assert.True(t, IsTypeError(l.Set(5, struct{}{})))
	assert.Equal(t, 1, l.Len())
}

func TestList_At(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	assert.Nil(t, l.First())

	appendAll(t, l, "a", "b")

	v, ok := l.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = l.At(2)
	assert.False(t, ok)
	_, ok = l.At(-1)
	assert.False(t, ok)
	assert.Equal(t, "a", l.First())
}

func TestList_EachStops(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	appendAll(t, l, "a", "b", "c")

	var seen []any
	l.Each(func(i int, v any) bool {
		seen = append(seen, v)
		return i < 1
	})
	assert.Equal(t, []any{"a", "b"}, seen)
}

func TestList_Shift(t *testing.T) {
	t.Run("multi", func(t *testing.T) {
		f := newFixture(t)
		l := f.newList(t, nil, nil, f.store)
		appendAll(t, l, "a", "b", "c")
		second := l.Subjects()[1]

		v, err := l.Shift()
		require.NoError(t, err)
		assert.Equal(t, "a", v)
		assert.Equal(t, []any{"b", "c"}, l.Values())
		assert.Equal(t, l.Subject(), l.Subjects()[0])
		require.NoError(t, l.WellFormed())

		assert.Zero(t, countReferences(f.store.Statements(), second))
		assert.Equal(t, 1, terminators(f.store.Statements()))
		// head: type, first, rest; last node: first, rest
		assert.Equal(t, 5, f.store.Len())
	})

	t.Run("single", func(t *testing.T) {
		f := newFixture(t)
		l := f.newList(t, nil, nil, f.store)
		appendAll(t, l, "a")

		v, err := l.Shift()
		require.NoError(t, err)
		assert.Equal(t, "a", v)
		assert.Zero(t, l.Len())
		require.NoError(t, l.WellFormed())
		assert.Zero(t, terminators(f.store.Statements()))
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		l := f.newList(t, nil, nil, f.store)

		v, err := l.Shift()
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestList_DestroyRemovesChain(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, f.store)
	appendAll(t, l, "a", "b", "c")
	// head type plus first and rest on each node
	require.Equal(t, 7, f.store.Len())

	require.NoError(t, l.Resource().Destroy())

	assert.Zero(t, l.Len())
	assert.Zero(t, f.store.Len())
	assert.Zero(t, terminators(f.store.Statements()))
}

func TestList_WellFormedDetectsCycle(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	appendAll(t, l, "a", "b")
	tail := l.Subjects()[1]

	l.res.view.Remove(graph.Pattern{Subject: tail, Predicate: vocab.Rest})
	l.res.view.Add(graph.Statement(tail, vocab.Rest, l.Subject()))

	err := l.WellFormed()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
	assert.Equal(t, 2, l.Len())
}

func TestList_WellFormedDetectsExtraTerminator(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	appendAll(t, l, "a", "b")

	l.res.view.Add(graph.Statement(l.Subject(), vocab.Rest, vocab.Nil))

	assert.Error(t, l.WellFormed())
}

func TestList_HeterogeneousElements(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, f.store)

	topicEl := f.newResource(t, f.topicElement, nil, nil)
	require.NoError(t, topicEl.SetValue("elementValue", "Baseball"))
	temporalEl := f.newResource(t, f.temporalElement, nil, nil)
	require.NoError(t, temporalEl.SetValue("elementValue", "1960"))

	appendAll(t, l, topicEl, temporalEl, "plain")

	values := l.Values()
	require.Len(t, values, 3)
	assert.Same(t, topicEl, values[0])
	assert.Same(t, temporalEl, values[1])
	assert.Equal(t, "plain", values[2])
	assert.Same(t, l.Resource(), topicEl.Parent())

	fresh := f.newList(t, nil, l.Subject(), f.store)
	values = fresh.Values()
	require.Len(t, values, 3)

	first, ok := values[0].(*Resource)
	require.True(t, ok)
	assert.Same(t, f.topicElement, first.Class())
	assert.Equal(t, []any{"Baseball"}, mustGet(t, first, "elementValue"))

	second, ok := values[1].(*Resource)
	require.True(t, ok)
	assert.Same(t, f.temporalElement, second.Class())
	assert.Equal(t, []any{"1960"}, mustGet(t, second, "elementValue"))
}

func TestList_SetReplacesNodeElement(t *testing.T) {
	f := newFixture(t)
	l := f.newList(t, nil, nil, nil)
	appendAll(t, l, "a", "b")

	ref := quad.IRI("http://example.org/thing")
	require.NoError(t, l.Set(0, ref))

	v, ok := l.At(0)
	require.True(t, ok)
	node, ok := v.(*Resource)
	require.True(t, ok)
	assert.Equal(t, ref, node.Subject())
	assert.Equal(t, 2, l.Len())
}
