package store

import (
	"context"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

func TestInsertAndQuery(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedStatements(t, s,
		stmt(topic, authName, quad.String("Baseball")),
		stmt(topic, elements, head),
		stmt(head, vocab.Rest, vocab.Nil),
	)

	got, err := s.QueryPattern(ctx, graph.Pattern{Subject: topic})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, quad.String("Baseball"), got[0].Object)
	assert.Equal(t, head, got[1].Object)

	got, err = s.QueryPattern(ctx, graph.Pattern{Subject: head})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, vocab.Nil, got[0].Object)
}

func TestQueryNoMatchReturnsEmptySlice(t *testing.T) {
	s := createTestStore(t)

	got, err := s.QueryPattern(context.Background(), graph.Pattern{Subject: topic})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInsertIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	q := stmt(topic, authName, quad.String("Baseball"))
	seedStatements(t, s, q)
	seedStatements(t, s, q, q)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLiteralKindsRoundTripThroughStore(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	p := quad.IRI("http://example.org/p")

	values := []quad.Value{
		quad.String("plain"),
		quad.LangString{Value: "chat", Lang: "fr"},
		quad.TypedString{Value: "x", Type: "http://example.org/dt"},
		quad.Int(1960),
		quad.Float(0.25),
		quad.Bool(true),
		quad.Time(time.Date(2014, 5, 1, 0, 0, 0, 0, time.UTC)),
		quad.IRI("http://example.org/o"),
		quad.BNode("b7"),
	}
	for _, v := range values {
		seedStatements(t, s, stmt(topic, p, v))
	}

	got, err := s.QueryPattern(ctx, graph.Pattern{Subject: topic, Predicate: p})
	require.NoError(t, err)
	require.Len(t, got, len(values))
	for i, v := range values {
		assert.Equal(t, graph.Key(v), graph.Key(got[i].Object))
	}
}

func TestStringAndLangStringAreDistinct(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedStatements(t, s,
		stmt(topic, authName, quad.String("Baseball")),
		stmt(topic, authName, quad.LangString{Value: "Baseball", Lang: "en"}),
	)

	got, err := s.QueryPattern(ctx, graph.Pattern{Object: quad.String("Baseball")})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBlankNodeAndIRIWithSameLexicalAreDistinct(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedStatements(t, s,
		stmt(quad.BNode("x"), authName, quad.String("blank")),
		stmt(quad.IRI("x"), authName, quad.String("iri")),
	)

	got, err := s.QueryPattern(ctx, graph.Pattern{Subject: quad.BNode("x")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, quad.String("blank"), got[0].Object)
}

func TestDeletePattern(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedStatements(t, s,
		stmt(topic, authName, quad.String("Baseball")),
		stmt(topic, elements, head),
		stmt(head, vocab.Rest, vocab.Nil),
	)

	require.NoError(t, s.DeletePattern(ctx, graph.Pattern{Subject: topic, Predicate: authName}))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.DeletePattern(ctx, graph.Pattern{Object: head}))
	got, err := s.Statements(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, head, got[0].Subject)

	require.NoError(t, s.DeletePattern(ctx, graph.Pattern{}))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertRejectsLiteralSubject(t *testing.T) {
	s := createTestStore(t)

	err := s.InsertQuads(context.Background(), stmt(quad.String("nope"), authName, quad.String("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be a subject")
}

func TestInsertRejectsNonIRIPredicate(t *testing.T) {
	s := createTestStore(t)

	err := s.InsertQuads(context.Background(), stmt(topic, quad.String("p"), quad.String("x")))
	require.Error(t, err)
}

func TestRepositoryAdapter(t *testing.T) {
	s := createTestStore(t)
	var repo graph.Repository = s.Repository(context.Background())

	require.NoError(t, repo.Insert(stmt(topic, authName, quad.String("Baseball"))))
	got, err := repo.Query(graph.Pattern{Predicate: authName})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, repo.Delete(graph.Pattern{Subject: topic}))
	got, err = repo.Query(graph.Pattern{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetricsCountOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := createTestStore(t, WithRegisterer(reg))
	ctx := context.Background()

	seedStatements(t, s,
		stmt(topic, authName, quad.String("Baseball")),
		stmt(topic, elements, head),
	)
	_, err := s.QueryPattern(ctx, graph.Pattern{Subject: topic})
	require.NoError(t, err)
	require.NoError(t, s.DeletePattern(ctx, graph.Pattern{Subject: topic}))
	_ = s.InsertQuads(ctx, stmt(quad.String("bad"), authName, quad.String("x")))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.operations.WithLabelValues("insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.operations.WithLabelValues("insert", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.operations.WithLabelValues("query", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.statements.WithLabelValues("insert")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.statements.WithLabelValues("query")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.statements.WithLabelValues("delete")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
