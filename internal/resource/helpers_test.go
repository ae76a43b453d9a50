package resource

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/testutil"
)

const (
	madsNS = "http://www.loc.gov/mads/rdf/v1#"
	foafNS = "http://xmlns.com/foaf/0.1/"
	topics = "http://example.org/id_namespace#"
	people = "http://example.org/people/"
)

func mads(local string) quad.IRI { return quad.IRI(madsNS + local) }
func foaf(local string) quad.IRI { return quad.IRI(foafNS + local) }

// fixture is a mapper with the MADS topic classes and a FOAF person class
// declared, plus an in-memory backing store.
type fixture struct {
	mapper          *Mapper
	store           *graph.Memory
	repos           *graph.Registry
	topic           *Class
	elementList     *Class
	topicElement    *Class
	temporalElement *Class
	person          *Class
	scheme          *Class
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: graph.NewMemory(), repos: graph.NewRegistry()}
	f.repos.Add("default", f.store)
	f.mapper = NewMapper(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNodeIDs(testutil.NewSequentialNodeIDs("")),
		WithRepositories(f.repos),
	)

	f.topicElement = NewClass("TopicElement", WithType(mads("TopicElement"))).
		Property("elementValue", mads("elementValue"))
	f.temporalElement = NewClass("TemporalElement", WithType(mads("TemporalElement"))).
		Property("elementValue", mads("elementValue"))
	f.elementList = NewClass("ElementList", AsList()).
		Property("topicElement", mads("TopicElement"), WithClassName("TopicElement")).
		Property("temporalElement", mads("TemporalElement"), WithClassName("TemporalElement")).
		AcceptsNestedAttributesFor("topicElement", "temporalElement")
	f.topic = NewClass("Topic", WithType(mads("Topic")), WithBaseURI(topics)).
		Property("name", mads("authoritativeLabel"), SingleValued()).
		Property("elementList", mads("elementList"), WithClassName("ElementList")).
		Property("externalAuthority", mads("hasExactExternalAuthority")).
		AcceptsNestedAttributesFor("elementList")
	f.person = NewClass("Person", WithType(foaf("Person")), WithBaseURI(people), WithLabel("name")).
		Property("name", foaf("name"), SingleValued()).
		Property("knows", foaf("knows"), WithClassName("Person")).
		Property("nick", foaf("nick")).
		AcceptsNestedAttributesFor("knows")
	f.scheme = NewClass("Scheme").
		Property("topics", mads("hasMADSSchemeMember"), WithClassName("TopicElement")).
		Property("temporals", mads("hasMADSSchemeMember"), WithClassName("TemporalElement")).
		Property("members", mads("hasMADSSchemeMember"))

	require.NoError(t, f.mapper.Declare(
		f.topic, f.elementList, f.topicElement, f.temporalElement, f.person, f.scheme,
	))
	return f
}

func (f *fixture) newResource(t *testing.T, class *Class, subject any, parent graph.Repository) *Resource {
	t.Helper()
	r, err := f.mapper.New(class, subject, parent)
	require.NoError(t, err)
	return r
}

func (f *fixture) newList(t *testing.T, class *Class, subject any, parent graph.Repository) *List {
	t.Helper()
	l, err := f.mapper.NewList(class, subject, parent)
	require.NoError(t, err)
	return l
}

// countReferences counts statements mentioning v as subject or object.
func countReferences(quads []quad.Quad, v quad.Value) int {
	n := 0
	for _, q := range quads {
		if graph.Equal(q.Subject, v) || graph.Equal(q.Object, v) {
			n++
		}
	}
	return n
}

func terminators(quads []quad.Quad) int {
	return len(graph.NewMemory(quads...).Match(graph.Pattern{
		Predicate: quad.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"),
		Object:    quad.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"),
	}))
}
