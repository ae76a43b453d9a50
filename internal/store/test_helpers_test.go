package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStatements inserts fixture statements and fails the test on error.
func seedStatements(t *testing.T, s *Store, quads ...quad.Quad) {
	t.Helper()
	if err := s.InsertQuads(context.Background(), quads...); err != nil {
		t.Fatalf("InsertQuads() failed: %v", err)
	}
}

var (
	topic    = quad.IRI("http://example.org/id_namespace#baseball")
	mads     = "http://www.loc.gov/mads/rdf/v1#"
	authName = quad.IRI(mads + "authoritativeLabel")
	elements = quad.IRI(mads + "elementList")
	head     = quad.BNode("n1")
)

func stmt(s, p, o quad.Value) quad.Quad {
	return graph.Statement(s, p, o)
}
