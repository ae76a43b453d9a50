package store

import (
	"context"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
)

// Repository binds the store to a context so it can serve as a
// graph.Repository. The mapping core is synchronous and carries no context
// of its own; the binding decides cancellation for all of its calls.
func (s *Store) Repository(ctx context.Context) graph.Repository {
	return &boundRepository{store: s, ctx: ctx}
}

type boundRepository struct {
	store *Store
	ctx   context.Context
}

func (r *boundRepository) Query(p graph.Pattern) ([]quad.Quad, error) {
	return r.store.QueryPattern(r.ctx, p)
}

func (r *boundRepository) Insert(quads ...quad.Quad) error {
	return r.store.InsertQuads(r.ctx, quads...)
}

func (r *boundRepository) Delete(p graph.Pattern) error {
	return r.store.DeletePattern(r.ctx, p)
}
