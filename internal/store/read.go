package store

import (
	"context"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/queryir"
)

// QueryPattern returns the statements matching p in insertion order.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) QueryPattern(ctx context.Context, p graph.Pattern) (out []quad.Quad, err error) {
	defer func() { s.metrics.observe("query", int64(len(out)), err) }()

	filter, err := patternFilter(p)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}

	sqlText, params, err := s.compiler.Compile(queryir.Select{
		From:     statementsTable,
		Filter:   filter,
		Bindings: statementColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	out, err = scanStatements(rows)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	return out, nil
}

// Statements returns every stored statement in insertion order.
func (s *Store) Statements(ctx context.Context) ([]quad.Quad, error) {
	return s.QueryPattern(ctx, graph.Pattern{})
}

// Count returns the number of stored statements.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM statements").Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}
