package store

import (
	"context"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/queryir"
)

// InsertQuads writes statements in one transaction.
// Uses ON CONFLICT DO NOTHING, so inserting an existing statement is a no-op.
// Labels are ignored.
func (s *Store) InsertQuads(ctx context.Context, quads ...quad.Quad) (err error) {
	var inserted int64
	defer func() { s.metrics.observe("insert", inserted, err) }()

	if len(quads) == 0 {
		return nil
	}

	encoded := make([]encodedStatement, 0, len(quads))
	for _, q := range quads {
		enc, err := encodeStatement(q)
		if err != nil {
			return fmt.Errorf("insert statements: %w", err)
		}
		encoded = append(encoded, enc)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert statements: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statements
		(subject_kind, subject, predicate, object_kind, object, object_datatype, object_lang)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("insert statements: prepare: %w", err)
	}
	defer stmt.Close()

	for _, enc := range encoded {
		res, err := stmt.ExecContext(ctx,
			string(enc.subject.Kind),
			enc.subject.Lexical,
			enc.predicate,
			string(enc.object.Kind),
			enc.object.Lexical,
			enc.object.Datatype,
			enc.object.Lang,
		)
		if err != nil {
			return fmt.Errorf("insert statements: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert statements: commit: %w", err)
	}
	s.logger.Debug("inserted statements", "count", inserted)
	return nil
}

// DeletePattern removes every statement matching p.
func (s *Store) DeletePattern(ctx context.Context, p graph.Pattern) (err error) {
	var deleted int64
	defer func() { s.metrics.observe("delete", deleted, err) }()

	filter, err := patternFilter(p)
	if err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}

	sqlText, params, err := s.compiler.Compile(queryir.Delete{
		From:   statementsTable,
		Filter: filter,
	})
	if err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}

	res, err := s.db.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		deleted = n
	}
	s.logger.Debug("deleted statements", "count", deleted)
	return nil
}
