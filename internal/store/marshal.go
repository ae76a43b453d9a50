package store

import (
	"database/sql"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/queryir"
)

const statementsTable = "statements"

// statementColumns are the encoded columns bound by every read.
var statementColumns = map[string]string{
	"subject_kind":    "subject_kind",
	"subject":         "subject",
	"predicate":       "predicate",
	"object_kind":     "object_kind",
	"object":          "object",
	"object_datatype": "object_datatype",
	"object_lang":     "object_lang",
}

// encodedStatement is one row of the statements table.
type encodedStatement struct {
	subject   graph.EncodedTerm
	predicate string
	object    graph.EncodedTerm
}

func encodeStatement(q quad.Quad) (encodedStatement, error) {
	subject, err := graph.Encode(q.Subject)
	if err != nil {
		return encodedStatement{}, fmt.Errorf("subject: %w", err)
	}
	if subject.Kind == graph.KindLiteral {
		return encodedStatement{}, fmt.Errorf("subject: literal %s cannot be a subject", graph.Format(q.Subject))
	}
	predicate, ok := q.Predicate.(quad.IRI)
	if !ok {
		return encodedStatement{}, fmt.Errorf("predicate: %T is not an IRI", q.Predicate)
	}
	object, err := graph.Encode(q.Object)
	if err != nil {
		return encodedStatement{}, fmt.Errorf("object: %w", err)
	}
	return encodedStatement{subject: subject, predicate: string(predicate), object: object}, nil
}

func (e encodedStatement) decode() (quad.Quad, error) {
	subject, err := graph.Decode(e.subject)
	if err != nil {
		return quad.Quad{}, err
	}
	object, err := graph.Decode(e.object)
	if err != nil {
		return quad.Quad{}, err
	}
	return graph.Statement(subject, quad.IRI(e.predicate), object), nil
}

// patternFilter turns a pattern into equality predicates over encoded
// columns. A fully wild pattern yields a nil filter.
func patternFilter(p graph.Pattern) (queryir.Predicate, error) {
	var preds []queryir.Predicate

	if p.Subject != nil {
		t, err := graph.Encode(p.Subject)
		if err != nil {
			return nil, fmt.Errorf("subject: %w", err)
		}
		preds = append(preds,
			queryir.Equals{Field: "subject_kind", Value: string(t.Kind)},
			queryir.Equals{Field: "subject", Value: t.Lexical},
		)
	}
	if p.Predicate != nil {
		iri, ok := p.Predicate.(quad.IRI)
		if !ok {
			return nil, fmt.Errorf("predicate: %T is not an IRI", p.Predicate)
		}
		preds = append(preds, queryir.Equals{Field: "predicate", Value: string(iri)})
	}
	if p.Object != nil {
		t, err := graph.Encode(p.Object)
		if err != nil {
			return nil, fmt.Errorf("object: %w", err)
		}
		preds = append(preds,
			queryir.Equals{Field: "object_kind", Value: string(t.Kind)},
			queryir.Equals{Field: "object", Value: t.Lexical},
			queryir.Equals{Field: "object_datatype", Value: t.Datatype},
			queryir.Equals{Field: "object_lang", Value: t.Lang},
		)
	}

	return queryir.Conjoin(preds...), nil
}

// scanStatements reads rows produced by a statementColumns select. Column
// order comes from the result set so it does not depend on the compiler.
func scanStatements(rows *sql.Rows) ([]quad.Quad, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []quad.Quad{}
	for rows.Next() {
		values := make([]string, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		enc := encodedStatement{
			subject:   graph.EncodedTerm{Kind: graph.TermKind(row["subject_kind"]), Lexical: row["subject"]},
			predicate: row["predicate"],
			object: graph.EncodedTerm{
				Kind:     graph.TermKind(row["object_kind"]),
				Lexical:  row["object"],
				Datatype: row["object_datatype"],
				Lang:     row["object_lang"],
			},
		}
		q, err := enc.decode()
		if err != nil {
			return nil, fmt.Errorf("decode statement: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return out, nil
}
