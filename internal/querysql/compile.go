// Package querysql compiles queryir queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/rdfmap/internal/queryir"
)

// SQLCompiler compiles queryir to parameterized SQL for SQLite.
//
// Every SELECT carries ORDER BY id so results come back in insertion order.
// Values are always bound as parameters, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to SQL. Returns (sql, params, error).
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	case queryir.Delete:
		return c.compileDelete(query)
	case *queryir.Delete:
		return c.compileDelete(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	if q.From == "" {
		return "", nil, fmt.Errorf("select requires a source table")
	}

	whereClause, params, err := c.compileWhere(q.Filter)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		c.compileBindings(q.Bindings),
		q.From,
		whereClause,
		c.stableOrderKey())

	return sql, params, nil
}

func (c *SQLCompiler) compileDelete(q queryir.Delete) (string, []any, error) {
	if q.From == "" {
		return "", nil, fmt.Errorf("delete requires a source table")
	}

	whereClause, params, err := c.compileWhere(q.Filter)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("DELETE FROM %s%s", q.From, whereClause), params, nil
}

func (c *SQLCompiler) compileWhere(filter queryir.Predicate) (string, []any, error) {
	if filter == nil {
		return "", nil, nil
	}
	filterSQL, params, err := c.compilePredicate(filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	return " WHERE " + filterSQL, params, nil
}

// compileBindings converts bindings to a column list, sorted by source column.
// Example: {"object_kind": "kind"} → "object_kind AS kind"
func (c *SQLCompiler) compileBindings(bindings map[string]string) string {
	if len(bindings) == 0 {
		return "*"
	}

	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, column := range keys {
		alias := bindings[column]
		if alias == "" || column == alias {
			parts = append(parts, column)
		} else {
			parts = append(parts, fmt.Sprintf("%s AS %s", column, alias))
		}
	}

	return strings.Join(parts, ", ")
}

// stableOrderKey is the ORDER BY clause every SELECT ends with.
func (c *SQLCompiler) stableOrderKey() string {
	return "id ASC COLLATE BINARY"
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case queryir.Equals:
		return c.compileEquals(pred)
	case *queryir.Equals:
		return c.compileEquals(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileEquals(eq queryir.Equals) (string, []any, error) {
	if eq.Field == "" {
		return "", nil, fmt.Errorf("equals predicate requires a field")
	}
	return fmt.Sprintf("%s = ?", eq.Field), []any{eq.Value}, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	sqlParts := make([]string, 0, len(and.Predicates))
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if isAnd(pred) && len(and.Predicates) > 1 {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

func isAnd(p queryir.Predicate) bool {
	switch p.(type) {
	case queryir.And, *queryir.And:
		return true
	}
	return false
}
