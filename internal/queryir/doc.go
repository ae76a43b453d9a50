// Package queryir provides an abstract query representation for statement
// lookups against a backing store.
//
// The IR sits between the graph pattern model and a concrete backend:
//
//	[graph.Pattern] → [Query IR] → [SQL backend]
//
// A pattern becomes an equality filter over the encoded columns of the
// statements table. The IR is deliberately small:
//   - Select(from, filter, bindings) reads rows
//   - Delete(from, filter) removes rows
//   - Predicates: Equals, And
//
// It EXCLUDES:
//   - NULL comparisons (encoded columns are never NULL)
//   - Joins, aggregations, subqueries
//   - OR predicates
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed with marker methods so backends can switch
// exhaustively:
//
//	switch q := query.(type) {
//	case Select:
//	case Delete:
//	}
//
// Validate reports shapes that are legal but almost always mistakes, such as
// a Delete with no filter.
package queryir
