// Package graph defines the statement-level model shared by the mapping
// core and its backing stores.
//
// Statements are quad.Quad values with an unused Label. Terms are compared by
// Key, a canonical text form, never by Go equality: two quad.Time values in
// different zones or a quad.String and an untyped quad.TypedString must
// compare the way a triple store compares them.
//
// A Repository is anything that can answer a Pattern query and accept
// inserts and pattern deletes. Memory is the in-process implementation used
// for resource views and tests; internal/store provides the SQLite one.
package graph
