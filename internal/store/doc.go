// Package store provides a SQLite-backed statement store that implements
// graph.Repository.
//
// Every statement is one row of the statements table, with each term
// flattened to (kind, lexical, datatype, lang) columns by graph.Encode.
// A UNIQUE constraint over the encoded columns makes inserts idempotent.
//
// Reads go through queryir and querysql, so every SELECT is parameterized
// and ordered by id; statements come back in insertion order.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Each Insert or Delete call runs in its own transaction. A resource
// persist issues several such calls, so it is not atomic as a whole.
package store
