package testutil

import "fmt"

// SequentialNodeIDs generates blank-node identifiers "n1", "n2", ...
//
// This enables deterministic test execution and golden statement dumps.
// The same scenario with a fresh SequentialNodeIDs produces byte-identical
// output.
//
// Thread-safety: SequentialNodeIDs is safe for concurrent use; it counts
// with a DeterministicClock.
type SequentialNodeIDs struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequentialNodeIDs creates a generator whose ids start with prefix.
//
// The prefix is typically set in the scenario YAML:
//
//	node_prefix: "topic"
//
// If prefix is empty, ids are "n1", "n2", ...
func NewSequentialNodeIDs(prefix string) *SequentialNodeIDs {
	if prefix == "" {
		prefix = "n"
	}
	return &SequentialNodeIDs{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next identifier.
//
// Implements resource.NodeIDGenerator.
func (g *SequentialNodeIDs) Generate() string {
	return fmt.Sprintf("%s%d", g.prefix, g.clock.Next())
}

// Reset restarts the sequence.
func (g *SequentialNodeIDs) Reset() {
	g.clock.Reset()
}
