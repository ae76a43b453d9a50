package resource

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NodeIDGenerator allocates blank-node identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type NodeIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable blank-node identifiers.
//
// Hyphens are stripped so the identifier is a valid N-Quads blank node
// label. Safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns "b" followed by 32 hex digits.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return "b" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// FixedGenerator returns predetermined identifiers in order.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined identifier.
//
// Panics when all identifiers have been consumed, which means a test
// allocated more nodes than it declared.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
