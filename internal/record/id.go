package record

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces record identifiers. Generated ids are never reused.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator is the production generator. Its ids sort by creation
// time, and the zero value is ready for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a fresh UUIDv7 in canonical text form. It panics only
// when the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-001", "<prefix>-002", ...
//
// Used by scenarios and tests that need predictable ids for golden output.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator whose first id is "<prefix>-001".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}
