package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// IdentifierGenerator produces monotonically increasing "SIM-<n>"
// client order ids. The counter is seeded from wall-clock nanoseconds
// at creation so ids are unique across process restarts on a
// best-effort basis.
type IdentifierGenerator struct {
	next atomic.Uint64
}

// NewIdentifierGenerator seeds the counter from the current time.
func NewIdentifierGenerator() *IdentifierGenerator {
	g := &IdentifierGenerator{}
	g.next.Store(uint64(time.Now().UnixNano()))
	return g
}

// Generate returns the next identifier and advances the counter.
func (g *IdentifierGenerator) Generate() string {
	n := g.next.Add(1) - 1
	return fmt.Sprintf("SIM-%d", n)
}
