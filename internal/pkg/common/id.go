package common

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for locally-created entities (meal
// proposals, comments). Injected so business logic carries no environment
// detection.
type IDGenerator interface {
	Next() string
}

// UUIDGenerator is the default generator, backed by crypto/rand via
// github.com/google/uuid.
type UUIDGenerator struct{}

// Next returns a random UUID string.
func (UUIDGenerator) Next() string {
	return uuid.New().String()
}

// TokenGenerator is a weaker fallback for environments without a usable
// entropy source. Not suitable where uniqueness must hold across processes.
type TokenGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTokenGenerator creates a TokenGenerator seeded from the current time.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Next returns a random hex token.
func (g *TokenGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%08x%08x", g.rng.Uint32(), g.rng.Uint32())
}
