// Package ids hands out opaque unique identifiers for records.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator supplies process-wide unique string identifiers.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// New returns the production generator backed by random UUIDs.
func New() Generator {
	return uuidGenerator{}
}

// Sequence is a deterministic Generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a Sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
