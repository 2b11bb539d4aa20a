package rng

import (
	"math/rand/v2"

	"missingmech/domain/core"
	"missingmech/ports"
)

// HashedStreams implements ports.RNGPort by hashing stream names into
// the base seed. It holds no state; every stream is freshly constructed
// and owned by its caller.
type HashedStreams struct{}

// NewHashedStreams creates the default RNG port implementation.
func NewHashedStreams() *HashedStreams {
	return &HashedStreams{}
}

// DeriveSeed returns the deterministic seed for a named stream.
func (s *HashedStreams) DeriveSeed(name string, baseSeed int64) int64 {
	return core.DeriveSeed(baseSeed, name)
}

// Stream returns an independent deterministic source for a named stream.
func (s *HashedStreams) Stream(name string, baseSeed int64) rand.Source {
	seed := s.DeriveSeed(name, baseSeed)
	return rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
}

var _ ports.RNGPort = (*HashedStreams)(nil)
