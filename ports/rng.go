package ports

import (
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// DeriveSeed maps a named sampling stream onto its own seed so that
	// indicators generated from one configured base seed never share
	// generator state. Stable for a given (name, baseSeed).
	DeriveSeed(name string, baseSeed int64) int64

	// Stream creates an independent deterministic source for a named
	// stream. Streams with distinct names may be consumed concurrently.
	Stream(name string, baseSeed int64) rand.Source
}
