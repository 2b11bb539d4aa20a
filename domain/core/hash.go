package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// DeriveSeed mixes a base seed with a stream name so that independent
// sampling streams drawn from one configured seed stay deterministic but
// never share generator state. Same (base, name) always yields the same
// seed; distinct names yield distinct streams.
func DeriveSeed(base int64, name string) int64 {
	sum := sha256.Sum256([]byte(name))
	return base ^ int64(binary.BigEndian.Uint64(sum[:8]))
}
