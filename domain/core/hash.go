package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
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

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// RunFingerprint hashes the ordered canonical forms of a run's best
// hypotheses. Two runs with identical configuration and identical adapter
// answers must produce equal fingerprints; determinism tests compare these.
func RunFingerprint(canonicalForms []string) Hash {
	var data strings.Builder
	for _, c := range canonicalForms {
		data.WriteString(c)
		data.WriteByte('\n')
	}
	return NewHash([]byte(data.String()))
}
