// Package rng implements the RNG port: deterministic per-operation random
// streams. Mixing the operation name into the seed keeps independently named
// streams decorrelated while the same (name, seed) pair always reproduces
// the same sequence.
package rng

import (
	"hash/fnv"
	"math/rand"

	"goconcept/ports"
)

// Adapter hands out seeded streams
type Adapter struct{}

var _ ports.RNG = (*Adapter)(nil)

// New creates the adapter
func New() *Adapter { return &Adapter{} }

// SeededStream derives a generator from the seed and the operation name
func (*Adapter) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}
