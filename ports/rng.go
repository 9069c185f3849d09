package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic operations.
// Randomized search (population init, crossover, mutation) must draw from a
// stream obtained here, never from ambient global state, so that runs are
// reproducible under a fixed seed.
type RNG interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation. The same (name, seed) pair always yields an
	// identical stream.
	SeededStream(name string, seed int64) *rand.Rand
}
