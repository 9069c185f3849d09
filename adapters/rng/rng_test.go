package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goconcept/adapters/rng"
)

func TestSameNameAndSeedReproduces(t *testing.T) {
	a := rng.New()
	r1 := a.SeededStream("population_init", 42)
	r2 := a.SeededStream("population_init", 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}

func TestDifferentNamesDiverge(t *testing.T) {
	a := rng.New()
	r1 := a.SeededStream("population_init", 42)
	r2 := a.SeededStream("mutation", 42)
	same := true
	for i := 0; i < 10; i++ {
		if r1.Int63() != r2.Int63() {
			same = false
		}
	}
	assert.False(t, same, "named streams must be decorrelated")
}
