package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/domain/core"
)

func TestNewProblemValidation(t *testing.T) {
	pos := []core.IRI{"family:anna", "family:beth"}
	neg := []core.IRI{"family:carl"}

	p, err := NewProblem(pos, neg)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Positives().Len())
	assert.Equal(t, 1, p.Negatives().Len())

	_, err = NewProblem(nil, neg)
	assert.ErrorIs(t, err, core.ErrInvalidLearningProblem)
	assert.ErrorIs(t, err, core.ErrEmptyPositives)

	_, err = NewProblem(pos, nil)
	assert.ErrorIs(t, err, core.ErrEmptyNegatives)

	_, err = NewProblem(pos, []core.IRI{"family:anna"})
	assert.ErrorIs(t, err, core.ErrOverlappingExamples)
}

func TestIndividualSetOps(t *testing.T) {
	a := NewIndividualSet("x", "y", "z")
	b := NewIndividualSet("y", "z", "w")

	assert.Equal(t, 2, a.IntersectCount(b))
	assert.Equal(t, 2, b.IntersectCount(a))
	assert.True(t, a.Contains("x"))
	assert.False(t, a.Contains("w"))

	c := a.Copy()
	delete(c, "x")
	assert.True(t, a.Contains("x"), "copy must be independent")

	assert.Equal(t, []core.IRI{"w", "y", "z"}, b.Sorted())
}
