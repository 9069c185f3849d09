package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/domain/dl"
)

func hyp(expr dl.Expression, quality float64) Hypothesis {
	return NewHypothesis(expr, quality, nil, 0, 0, 0)
}

func TestHypothesisSetOrdering(t *testing.T) {
	female := dl.NewClass("family:Female")
	parent := dl.NewClass("family:Parent")
	long := dl.Conjoin(female, dl.NewSomeValuesFrom("family:hasChild", dl.Thing))

	s := NewHypothesisSet(10)
	assert.True(t, s.MaybeAdd(hyp(long, 0.8)))
	assert.True(t, s.MaybeAdd(hyp(female, 0.8)))
	assert.True(t, s.MaybeAdd(hyp(parent, 0.9)))

	top := s.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, "Parent", dl.Render(top[0].Expression))
	// equal quality: the shorter expression ranks first
	assert.Equal(t, "Female", dl.Render(top[1].Expression))
	assert.Equal(t, 0.8, top[2].Quality)
}

func TestHypothesisSetCapacityAndEviction(t *testing.T) {
	s := NewHypothesisSet(2)
	a := dl.NewClass("family:A")
	b := dl.NewClass("family:B")
	c := dl.NewClass("family:C")

	assert.True(t, s.MaybeAdd(hyp(a, 0.3)))
	assert.True(t, s.MaybeAdd(hyp(b, 0.5)))
	// worse than the current worst: rejected
	assert.False(t, s.MaybeAdd(hyp(c, 0.2)))
	// better: evicts the worst
	assert.True(t, s.MaybeAdd(hyp(c, 0.7)))

	top := s.Top(10)
	require.Len(t, top, 2)
	assert.Equal(t, 0.7, top[0].Quality)
	assert.Equal(t, 0.5, top[1].Quality)

	// the evicted hypothesis may re-enter later
	assert.True(t, s.MaybeAdd(hyp(a, 0.9)))
	best, ok := s.Best()
	require.True(t, ok)
	assert.Equal(t, 0.9, best.Quality)
}

func TestHypothesisSetDeduplicatesByCanonicalForm(t *testing.T) {
	s := NewHypothesisSet(5)
	a := dl.NewClass("family:A")
	b := dl.NewClass("family:B")

	assert.True(t, s.MaybeAdd(hyp(dl.Conjoin(a, b), 0.6)))
	// same concept up to commutativity: a duplicate
	assert.False(t, s.MaybeAdd(hyp(dl.Conjoin(b, a), 0.6)))
	assert.Equal(t, 1, s.Len())
}

func TestHypothesisSetZeroCapacity(t *testing.T) {
	s := NewHypothesisSet(0)
	assert.False(t, s.MaybeAdd(hyp(dl.NewClass("family:A"), 1.0)))
	assert.Empty(t, s.Top(10))
	_, ok := s.Best()
	assert.False(t, ok)
}

func TestHypothesisSetTopBoundaries(t *testing.T) {
	s := NewHypothesisSet(5)
	s.MaybeAdd(hyp(dl.NewClass("family:A"), 0.4))

	assert.Empty(t, s.Top(0))
	assert.Len(t, s.Top(100), 1, "n beyond held count returns all distinct hypotheses")
}

func TestHypothesisSetFingerprint(t *testing.T) {
	build := func() *HypothesisSet {
		s := NewHypothesisSet(3)
		s.MaybeAdd(hyp(dl.NewClass("family:A"), 0.4))
		s.MaybeAdd(hyp(dl.NewClass("family:B"), 0.8))
		return s
	}
	assert.Equal(t, build().Fingerprint(), build().Fingerprint())
}
