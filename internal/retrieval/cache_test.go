package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/internal/retrieval"
	"goconcept/internal/testkit"
	"goconcept/ports"
)

func TestEvaluateScoresConfusionMatrix(t *testing.T) {
	kb := testkit.FamilyKB()
	problem := testkit.MotherProblem()
	eval, err := retrieval.NewCachedEvaluator(kb, problem, quality.F1{}, 0)
	require.NoError(t, err)

	ctx := context.Background()

	// Female retrieves {anna, betty, carol, dora, gina}: tp=2, fp=1, fn=0
	ev, err := eval.Evaluate(ctx, dl.NewClass(testkit.ClassFemale))
	require.NoError(t, err)
	assert.Equal(t, 2, ev.TruePos)
	assert.Equal(t, 1, ev.FalsePos)
	assert.Equal(t, 0, ev.FalseNeg)
	assert.InDelta(t, 0.8, ev.Quality, 1e-9)

	// the target concept scores perfectly
	target := dl.Conjoin(dl.NewClass(testkit.ClassFemale), dl.NewClass(testkit.ClassParent))
	ev, err = eval.Evaluate(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Quality)
	assert.Equal(t, 2, ev.Instances.Len())
}

func TestEvaluateCachesByCanonicalForm(t *testing.T) {
	kb := testkit.FamilyKB()
	eval, err := retrieval.NewCachedEvaluator(kb, testkit.MotherProblem(), quality.F1{}, 16)
	require.NoError(t, err)

	ctx := context.Background()
	female := dl.NewClass(testkit.ClassFemale)
	parent := dl.NewClass(testkit.ClassParent)

	_, err = eval.Evaluate(ctx, dl.Conjoin(female, parent))
	require.NoError(t, err)
	assert.Equal(t, 1, eval.Tested())
	assert.Equal(t, 0, eval.Hits())

	// operand order does not matter: same canonical form, cache hit
	_, err = eval.Evaluate(ctx, dl.Conjoin(parent, female))
	require.NoError(t, err)
	assert.Equal(t, 1, eval.Tested())
	assert.Equal(t, 1, eval.Hits())
}

type failingKB struct {
	ports.KnowledgeBase
}

func (failingKB) IndividualsOf(context.Context, dl.Expression) (learning.IndividualSet, error) {
	return nil, errors.New("endpoint down")
}

func TestEvaluateWrapsKnowledgeBaseFailure(t *testing.T) {
	eval, err := retrieval.NewCachedEvaluator(failingKB{}, testkit.MotherProblem(), quality.F1{}, 0)
	require.NoError(t, err)

	_, err = eval.Evaluate(context.Background(), dl.Thing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrKnowledgeBaseUnavailable))
}
