package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/internal/retrieval"
	"goconcept/internal/search"
	"goconcept/internal/testkit"
	"goconcept/ports"
)

func newRun(t *testing.T, problem *learning.Problem, topK int) ports.SearchRun {
	t.Helper()
	kb := testkit.FamilyKB()
	eval, err := retrieval.NewCachedEvaluator(kb, problem, quality.F1{}, 0)
	require.NoError(t, err)
	return ports.SearchRun{
		KB:        kb,
		Evaluator: eval,
		Problem:   problem,
		Best:      learning.NewHypothesisSet(topK),
	}
}

func TestRunConvergesOnMotherProblem(t *testing.T) {
	engine := search.NewEngine(search.DefaultConfig(), nil)
	run := newRun(t, testkit.MotherProblem(), 10)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeConverged, result.Outcome)
	assert.Equal(t, 1.0, result.Stats.BestQuality)

	best, ok := run.Best.Best()
	require.True(t, ok)
	assert.Equal(t, 1.0, best.Quality)
	assert.ElementsMatch(t,
		[]string{string(testkit.Individual("anna")), string(testkit.Individual("betty"))},
		iriStrings(best.Instances))
}

func TestRunConvergesOnParentProblem(t *testing.T) {
	engine := search.NewEngine(search.DefaultConfig(), nil)
	run := newRun(t, testkit.ParentProblem(), 5)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeConverged, result.Outcome)
	best, ok := run.Best.Best()
	require.True(t, ok)
	assert.Equal(t, 1.0, best.Quality)
	assert.Equal(t, 3, best.Instances.Len())
}

func TestRunIsDeterministic(t *testing.T) {
	engine := search.NewEngine(search.DefaultConfig(), nil)

	runA := newRun(t, testkit.MotherProblem(), 10)
	resA, err := engine.Run(context.Background(), runA)
	require.NoError(t, err)

	runB := newRun(t, testkit.MotherProblem(), 10)
	resB, err := engine.Run(context.Background(), runB)
	require.NoError(t, err)

	assert.Equal(t, resA.Outcome, resB.Outcome)
	assert.Equal(t, resA.Stats.ExpandedNodes, resB.Stats.ExpandedNodes)
	assert.Equal(t, resA.Stats.TestedConcepts, resB.Stats.TestedConcepts)
	assert.Equal(t, runA.Best.Fingerprint(), runB.Best.Fingerprint())
}

func TestRunStopsOnNodeBudget(t *testing.T) {
	cfg := search.DefaultConfig()
	cfg.MaxNodes = 1
	engine := search.NewEngine(cfg, nil)
	run := newRun(t, testkit.MotherProblem(), 10)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeBudgetExhausted, result.Outcome)
	assert.Equal(t, 1, result.Stats.ExpandedNodes)
	assert.Less(t, result.Stats.BestQuality, 1.0)
}

func TestRunStopsOnRuntimeBudget(t *testing.T) {
	cfg := search.DefaultConfig()
	cfg.MaxRuntime = time.Millisecond
	cfg.MaxNodes = 1_000_000
	cfg.QualityThreshold = 1.1 // unreachable, so only the clock can stop it
	engine := search.NewEngine(cfg, nil)
	run := newRun(t, testkit.MotherProblem(), 10)

	begin := time.Now()
	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeBudgetExhausted, result.Outcome)
	assert.Less(t, time.Since(begin), time.Second)
	assert.Less(t, result.Stats.ExpandedNodes, cfg.MaxNodes)
}

func TestRunObservesCancellation(t *testing.T) {
	engine := search.NewEngine(search.DefaultConfig(), nil)
	run := newRun(t, testkit.MotherProblem(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := engine.Run(ctx, run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeCancelled, result.Outcome)
	assert.Equal(t, 0, result.Stats.ExpandedNodes)
}

func TestRunWithZeroCapacityBestSet(t *testing.T) {
	engine := search.NewEngine(search.DefaultConfig(), nil)
	run := newRun(t, testkit.MotherProblem(), 0)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	// the search still runs to a terminal state; it just records nothing
	assert.Equal(t, 0, run.Best.Len())
	assert.NotEqual(t, ports.OutcomeCancelled, result.Outcome)
}

func iriStrings(set learning.IndividualSet) []string {
	out := make([]string, 0, set.Len())
	for _, iri := range set.Sorted() {
		out = append(out, string(iri))
	}
	return out
}
