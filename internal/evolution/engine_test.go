package evolution_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/adapters/rng"
	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/internal/evolution"
	"goconcept/internal/retrieval"
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

func TestRunConvergesOnParentProblem(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 42
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.ParentProblem(), 5)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeConverged, result.Outcome)
	best, ok := run.Best.Best()
	require.True(t, ok)
	assert.Equal(t, 1.0, best.Quality)
}

func TestRunIsReproducibleUnderFixedSeed(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 7
	cfg.MaxGenerations = 5
	cfg.QualityThreshold = 1.1 // force the full generation budget
	engine := evolution.NewEngine(cfg, rng.New(), nil)

	runA := newRun(t, testkit.MotherProblem(), 10)
	resA, err := engine.Run(context.Background(), runA)
	require.NoError(t, err)

	runB := newRun(t, testkit.MotherProblem(), 10)
	resB, err := engine.Run(context.Background(), runB)
	require.NoError(t, err)

	assert.Equal(t, resA.Stats.Generations, resB.Stats.Generations)
	assert.Equal(t, resA.Stats.TestedConcepts, resB.Stats.TestedConcepts)
	assert.Equal(t, runA.Best.Fingerprint(), runB.Best.Fingerprint())
}

func TestBestEverIsMonotonicAcrossGenerations(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 3
	cfg.MaxGenerations = 8
	cfg.QualityThreshold = 1.1
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.MotherProblem(), 10)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	require.Equal(t, 8, result.Stats.Generations)
	require.Len(t, result.Stats.GenerationStats, 8)

	// the archive never regresses even when a generation does
	best, ok := run.Best.Best()
	require.True(t, ok)
	maxSeen := 0.0
	for _, gs := range result.Stats.GenerationStats {
		if gs.BestFitness > maxSeen {
			maxSeen = gs.BestFitness
		}
		assert.LessOrEqual(t, gs.MeanFitness, gs.BestFitness+1e-9)
		assert.LessOrEqual(t, gs.UniqueConcepts, cfg.PopulationSize)
		assert.GreaterOrEqual(t, gs.UniqueConcepts, 1)
	}
	assert.GreaterOrEqual(t, best.Quality, maxSeen-1e-9)
}

func TestRunStopsOnGenerationBudget(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 11
	cfg.MaxGenerations = 2
	cfg.QualityThreshold = 1.1
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.MotherProblem(), 5)

	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeBudgetExhausted, result.Outcome)
	assert.Equal(t, 2, result.Stats.Generations)
}

func TestRunStopsOnRuntimeBudget(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 13
	cfg.MaxRuntime = time.Millisecond
	cfg.MaxGenerations = 10_000
	cfg.QualityThreshold = 1.1 // unreachable, so only the clock can stop it
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.MotherProblem(), 5)

	begin := time.Now()
	result, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeBudgetExhausted, result.Outcome)
	assert.Less(t, time.Since(begin), time.Second)
	assert.Less(t, result.Stats.Generations, cfg.MaxGenerations)
}

func TestRunObservesCancellation(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 1
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.MotherProblem(), 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := engine.Run(ctx, run)
	require.NoError(t, err)

	assert.Equal(t, ports.OutcomeCancelled, result.Outcome)
	assert.Equal(t, 0, result.Stats.Generations)
}

func TestIndividualsRespectLengthBound(t *testing.T) {
	cfg := evolution.DefaultConfig()
	cfg.Seed = 9
	cfg.MaxLength = 7
	cfg.MaxGenerations = 4
	cfg.QualityThreshold = 1.1
	engine := evolution.NewEngine(cfg, rng.New(), nil)
	run := newRun(t, testkit.MotherProblem(), 20)

	_, err := engine.Run(context.Background(), run)
	require.NoError(t, err)

	for _, h := range run.Best.Top(run.Best.Len()) {
		assert.LessOrEqual(t, h.Length, 7)
	}
}
