package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/app"
	"goconcept/domain/core"
	"goconcept/internal/search"
	"goconcept/internal/testkit"
	"goconcept/ports"
)

func TestBestHypothesesBeforeFit(t *testing.T) {
	learner := app.NewLearner(testkit.FamilyKB(), search.NewEngine(search.DefaultConfig(), nil), nil, 10, nil)

	_, err := learner.BestHypotheses(5)
	assert.True(t, errors.Is(err, core.ErrNotFitted))

	_, err = learner.Result()
	assert.True(t, errors.Is(err, core.ErrNotFitted))
}

func TestFitRejectsNilProblem(t *testing.T) {
	learner := app.NewLearner(testkit.FamilyKB(), search.NewEngine(search.DefaultConfig(), nil), nil, 10, nil)

	err := learner.Fit(context.Background(), nil)
	assert.True(t, errors.Is(err, core.ErrInvalidLearningProblem))
}

func TestFitAndQueryEndToEnd(t *testing.T) {
	learner := app.NewLearner(testkit.FamilyKB(), search.NewEngine(search.DefaultConfig(), nil), nil, 10, nil)

	require.NoError(t, learner.Fit(context.Background(), testkit.MotherProblem()))

	top, err := learner.BestHypotheses(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1.0, top[0].Quality, "a perfect separator for the female parents must surface")

	// boundary cases on n
	none, err := learner.BestHypotheses(0)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := learner.BestHypotheses(1000)
	require.NoError(t, err)
	seen := map[string]struct{}{}
	for _, h := range all {
		_, dup := seen[h.Canonical]
		assert.False(t, dup, "duplicate hypothesis %s", h.Canonical)
		seen[h.Canonical] = struct{}{}
	}
}

func TestRefitReplacesPreviousResults(t *testing.T) {
	learner := app.NewLearner(testkit.FamilyKB(), search.NewEngine(search.DefaultConfig(), nil), nil, 10, nil)

	require.NoError(t, learner.Fit(context.Background(), testkit.MotherProblem()))
	fpMother, err := learner.Fingerprint()
	require.NoError(t, err)

	require.NoError(t, learner.Fit(context.Background(), testkit.ParentProblem()))
	fpParent, err := learner.Fingerprint()
	require.NoError(t, err)

	assert.NotEqual(t, fpMother, fpParent)
}

// blockingStrategy waits for cancellation, then reports it
type blockingStrategy struct {
	started chan struct{}
}

func (b *blockingStrategy) Name() string { return "blocking" }

func (b *blockingStrategy) Run(ctx context.Context, run ports.SearchRun) (ports.SearchResult, error) {
	close(b.started)
	<-ctx.Done()
	return ports.SearchResult{Outcome: ports.OutcomeCancelled}, nil
}

func TestStopCancelsActiveFit(t *testing.T) {
	strategy := &blockingStrategy{started: make(chan struct{})}
	learner := app.NewLearner(testkit.FamilyKB(), strategy, nil, 10, nil)

	done := make(chan error, 1)
	go func() {
		done <- learner.Fit(context.Background(), testkit.MotherProblem())
	}()

	<-strategy.started
	learner.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("fit did not return after Stop")
	}

	result, err := learner.Result()
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeCancelled, result.Outcome)
}

func TestConcurrentFitRejected(t *testing.T) {
	strategy := &blockingStrategy{started: make(chan struct{})}
	learner := app.NewLearner(testkit.FamilyKB(), strategy, nil, 10, nil)

	done := make(chan error, 1)
	go func() {
		done <- learner.Fit(context.Background(), testkit.MotherProblem())
	}()
	<-strategy.started

	err := learner.Fit(context.Background(), testkit.ParentProblem())
	assert.True(t, errors.Is(err, core.ErrAlreadyRunning))

	learner.Stop()
	require.NoError(t, <-done)
}

// failingStrategy aborts mid-run as if the knowledge base vanished
type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Run(context.Context, ports.SearchRun) (ports.SearchResult, error) {
	return ports.SearchResult{}, core.NewKnowledgeBaseError("retrieve individuals", errors.New("connection refused"))
}

func TestFailedFitDiscardsPartialResults(t *testing.T) {
	learner := app.NewLearner(testkit.FamilyKB(), failingStrategy{}, nil, 10, nil)

	err := learner.Fit(context.Background(), testkit.MotherProblem())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrKnowledgeBaseUnavailable))

	_, err = learner.BestHypotheses(1)
	assert.True(t, errors.Is(err, core.ErrNotFitted))
}
