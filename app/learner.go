// Package app wires the domain into user-facing services: the Learner
// facade that drives one search strategy per fit, and the run service that
// persists and reports finished runs. No search logic lives here.
package app

import (
	"context"
	"sync"

	"goconcept/domain/core"
	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/internal"
	"goconcept/internal/retrieval"
	"goconcept/ports"
)

// DefaultTopK is the best-found capacity when the caller does not choose one
const DefaultTopK = 10

// Learner is the concept-learning facade: fit a learning problem with the
// configured strategy, then query the ranked hypotheses. A learner runs one
// fit at a time; Stop cancels the active fit between steps.
type Learner struct {
	kb        ports.KnowledgeBase
	strategy  ports.SearchStrategy
	metric    quality.Metric
	topK      int
	cacheSize int
	logger    *internal.Logger

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	fitted   bool
	best     *learning.HypothesisSet
	result   ports.SearchResult
	started  core.Timestamp
	finished core.Timestamp
}

// NewLearner builds a learner. A nil metric defaults to F1; topK <= 0
// defaults to DefaultTopK.
func NewLearner(kb ports.KnowledgeBase, strategy ports.SearchStrategy, metric quality.Metric, topK int, logger *internal.Logger) *Learner {
	if metric == nil {
		metric = quality.F1{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = internal.NewLogger(internal.LogLevelError)
	}
	return &Learner{kb: kb, strategy: strategy, metric: metric, topK: topK, logger: logger}
}

// SetCacheSize bounds the retrieval cache for subsequent fits. Zero or
// negative keeps the default.
func (l *Learner) SetCacheSize(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cacheSize = n
}

// Fit runs the strategy to a terminal state for one learning problem. Each
// fit gets a fresh retrieval cache and a fresh best-found set; a failed fit
// discards its partial results and leaves any previous fit intact.
func (l *Learner) Fit(ctx context.Context, problem *learning.Problem) error {
	if problem == nil {
		return core.ErrInvalidLearningProblem
	}

	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return core.ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.running = true
	l.cancel = cancel
	cacheSize := l.cacheSize
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		l.running = false
		l.cancel = nil
		l.mu.Unlock()
	}()

	evaluator, err := retrieval.NewCachedEvaluator(l.kb, problem, l.metric, cacheSize)
	if err != nil {
		return err
	}
	best := learning.NewHypothesisSet(l.topK)
	started := core.Now()

	l.logger.Info("fit started: strategy=%s metric=%s", l.strategy.Name(), l.metric.Name())
	result, err := l.strategy.Run(runCtx, ports.SearchRun{
		KB:        l.kb,
		Evaluator: evaluator,
		Problem:   problem,
		Best:      best,
	})
	if err != nil {
		l.logger.Error("fit aborted: %v", err)
		return err
	}

	l.mu.Lock()
	l.fitted = true
	l.best = best
	l.result = result
	l.started = started
	l.finished = core.Now()
	l.mu.Unlock()
	l.logger.Info("fit finished: outcome=%s best=%.4f", result.Outcome, result.Stats.BestQuality)
	return nil
}

// BestHypotheses returns up to n ranked hypotheses from the last fit,
// descending quality then ascending length. n = 0 yields an empty slice.
func (l *Learner) BestHypotheses(n int) ([]learning.Hypothesis, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fitted {
		return nil, core.ErrNotFitted
	}
	if n > l.best.Len() {
		n = l.best.Len()
	}
	return l.best.Top(n), nil
}

// Stop requests cancellation of the active fit. The strategy observes it at
// its next step boundary; hypotheses found so far remain queryable once the
// fit returns. Stopping an idle learner is a no-op.
func (l *Learner) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Result returns the terminal state and telemetry of the last fit
func (l *Learner) Result() (ports.SearchResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fitted {
		return ports.SearchResult{}, core.ErrNotFitted
	}
	return l.result, nil
}

// Fingerprint hashes the last fit's ranked hypotheses, for reproducibility
// checks across runs
func (l *Learner) Fingerprint() (core.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fitted {
		return "", core.ErrNotFitted
	}
	return l.best.Fingerprint(), nil
}

// runWindow reports when the last fit started and finished
func (l *Learner) runWindow() (core.Timestamp, core.Timestamp) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started, l.finished
}

// StrategyName exposes the configured strategy for run records
func (l *Learner) StrategyName() string { return l.strategy.Name() }

// MetricName exposes the configured metric for run records
func (l *Learner) MetricName() string { return l.metric.Name() }
