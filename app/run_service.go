package app

import (
	"context"
	"fmt"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/internal"
	"goconcept/ports"
)

// RunSummary is the portable record of one finished fit: the run row, its
// ranked hypotheses, and the raw telemetry
type RunSummary struct {
	Record     ports.RunRecord
	Hypotheses []ports.StoredHypothesis
	Stats      ports.RunStats
}

// RunService turns fitted learners into persisted, reportable run records.
// The repository is optional; without one the service only summarizes.
type RunService struct {
	repo   ports.HypothesisRepository
	logger *internal.Logger
}

// NewRunService creates a run service. repo may be nil.
func NewRunService(repo ports.HypothesisRepository, logger *internal.Logger) *RunService {
	if logger == nil {
		logger = internal.NewLogger(internal.LogLevelError)
	}
	return &RunService{repo: repo, logger: logger}
}

// Summarize snapshots a fitted learner into a run summary
func (s *RunService) Summarize(l *Learner) (*RunSummary, error) {
	result, err := l.Result()
	if err != nil {
		return nil, err
	}
	hyps, err := l.BestHypotheses(DefaultTopK)
	if err != nil {
		return nil, err
	}
	fingerprint, err := l.Fingerprint()
	if err != nil {
		return nil, err
	}
	started, finished := l.runWindow()

	runID := core.NewRunID()
	record := ports.RunRecord{
		ID:             runID,
		Strategy:       l.StrategyName(),
		Metric:         l.MetricName(),
		Outcome:        string(result.Outcome),
		Fingerprint:    fingerprint,
		TestedConcepts: result.Stats.TestedConcepts,
		RuntimeMs:      result.Stats.RuntimeMs,
		StartedAt:      started,
		FinishedAt:     finished,
	}
	stored := make([]ports.StoredHypothesis, 0, len(hyps))
	for rank, h := range hyps {
		stored = append(stored, storedFromHypothesis(runID, rank+1, h))
	}
	return &RunSummary{Record: record, Hypotheses: stored, Stats: result.Stats}, nil
}

// Persist summarizes and saves the run. Fails if no repository is wired.
func (s *RunService) Persist(ctx context.Context, l *Learner) (*RunSummary, error) {
	summary, err := s.Summarize(l)
	if err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, fmt.Errorf("no hypothesis repository configured")
	}
	if err := s.repo.SaveRun(ctx, summary.Record, summary.Hypotheses); err != nil {
		return nil, fmt.Errorf("save run %s: %w", summary.Record.ID, err)
	}
	s.logger.Info("run persisted: id=%s hypotheses=%d", summary.Record.ID, len(summary.Hypotheses))
	return summary, nil
}

func storedFromHypothesis(runID core.RunID, rank int, h learning.Hypothesis) ports.StoredHypothesis {
	return ports.StoredHypothesis{
		ID:           h.ID,
		RunID:        runID,
		Rank:         rank,
		Rendered:     dl.Render(h.Expression),
		Canonical:    h.Canonical,
		Quality:      h.Quality,
		Length:       h.Length,
		TruePos:      h.TruePos,
		FalsePos:     h.FalsePos,
		FalseNeg:     h.FalseNeg,
		NumRetrieved: h.Instances.Len(),
	}
}
