package ports

import (
	"context"

	"goconcept/domain/dl"
	"goconcept/domain/learning"
)

// SearchOutcome is the terminal state of a strategy run
type SearchOutcome string

const (
	OutcomeConverged       SearchOutcome = "converged"
	OutcomeBudgetExhausted SearchOutcome = "budget_exhausted"
	OutcomeCancelled       SearchOutcome = "cancelled"
)

// Evaluation is the scored retrieval result for one expression
type Evaluation struct {
	Quality   float64
	Instances learning.IndividualSet
	TruePos   int
	FalsePos  int
	FalseNeg  int
}

// Evaluator scores expressions against the active learning problem. The
// facade builds one per fit; it caches instance-set retrievals for the
// lifetime of that run.
type Evaluator interface {
	Evaluate(ctx context.Context, expr dl.Expression) (Evaluation, error)
}

// GenerationStats is per-generation fitness telemetry from the
// evolutionary engine
type GenerationStats struct {
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	MeanFitness    float64 `json:"mean_fitness"`
	MedianFitness  float64 `json:"median_fitness"`
	StdDevFitness  float64 `json:"stddev_fitness"`
	UniqueConcepts int     `json:"unique_concepts"`
}

// RunStats is telemetry accumulated by a strategy during one run
type RunStats struct {
	ExpandedNodes   int               `json:"expanded_nodes,omitempty"`
	TestedConcepts  int               `json:"tested_concepts"`
	Generations     int               `json:"generations,omitempty"`
	RuntimeMs       int64             `json:"runtime_ms"`
	BestQuality     float64           `json:"best_quality"`
	GenerationStats []GenerationStats `json:"generation_stats,omitempty"`
}

// SearchRun bundles the collaborators a strategy needs for one fit
type SearchRun struct {
	KB        KnowledgeBase
	Evaluator Evaluator
	Problem   *learning.Problem
	Best      *learning.HypothesisSet
}

// SearchResult is a strategy's report after it stops
type SearchResult struct {
	Outcome SearchOutcome
	Stats   RunStats
}

// SearchStrategy is the single capability both engines implement: drive a
// search over concept expressions and fill run.Best with the top candidates.
// Implementations observe ctx cancellation only at step boundaries, so an
// in-flight expansion or generation always completes.
type SearchStrategy interface {
	Name() string
	Run(ctx context.Context, run SearchRun) (SearchResult, error)
}
