// Package search implements the heuristic best-first engine: a frontier of
// partially refined concepts expanded in descending heuristic order, with
// horizontal expansion to keep shallow-but-promising nodes competitive.
package search

import (
	"context"
	"time"

	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/internal"
	"goconcept/internal/refine"
	"goconcept/ports"
)

// Weights parameterize the node heuristic. All penalties must be
// non-negative so longer and over-expanded nodes score monotonically worse.
type Weights struct {
	GainBonus         float64 // reward for quality gained over the parent
	ExpansionPenalty  float64 // per unit of horizontal expansion
	RefinementPenalty float64 // per child already generated
	StartNodeBonus    float64 // keeps the root competitive early on
}

// DefaultWeights are the tuned defaults; callers override via configuration
func DefaultWeights() Weights {
	return Weights{
		GainBonus:         0.3,
		ExpansionPenalty:  0.1,
		RefinementPenalty: 0.001,
		StartNodeBonus:    0.1,
	}
}

// Config bounds one heuristic search run
type Config struct {
	QualityThreshold float64       // quality at which the run converges
	MaxNodes         int           // expansion budget, 0 = DefaultMaxNodes
	MaxRuntime       time.Duration // wall-clock budget, 0 = DefaultMaxRuntime
	TerminateOnGoal  bool          // stop at the first goal node
	MaxChildLength   int           // refinement length cap, 0 = operator default
	Weights          Weights
}

const (
	DefaultMaxNodes   = 2000
	DefaultMaxRuntime = 30 * time.Second
)

// DefaultConfig returns the stock configuration: converge at quality 1.0,
// stop on the first goal
func DefaultConfig() Config {
	return Config{
		QualityThreshold: 1.0,
		MaxNodes:         DefaultMaxNodes,
		MaxRuntime:       DefaultMaxRuntime,
		TerminateOnGoal:  true,
		Weights:          DefaultWeights(),
	}
}

// Engine is the best-first search strategy over refinement chains
type Engine struct {
	cfg    Config
	logger *internal.Logger
}

var _ ports.SearchStrategy = (*Engine)(nil)

// NewEngine builds an engine from a config, filling unset budgets with
// defaults
func NewEngine(cfg Config, logger *internal.Logger) *Engine {
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.MaxRuntime <= 0 {
		cfg.MaxRuntime = DefaultMaxRuntime
	}
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = 1.0
	}
	if logger == nil {
		logger = internal.NewLogger(internal.LogLevelError)
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Name identifies the strategy in run records and configuration
func (e *Engine) Name() string { return "heuristic" }

// Run drives the search until convergence, budget exhaustion or
// cancellation. Cancellation is observed between expansions only; an
// in-flight expansion always completes.
func (e *Engine) Run(ctx context.Context, run ports.SearchRun) (ports.SearchResult, error) {
	start := time.Now()
	op := refine.New(run.KB, e.cfg.MaxChildLength)

	rootEval, err := run.Evaluator.Evaluate(ctx, dl.Thing)
	if err != nil {
		return ports.SearchResult{}, err
	}
	root := &node{
		expr:      dl.Thing,
		canonical: dl.CanonicalForm(dl.Thing),
		quality:   rootEval.Quality,
		hExp:      dl.Thing.Length() - 1,
	}
	root.heuristic = e.score(root)

	fr := newFrontier()
	fr.push(root)
	visited := map[string]struct{}{root.canonical: {}}
	run.Best.MaybeAdd(learning.NewHypothesis(dl.Thing, rootEval.Quality,
		rootEval.Instances, rootEval.TruePos, rootEval.FalsePos, rootEval.FalseNeg))

	stats := ports.RunStats{TestedConcepts: 1, BestQuality: rootEval.Quality}
	outcome := ports.OutcomeBudgetExhausted

loop:
	for {
		select {
		case <-ctx.Done():
			outcome = ports.OutcomeCancelled
			break loop
		default:
		}
		if stats.ExpandedNodes >= e.cfg.MaxNodes || time.Since(start) >= e.cfg.MaxRuntime {
			break
		}
		if fr.Len() == 0 {
			break
		}

		n := fr.pop()
		goal, err := e.expand(ctx, op, run, n, fr, visited, &stats)
		if err != nil {
			return ports.SearchResult{}, err
		}
		stats.ExpandedNodes++

		// widen the node's horizon and let it compete again
		n.hExp++
		n.heuristic = e.score(n)
		fr.reinsert(n)

		if goal {
			outcome = ports.OutcomeConverged
			if e.cfg.TerminateOnGoal {
				break
			}
		}
	}

	if best, ok := run.Best.Best(); ok {
		stats.BestQuality = best.Quality
		if best.Quality >= e.cfg.QualityThreshold {
			if outcome == ports.OutcomeBudgetExhausted {
				outcome = ports.OutcomeConverged
			}
		}
	}
	stats.RuntimeMs = time.Since(start).Milliseconds()
	e.logger.Debug("heuristic search finished: outcome=%s expanded=%d tested=%d best=%.4f",
		outcome, stats.ExpandedNodes, stats.TestedConcepts, stats.BestQuality)
	return ports.SearchResult{Outcome: outcome, Stats: stats}, nil
}

// expand refines one node at its current horizon and folds the children into
// the frontier and the best-found set. Returns true when a child reaches the
// quality threshold.
func (e *Engine) expand(ctx context.Context, op *refine.Operator, run ports.SearchRun, n *node, fr *frontier, visited map[string]struct{}, stats *ports.RunStats) (bool, error) {
	children, err := op.Refine(ctx, n.expr, n.hExp+1)
	if err != nil {
		return false, err
	}

	goal := false
	for _, child := range children {
		// skip refinements already producible at a smaller horizon
		if child.Length() <= n.hExp {
			continue
		}
		canonical := dl.CanonicalForm(child)
		if _, dup := visited[canonical]; dup {
			continue
		}
		visited[canonical] = struct{}{}
		n.refCount++

		ev, err := run.Evaluator.Evaluate(ctx, child)
		if err != nil {
			return false, err
		}
		stats.TestedConcepts++

		// too weak: covers no positive example, no refinement can recover
		if ev.Quality == 0 {
			continue
		}

		cn := &node{
			expr:      child,
			canonical: canonical,
			parent:    n,
			quality:   ev.Quality,
			hExp:      child.Length() - 1,
		}
		cn.heuristic = e.score(cn)
		fr.push(cn)
		run.Best.MaybeAdd(learning.NewHypothesis(child, ev.Quality,
			ev.Instances, ev.TruePos, ev.FalsePos, ev.FalseNeg))

		if ev.Quality >= e.cfg.QualityThreshold {
			goal = true
		}
	}
	return goal, nil
}

// score computes the node heuristic: quality plus the gain over the parent,
// minus monotonic penalties for horizontal expansion and fan-out
func (e *Engine) score(n *node) float64 {
	w := e.cfg.Weights
	s := n.quality
	if n.parent != nil {
		s += w.GainBonus * (n.quality - n.parent.quality)
	} else {
		s += w.StartNodeBonus
	}
	s -= w.ExpansionPenalty * float64(n.hExp)
	s -= w.RefinementPenalty * float64(n.refCount)
	return s
}
