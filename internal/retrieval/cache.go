// Package retrieval implements the per-run evaluator shared by both search
// strategies: retrieve an expression's instance set from the knowledge base,
// score it against the learning problem, and cache by canonical form so that
// structurally equal refinements cost one retrieval.
package retrieval

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/ports"
)

// DefaultCacheSize bounds the retrieval cache when the caller passes no size
const DefaultCacheSize = 8192

// CachedEvaluator scores expressions against a fixed learning problem,
// memoizing by canonical form. Safe for concurrent use; the evolutionary
// engine evaluates whole populations in parallel through one instance.
type CachedEvaluator struct {
	kb      ports.KnowledgeBase
	problem *learning.Problem
	metric  quality.Metric
	cache   *lru.Cache[string, ports.Evaluation]

	tested int64
	hits   int64
}

var _ ports.Evaluator = (*CachedEvaluator)(nil)

// NewCachedEvaluator builds an evaluator for one fit. size <= 0 selects
// DefaultCacheSize.
func NewCachedEvaluator(kb ports.KnowledgeBase, problem *learning.Problem, metric quality.Metric, size int) (*CachedEvaluator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, ports.Evaluation](size)
	if err != nil {
		return nil, err
	}
	return &CachedEvaluator{kb: kb, problem: problem, metric: metric, cache: cache}, nil
}

// Evaluate retrieves and scores one expression. Cache hits return the stored
// evaluation without touching the knowledge base.
func (e *CachedEvaluator) Evaluate(ctx context.Context, expr dl.Expression) (ports.Evaluation, error) {
	key := dl.CanonicalForm(expr)
	if ev, ok := e.cache.Get(key); ok {
		atomic.AddInt64(&e.hits, 1)
		return ev, nil
	}

	instances, err := e.kb.IndividualsOf(ctx, expr)
	if err != nil {
		return ports.Evaluation{}, core.NewKnowledgeBaseError("retrieve individuals", err)
	}
	atomic.AddInt64(&e.tested, 1)

	pos := e.problem.Positives()
	neg := e.problem.Negatives()
	tp := instances.IntersectCount(pos)
	fp := instances.IntersectCount(neg)
	fn := pos.Len() - tp
	tn := neg.Len() - fp

	ev := ports.Evaluation{
		Quality:   e.metric.Score(tp, fn, fp, tn),
		Instances: instances,
		TruePos:   tp,
		FalsePos:  fp,
		FalseNeg:  fn,
	}
	e.cache.Add(key, ev)
	return ev, nil
}

// Tested counts distinct concepts actually retrieved from the knowledge base
func (e *CachedEvaluator) Tested() int {
	return int(atomic.LoadInt64(&e.tested))
}

// Hits counts cache hits, for run telemetry
func (e *CachedEvaluator) Hits() int {
	return int(atomic.LoadInt64(&e.hits))
}
