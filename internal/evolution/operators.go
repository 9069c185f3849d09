package evolution

import (
	"context"
	"math/rand"

	"goconcept/domain/dl"
	"goconcept/ports"
)

// individual is one member of the population. Fitness is computed once per
// expression per generation and carried forward with the expression.
type individual struct {
	expr      dl.Expression
	canonical string
	fitness   float64
	eval      ports.Evaluation
	evaluated bool
}

func newIndividual(expr dl.Expression) individual {
	n := dl.NormalForm(expr)
	return individual{expr: n, canonical: dl.CanonicalKey(n)}
}

// tournament picks the fittest of k uniformly drawn members. Ties fall to
// the earlier draw, which keeps selection deterministic for a fixed stream.
func tournament(r *rand.Rand, pop []individual, k int) individual {
	best := pop[r.Intn(len(pop))]
	for i := 1; i < k; i++ {
		c := pop[r.Intn(len(pop))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return best
}

// admissible applies the shared offspring guards: non-⊥ normal form, length
// bound, satisfiability
func (e *Engine) admissible(ctx context.Context, run ports.SearchRun, expr dl.Expression) (dl.Expression, bool, error) {
	n := dl.NormalForm(expr)
	if n.Kind() == dl.KindBottom || n.Length() > e.cfg.MaxLength {
		return nil, false, nil
	}
	ok, err := run.KB.IsSatisfiable(ctx, n)
	if err != nil {
		return nil, false, err
	}
	return n, ok, nil
}

// crossover swaps one random subtree between the parents, excluding
// whole-root swaps. Retries up to the bound; on exhaustion the parents pass
// through unchanged.
func (e *Engine) crossover(ctx context.Context, run ports.SearchRun, r *rand.Rand, a, b individual) (individual, individual, error) {
	subA := dl.Subtrees(a.expr)
	subB := dl.Subtrees(b.expr)
	if len(subA) < 2 || len(subB) < 2 {
		return a, b, nil
	}
	for attempt := 0; attempt < e.cfg.RetryBound; attempt++ {
		i := 1 + r.Intn(len(subA)-1)
		j := 1 + r.Intn(len(subB)-1)
		childA, err := dl.ReplaceSubtree(a.expr, i, subB[j])
		if err != nil {
			return a, b, err
		}
		childB, err := dl.ReplaceSubtree(b.expr, j, subA[i])
		if err != nil {
			return a, b, err
		}
		na, okA, err := e.admissible(ctx, run, childA)
		if err != nil {
			return a, b, err
		}
		nb, okB, err := e.admissible(ctx, run, childB)
		if err != nil {
			return a, b, err
		}
		if okA && okB {
			return newIndividual(na), newIndividual(nb), nil
		}
	}
	return a, b, nil
}

// mutate replaces a random subtree with a freshly grown one. Retries up to
// the bound, falling back to the unmutated individual.
func (e *Engine) mutate(ctx context.Context, run ports.SearchRun, r *rand.Rand, gen *Generator, ind individual) (individual, error) {
	n := dl.NodeCount(ind.expr)
	for attempt := 0; attempt < e.cfg.RetryBound; attempt++ {
		idx := r.Intn(n)
		mutated, err := dl.ReplaceSubtree(ind.expr, idx, gen.Subexpression(r))
		if err != nil {
			return ind, err
		}
		nm, ok, err := e.admissible(ctx, run, mutated)
		if err != nil {
			return ind, err
		}
		if ok && dl.CanonicalKey(nm) != ind.canonical {
			return newIndividual(nm), nil
		}
	}
	return ind, nil
}
