// Package evolution implements the evolutionary search strategy: a
// generational loop of tournament selection, subtree crossover and mutation
// over randomly initialized concept expressions, with elitism and a
// best-ever archive across the whole run.
package evolution

import (
	"context"
	"math/rand"
	"sort"
	"time"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/internal"
	"goconcept/ports"
)

// Config bounds one evolutionary run
type Config struct {
	PopulationSize   int
	MaxGenerations   int
	Elitism          int     // individuals copied unchanged each generation
	TournamentSize   int
	CrossoverRate    float64 // probability a selected pair recombines
	MutationRate     float64 // probability an offspring mutates
	MaxDepth         int     // depth bound for randomly grown trees
	MaxLength        int     // length bound for any individual
	RetryBound       int     // attempts before an operator gives up
	QualityThreshold float64
	MaxRuntime       time.Duration
	Workers          int // concurrent fitness evaluations per generation
	Seed             int64
}

// DefaultConfig returns the stock evolutionary configuration
func DefaultConfig() Config {
	return Config{
		PopulationSize:   64,
		MaxGenerations:   100,
		Elitism:          2,
		TournamentSize:   4,
		CrossoverRate:    0.9,
		MutationRate:     0.2,
		MaxDepth:         4,
		MaxLength:        15,
		RetryBound:       10,
		QualityThreshold: 1.0,
		MaxRuntime:       30 * time.Second,
		Workers:          4,
	}
}

// Engine is the evolutionary search strategy
type Engine struct {
	cfg    Config
	rng    ports.RNG
	logger *internal.Logger
}

var _ ports.SearchStrategy = (*Engine)(nil)

// NewEngine builds an engine, filling unset fields with defaults
func NewEngine(cfg Config, rng ports.RNG, logger *internal.Logger) *Engine {
	def := DefaultConfig()
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = def.PopulationSize
	}
	if cfg.MaxGenerations <= 0 {
		cfg.MaxGenerations = def.MaxGenerations
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = def.TournamentSize
	}
	if cfg.CrossoverRate <= 0 {
		cfg.CrossoverRate = def.CrossoverRate
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = def.MutationRate
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = def.MaxLength
	}
	if cfg.RetryBound <= 0 {
		cfg.RetryBound = def.RetryBound
	}
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = def.QualityThreshold
	}
	if cfg.MaxRuntime <= 0 {
		cfg.MaxRuntime = def.MaxRuntime
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Elitism < 0 {
		cfg.Elitism = 0
	}
	if cfg.Elitism >= cfg.PopulationSize {
		cfg.Elitism = cfg.PopulationSize - 1
	}
	if logger == nil {
		logger = internal.NewLogger(internal.LogLevelError)
	}
	return &Engine{cfg: cfg, rng: rng, logger: logger}
}

// Name identifies the strategy in run records and configuration
func (e *Engine) Name() string { return "evolution" }

// Run drives the generational loop until convergence, budget exhaustion or
// cancellation. Cancellation is observed at generation boundaries only.
func (e *Engine) Run(ctx context.Context, run ports.SearchRun) (ports.SearchResult, error) {
	start := time.Now()
	gen, err := NewGenerator(ctx, run.KB, e.cfg.MaxDepth)
	if err != nil {
		return ports.SearchResult{}, err
	}

	initRand := e.rng.SeededStream("population_init", e.cfg.Seed)
	varRand := e.rng.SeededStream("variation", e.cfg.Seed)

	pop, err := e.initialPopulation(ctx, run, gen, initRand)
	if err != nil {
		return ports.SearchResult{}, err
	}

	stats := ports.RunStats{}
	outcome := ports.OutcomeBudgetExhausted

	for g := 0; g < e.cfg.MaxGenerations; g++ {
		select {
		case <-ctx.Done():
			outcome = ports.OutcomeCancelled
			return e.finish(run, outcome, stats, start), nil
		default:
		}
		if time.Since(start) >= e.cfg.MaxRuntime {
			break
		}

		if err := e.evaluate(ctx, run, pop, &stats); err != nil {
			return ports.SearchResult{}, err
		}
		rankStable(pop)
		stats.Generations = g + 1
		stats.GenerationStats = append(stats.GenerationStats, e.telemetry(g, pop))

		if pop[0].fitness >= e.cfg.QualityThreshold {
			outcome = ports.OutcomeConverged
			break
		}

		next, err := e.breed(ctx, run, gen, varRand, pop)
		if err != nil {
			return ports.SearchResult{}, err
		}
		pop = next
	}

	return e.finish(run, outcome, stats, start), nil
}

// initialPopulation grows satisfiable, structurally distinct individuals,
// admitting duplicates only after the retry budget runs dry
func (e *Engine) initialPopulation(ctx context.Context, run ports.SearchRun, gen *Generator, r *rand.Rand) ([]individual, error) {
	pop := make([]individual, 0, e.cfg.PopulationSize)
	seen := make(map[string]struct{}, e.cfg.PopulationSize)
	budget := e.cfg.RetryBound * e.cfg.PopulationSize
	for len(pop) < e.cfg.PopulationSize {
		expr := gen.Expression(r)
		n, ok, err := e.admissible(ctx, run, expr)
		if err != nil {
			return nil, err
		}
		if ok {
			ind := newIndividual(n)
			if _, dup := seen[ind.canonical]; !dup || budget <= 0 {
				seen[ind.canonical] = struct{}{}
				pop = append(pop, ind)
				continue
			}
		}
		budget--
		if budget < -e.cfg.PopulationSize {
			// vocabulary too small to fill the population; pad with ⊤
			pop = append(pop, newIndividual(dl.Thing))
		}
	}
	return pop, nil
}

// evaluate computes fitness for every unevaluated individual, fanning out
// across workers, and folds each one into the best-ever archive
func (e *Engine) evaluate(ctx context.Context, run ports.SearchRun, pop []individual, rs *ports.RunStats) error {
	var fresh []int
	for i := range pop {
		if !pop[i].evaluated {
			fresh = append(fresh, i)
		}
	}
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(e.cfg.Workers)
	for _, i := range fresh {
		i := i
		grp.Go(func() error {
			ev, err := run.Evaluator.Evaluate(gctx, pop[i].expr)
			if err != nil {
				return err
			}
			pop[i].eval = ev
			pop[i].fitness = ev.Quality
			pop[i].evaluated = true
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	for _, i := range fresh {
		rs.TestedConcepts++
		run.Best.MaybeAdd(learning.NewHypothesis(pop[i].expr, pop[i].fitness,
			pop[i].eval.Instances, pop[i].eval.TruePos, pop[i].eval.FalsePos, pop[i].eval.FalseNeg))
	}
	return nil
}

// breed produces the next generation: elites pass through, the remainder
// comes from tournament selection, crossover and mutation
func (e *Engine) breed(ctx context.Context, run ports.SearchRun, gen *Generator, r *rand.Rand, pop []individual) ([]individual, error) {
	next := make([]individual, 0, e.cfg.PopulationSize)
	next = append(next, pop[:e.cfg.Elitism]...)

	for len(next) < e.cfg.PopulationSize {
		pa := tournament(r, pop, e.cfg.TournamentSize)
		pb := tournament(r, pop, e.cfg.TournamentSize)

		ca, cb := pa, pb
		if r.Float64() < e.cfg.CrossoverRate {
			var err error
			ca, cb, err = e.crossover(ctx, run, r, pa, pb)
			if err != nil {
				return nil, err
			}
		}
		for _, child := range []individual{ca, cb} {
			if len(next) >= e.cfg.PopulationSize {
				break
			}
			if r.Float64() < e.cfg.MutationRate {
				var err error
				child, err = e.mutate(ctx, run, r, gen, child)
				if err != nil {
					return nil, err
				}
			}
			next = append(next, child)
		}
	}
	return next, nil
}

// telemetry summarizes one generation's fitness distribution
func (e *Engine) telemetry(generation int, pop []individual) ports.GenerationStats {
	fitness := make([]float64, len(pop))
	unique := make(map[string]struct{}, len(pop))
	for i, ind := range pop {
		fitness[i] = ind.fitness
		unique[ind.canonical] = struct{}{}
	}
	median, err := mstats.Median(fitness)
	if err != nil {
		median = 0
	}
	return ports.GenerationStats{
		Generation:     generation,
		BestFitness:    pop[0].fitness,
		MeanFitness:    stat.Mean(fitness, nil),
		MedianFitness:  median,
		StdDevFitness:  stat.StdDev(fitness, nil),
		UniqueConcepts: len(unique),
	}
}

func (e *Engine) finish(run ports.SearchRun, outcome ports.SearchOutcome, rs ports.RunStats, start time.Time) ports.SearchResult {
	if best, ok := run.Best.Best(); ok {
		rs.BestQuality = best.Quality
		if best.Quality >= e.cfg.QualityThreshold && outcome == ports.OutcomeBudgetExhausted {
			outcome = ports.OutcomeConverged
		}
	}
	rs.RuntimeMs = time.Since(start).Milliseconds()
	e.logger.Debug("evolutionary search finished: outcome=%s generations=%d tested=%d best=%.4f",
		outcome, rs.Generations, rs.TestedConcepts, rs.BestQuality)
	return ports.SearchResult{Outcome: outcome, Stats: rs}
}

// rankStable orders the population by descending fitness with a canonical
// tiebreak so breeding order is deterministic
func rankStable(pop []individual) {
	sort.SliceStable(pop, func(i, j int) bool {
		if pop[i].fitness != pop[j].fitness {
			return pop[i].fitness > pop[j].fitness
		}
		return pop[i].canonical < pop[j].canonical
	})
}
