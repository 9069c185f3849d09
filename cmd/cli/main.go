package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goconcept/adapters/excel"
	"goconcept/adapters/memkb"
	"goconcept/adapters/rng"
	"goconcept/app"
	"goconcept/domain/core"
	"goconcept/domain/learning"
	"goconcept/domain/quality"
	"goconcept/internal"
	"goconcept/internal/config"
	"goconcept/internal/evolution"
	"goconcept/internal/report"
	"goconcept/internal/search"
	"goconcept/internal/testkit"
	"goconcept/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goconcept",
		Short: "Concept learning over description-logic knowledge bases",
	}

	rootCmd.AddCommand(
		newLearnCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLearnCmd() *cobra.Command {
	var (
		configFile string
		strategy   string
		metric     string
		seed       int64
		positives  []string
		negatives  []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "learn [ontology.json]",
		Short: "Learn a concept from an ontology file and labeled individuals",
		Long: `Learn a class expression separating positive from negative individuals.

Example: goconcept learn family.json --pos family:anna --pos family:betty --neg family:ed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Learner.Strategy = strategy
			}
			if metric != "" {
				cfg.Learner.Metric = metric
			}
			if seed != 0 {
				cfg.Evolve.Seed = seed
			}

			kb, err := memkb.FromFile(args[0])
			if err != nil {
				return err
			}
			problem, err := buildProblem(positives, negatives)
			if err != nil {
				return err
			}
			return runLearning(cmd.Context(), cfg, kb, problem, output)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&strategy, "strategy", "", "search strategy: heuristic or evolution")
	cmd.Flags().StringVar(&metric, "metric", "", "quality metric: f1, accuracy, precision, recall, jaccard")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the evolutionary engine")
	cmd.Flags().StringArrayVar(&positives, "pos", nil, "positive example IRI (repeatable)")
	cmd.Flags().StringArrayVar(&negatives, "neg", nil, "negative example IRI (repeatable)")
	cmd.Flags().StringVar(&output, "output", "", "write a report: .md or .xlsx path")
	_ = cmd.MarkFlagRequired("pos")
	_ = cmd.MarkFlagRequired("neg")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		configFile string
		strategy   string
		seed       int64
		output     string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in family benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Learner.Strategy = strategy
			}
			if seed != 0 {
				cfg.Evolve.Seed = seed
			}
			return runLearning(cmd.Context(), cfg, testkit.FamilyKB(), testkit.MotherProblem(), output)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&strategy, "strategy", "", "search strategy: heuristic or evolution")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the evolutionary engine")
	cmd.Flags().StringVar(&output, "output", "", "write a report: .md or .xlsx path")
	return cmd
}

func runLearning(ctx context.Context, cfg *config.Config, kb ports.KnowledgeBase, problem *learning.Problem, output string) error {
	logger := internal.NewDefaultLogger()
	metric, err := quality.ByName(cfg.Learner.Metric)
	if err != nil {
		return err
	}
	strategy, err := buildStrategy(cfg, logger)
	if err != nil {
		return err
	}

	learner := app.NewLearner(kb, strategy, metric, cfg.Learner.TopK, logger)
	learner.SetCacheSize(cfg.Learner.CacheSize)
	if err := learner.Fit(ctx, problem); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	summary, err := app.NewRunService(nil, logger).Summarize(learner)
	if err != nil {
		return err
	}

	fmt.Printf("outcome: %s  tested: %d  runtime: %dms\n",
		summary.Record.Outcome, summary.Record.TestedConcepts, summary.Record.RuntimeMs)
	for _, h := range summary.Hypotheses {
		fmt.Printf("%2d. %-50s quality=%.4f length=%d\n", h.Rank, h.Rendered, h.Quality, h.Length)
	}

	if output == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".md":
		return os.WriteFile(output, []byte(report.Markdown(summary)), 0o644)
	case ".xlsx":
		return excel.WriteSummary(summary, output)
	default:
		return fmt.Errorf("unsupported report format %q (use .md or .xlsx)", filepath.Ext(output))
	}
}

func buildStrategy(cfg *config.Config, logger *internal.Logger) (ports.SearchStrategy, error) {
	switch cfg.Learner.Strategy {
	case "heuristic":
		return search.NewEngine(search.Config{
			QualityThreshold: cfg.Learner.QualityThreshold,
			MaxNodes:         cfg.Search.MaxNodes,
			MaxRuntime:       cfg.Learner.MaxRuntime.Std(),
			TerminateOnGoal:  cfg.Search.TerminateOnGoal,
			MaxChildLength:   cfg.Search.MaxChildLength,
			Weights: search.Weights{
				GainBonus:         cfg.Search.GainBonus,
				ExpansionPenalty:  cfg.Search.ExpansionPenalty,
				RefinementPenalty: cfg.Search.RefinementPenalty,
				StartNodeBonus:    cfg.Search.StartNodeBonus,
			},
		}, logger), nil
	case "evolution":
		return evolution.NewEngine(evolution.Config{
			PopulationSize:   cfg.Evolve.PopulationSize,
			MaxGenerations:   cfg.Evolve.MaxGenerations,
			Elitism:          cfg.Evolve.Elitism,
			TournamentSize:   cfg.Evolve.TournamentSize,
			CrossoverRate:    cfg.Evolve.CrossoverRate,
			MutationRate:     cfg.Evolve.MutationRate,
			MaxDepth:         cfg.Evolve.MaxDepth,
			MaxLength:        cfg.Evolve.MaxLength,
			QualityThreshold: cfg.Learner.QualityThreshold,
			MaxRuntime:       cfg.Learner.MaxRuntime.Std(),
			Workers:          cfg.Evolve.Workers,
			Seed:             cfg.Evolve.Seed,
		}, rng.New(), logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Learner.Strategy)
	}
}

func buildProblem(positives, negatives []string) (*learning.Problem, error) {
	pos := make([]core.IRI, 0, len(positives))
	for _, p := range positives {
		iri, err := core.ParseIRI(p)
		if err != nil {
			return nil, err
		}
		pos = append(pos, iri)
	}
	neg := make([]core.IRI, 0, len(negatives))
	for _, n := range negatives {
		iri, err := core.ParseIRI(n)
		if err != nil {
			return nil, err
		}
		neg = append(neg, iri)
	}
	return learning.NewProblem(pos, neg)
}
