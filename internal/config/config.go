// Package config loads runtime configuration: environment variables first,
// optionally overlaid by a YAML file named via CONFIG_FILE or a CLI flag.
// File values win over environment values; built-in defaults fill the rest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"goconcept/internal/errors"
)

// Config is the complete application configuration
type Config struct {
	Learner  LearnerConfig  `yaml:"learner"`
	Search   SearchConfig   `yaml:"search"`
	Evolve   EvolveConfig   `yaml:"evolution"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Report   ReportConfig   `yaml:"report"`
}

// Duration wraps time.Duration so YAML values like "30s" parse naturally
type Duration time.Duration

// Std returns the underlying time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a duration string or a nanosecond integer
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(n)
	return nil
}

// LearnerConfig selects the strategy, metric and result bounds
type LearnerConfig struct {
	Strategy         string   `yaml:"strategy"` // "heuristic" or "evolution"
	Metric           string   `yaml:"metric"`
	TopK             int      `yaml:"top_k"`
	QualityThreshold float64  `yaml:"quality_threshold"`
	MaxRuntime       Duration `yaml:"max_runtime"`
	CacheSize        int      `yaml:"cache_size"`
}

// SearchConfig tunes the heuristic best-first engine
type SearchConfig struct {
	MaxNodes          int     `yaml:"max_nodes"`
	MaxChildLength    int     `yaml:"max_child_length"`
	TerminateOnGoal   bool    `yaml:"terminate_on_goal"`
	GainBonus         float64 `yaml:"gain_bonus"`
	ExpansionPenalty  float64 `yaml:"expansion_penalty"`
	RefinementPenalty float64 `yaml:"refinement_penalty"`
	StartNodeBonus    float64 `yaml:"start_node_bonus"`
}

// EvolveConfig tunes the evolutionary engine
type EvolveConfig struct {
	PopulationSize int     `yaml:"population_size"`
	MaxGenerations int     `yaml:"num_generations"`
	Elitism        int     `yaml:"elitism"`
	TournamentSize int     `yaml:"tournament_size"`
	CrossoverRate  float64 `yaml:"crossover_probability"`
	MutationRate   float64 `yaml:"mutation_probability"`
	MaxDepth       int     `yaml:"max_depth"`
	MaxLength      int     `yaml:"max_length"`
	Workers        int     `yaml:"workers"`
	Seed           int64   `yaml:"seed"`
}

// DatabaseConfig holds the optional run-persistence settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig holds the API server settings
type ServerConfig struct {
	Port string `yaml:"port"`
}

// ReportConfig holds report output settings
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configuration from the environment, then overlays the YAML
// file at path if non-empty (or $CONFIG_FILE when path is empty)
func Load(path string) (*Config, error) {
	cfg := fromEnv()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}
	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Learner: LearnerConfig{
			Strategy:         getEnvOrDefault("LEARNER_STRATEGY", "heuristic"),
			Metric:           getEnvOrDefault("LEARNER_METRIC", "f1"),
			TopK:             getEnvIntOrDefault("LEARNER_TOP_K", 10),
			QualityThreshold: getEnvFloatOrDefault("LEARNER_QUALITY_THRESHOLD", 1.0),
			MaxRuntime:       Duration(getEnvDurationOrDefault("LEARNER_MAX_RUNTIME", 30*time.Second)),
			CacheSize:        getEnvIntOrDefault("LEARNER_CACHE_SIZE", 0),
		},
		Search: SearchConfig{
			MaxNodes:          getEnvIntOrDefault("SEARCH_MAX_NODES", 2000),
			MaxChildLength:    getEnvIntOrDefault("SEARCH_MAX_CHILD_LENGTH", 12),
			TerminateOnGoal:   getEnvBoolOrDefault("SEARCH_TERMINATE_ON_GOAL", true),
			GainBonus:         getEnvFloatOrDefault("SEARCH_GAIN_BONUS", 0.3),
			ExpansionPenalty:  getEnvFloatOrDefault("SEARCH_EXPANSION_PENALTY", 0.1),
			RefinementPenalty: getEnvFloatOrDefault("SEARCH_REFINEMENT_PENALTY", 0.001),
			StartNodeBonus:    getEnvFloatOrDefault("SEARCH_START_NODE_BONUS", 0.1),
		},
		Evolve: EvolveConfig{
			PopulationSize: getEnvIntOrDefault("EVOLVE_POPULATION_SIZE", 64),
			MaxGenerations: getEnvIntOrDefault("EVOLVE_NUM_GENERATIONS", 100),
			Elitism:        getEnvIntOrDefault("EVOLVE_ELITISM", 2),
			TournamentSize: getEnvIntOrDefault("EVOLVE_TOURNAMENT_SIZE", 4),
			CrossoverRate:  getEnvFloatOrDefault("EVOLVE_CROSSOVER_PROBABILITY", 0.9),
			MutationRate:   getEnvFloatOrDefault("EVOLVE_MUTATION_PROBABILITY", 0.2),
			MaxDepth:       getEnvIntOrDefault("EVOLVE_MAX_DEPTH", 4),
			MaxLength:      getEnvIntOrDefault("EVOLVE_MAX_LENGTH", 15),
			Workers:        getEnvIntOrDefault("EVOLVE_WORKERS", 4),
			Seed:           int64(getEnvIntOrDefault("EVOLVE_SEED", 0)),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Report: ReportConfig{
			Dir: getEnvOrDefault("REPORT_DIR", "."),
		},
	}
}

func validate(cfg *Config) error {
	switch cfg.Learner.Strategy {
	case "heuristic", "evolution":
	default:
		return fmt.Errorf("unknown strategy %q", cfg.Learner.Strategy)
	}
	if cfg.Learner.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d", cfg.Learner.TopK)
	}
	if cfg.Learner.QualityThreshold <= 0 || cfg.Learner.QualityThreshold > 1 {
		return fmt.Errorf("quality_threshold must be in (0,1], got %g", cfg.Learner.QualityThreshold)
	}
	if cfg.Evolve.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", cfg.Evolve.PopulationSize)
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
