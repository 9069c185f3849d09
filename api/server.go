// Package api exposes the learner over HTTP: submit a learning problem with
// an inline ontology, then fetch the ranked hypotheses or a rendered report.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

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
	"goconcept/ports"
)

// Server wires the learner behind HTTP handlers. Finished runs are kept in
// memory for follow-up queries and optionally persisted via the repository.
type Server struct {
	cfg    *config.Config
	repo   ports.HypothesisRepository
	logger *internal.Logger

	mu   sync.RWMutex
	runs map[core.RunID]*app.RunSummary
}

// NewServer builds the server. repo may be nil.
func NewServer(cfg *config.Config, repo ports.HypothesisRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Server{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		runs:   make(map[core.RunID]*app.RunSummary),
	}
}

// Router builds the chi route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/runs", s.handleCreateRun)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/hypotheses", s.handleListHypotheses)
	r.Get("/runs/{id}/report", s.handleReport)
	return r
}

// RunRequest is the POST /runs payload
type RunRequest struct {
	Ontology  memkb.Document `json:"ontology"`
	Positives []string       `json:"positives"`
	Negatives []string       `json:"negatives"`
	Strategy  string         `json:"strategy,omitempty"` // defaults to configured strategy
	Metric    string         `json:"metric,omitempty"`
	Seed      int64          `json:"seed,omitempty"`
}

// RunResponse is the POST /runs result
type RunResponse struct {
	Run        ports.RunRecord          `json:"run"`
	Hypotheses []ports.StoredHypothesis `json:"hypotheses"`
	Stats      ports.RunStats           `json:"stats"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	kb, err := memkb.FromDocument(req.Ontology)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid ontology", err)
		return
	}
	problem, err := newProblem(req.Positives, req.Negatives)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid learning problem", err)
		return
	}
	metric, err := quality.ByName(firstNonEmpty(req.Metric, s.cfg.Learner.Metric))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid metric", err)
		return
	}
	strategy, err := s.buildStrategy(firstNonEmpty(req.Strategy, s.cfg.Learner.Strategy), req.Seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid strategy", err)
		return
	}

	learner := app.NewLearner(kb, strategy, metric, s.cfg.Learner.TopK, s.logger)
	learner.SetCacheSize(s.cfg.Learner.CacheSize)
	if err := learner.Fit(r.Context(), problem); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrInvalidLearningProblem) {
			status = http.StatusBadRequest
		}
		if errors.Is(err, core.ErrKnowledgeBaseUnavailable) {
			status = http.StatusBadGateway
		}
		s.writeError(w, status, "fit failed", err)
		return
	}

	svc := app.NewRunService(s.repo, s.logger)
	var summary *app.RunSummary
	if s.repo != nil {
		summary, err = svc.Persist(r.Context(), learner)
	} else {
		summary, err = svc.Summarize(learner)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "summarize run", err)
		return
	}

	s.mu.Lock()
	s.runs[summary.Record.ID] = summary
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, RunResponse{
		Run:        summary.Record,
		Hypotheses: summary.Hypotheses,
		Stats:      summary.Stats,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, summary.Record)
}

func (s *Server) handleListHypotheses(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, summary.Hypotheses)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.HTML(summary))
}

func (s *Server) buildStrategy(name string, seed int64) (ports.SearchStrategy, error) {
	switch name {
	case "heuristic":
		return search.NewEngine(search.Config{
			QualityThreshold: s.cfg.Learner.QualityThreshold,
			MaxNodes:         s.cfg.Search.MaxNodes,
			MaxRuntime:       s.cfg.Learner.MaxRuntime.Std(),
			TerminateOnGoal:  s.cfg.Search.TerminateOnGoal,
			MaxChildLength:   s.cfg.Search.MaxChildLength,
			Weights: search.Weights{
				GainBonus:         s.cfg.Search.GainBonus,
				ExpansionPenalty:  s.cfg.Search.ExpansionPenalty,
				RefinementPenalty: s.cfg.Search.RefinementPenalty,
				StartNodeBonus:    s.cfg.Search.StartNodeBonus,
			},
		}, s.logger), nil
	case "evolution":
		cfg := evolution.Config{
			PopulationSize:   s.cfg.Evolve.PopulationSize,
			MaxGenerations:   s.cfg.Evolve.MaxGenerations,
			Elitism:          s.cfg.Evolve.Elitism,
			TournamentSize:   s.cfg.Evolve.TournamentSize,
			CrossoverRate:    s.cfg.Evolve.CrossoverRate,
			MutationRate:     s.cfg.Evolve.MutationRate,
			MaxDepth:         s.cfg.Evolve.MaxDepth,
			MaxLength:        s.cfg.Evolve.MaxLength,
			QualityThreshold: s.cfg.Learner.QualityThreshold,
			MaxRuntime:       s.cfg.Learner.MaxRuntime.Std(),
			Workers:          s.cfg.Evolve.Workers,
			Seed:             seed,
		}
		if cfg.Seed == 0 {
			cfg.Seed = s.cfg.Evolve.Seed
		}
		return evolution.NewEngine(cfg, rng.New(), s.logger), nil
	default:
		return nil, errors.New("unknown strategy " + name)
	}
}

func (s *Server) lookup(id string) (*app.RunSummary, bool) {
	runID, err := core.ParseRunID(id)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.runs[runID]
	return summary, ok
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("%s: %v", message, err)
		message = message + ": " + err.Error()
	}
	s.writeJSON(w, status, map[string]string{"error": message})
}

func newProblem(positives, negatives []string) (*learning.Problem, error) {
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
