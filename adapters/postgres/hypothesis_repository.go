// Package postgres persists finished runs and their ranked hypotheses. The
// search core never touches this package; the run service calls it after a
// fit reaches a terminal state.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"goconcept/domain/core"
	"goconcept/ports"
)

// HypothesisRepositoryImpl implements HypothesisRepository for PostgreSQL
type HypothesisRepositoryImpl struct {
	db *sqlx.DB
}

// NewHypothesisRepository creates a new PostgreSQL hypothesis repository
func NewHypothesisRepository(db *sqlx.DB) ports.HypothesisRepository {
	return &HypothesisRepositoryImpl{db: db}
}

// Connect opens and pings a PostgreSQL connection
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the run tables if they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS learning_runs (
			id TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			metric TEXT NOT NULL,
			outcome TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			tested_concepts INT NOT NULL,
			runtime_ms BIGINT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_hypotheses (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES learning_runs(id) ON DELETE CASCADE,
			rank INT NOT NULL,
			rendered TEXT NOT NULL,
			canonical TEXT NOT NULL,
			quality DOUBLE PRECISION NOT NULL,
			length INT NOT NULL,
			true_pos INT NOT NULL,
			false_pos INT NOT NULL,
			false_neg INT NOT NULL,
			num_retrieved INT NOT NULL,
			UNIQUE (run_id, rank)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun writes the run row and its hypotheses in one transaction
func (r *HypothesisRepositoryImpl) SaveRun(ctx context.Context, run ports.RunRecord, hypotheses []ports.StoredHypothesis) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO learning_runs (
			id, strategy, metric, outcome, fingerprint,
			tested_concepts, runtime_ms, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Strategy, run.Metric, run.Outcome, run.Fingerprint,
		run.TestedConcepts, run.RuntimeMs, run.StartedAt.Time(), run.FinishedAt.Time())
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, h := range hypotheses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_hypotheses (
				id, run_id, rank, rendered, canonical, quality,
				length, true_pos, false_pos, false_neg, num_retrieved
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			h.ID, h.RunID, h.Rank, h.Rendered, h.Canonical, h.Quality,
			h.Length, h.TruePos, h.FalsePos, h.FalseNeg, h.NumRetrieved)
		if err != nil {
			return fmt.Errorf("insert hypothesis rank %d: %w", h.Rank, err)
		}
	}
	return tx.Commit()
}

// GetRun fetches one run record by ID
func (r *HypothesisRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*ports.RunRecord, error) {
	var run ports.RunRecord
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, strategy, metric, outcome, fingerprint,
		       tested_concepts, runtime_ms, started_at, finished_at
		FROM learning_runs WHERE id = $1`, id).StructScan(&run)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

// ListHypotheses fetches a run's hypotheses in rank order
func (r *HypothesisRepositoryImpl) ListHypotheses(ctx context.Context, id core.RunID) ([]ports.StoredHypothesis, error) {
	var out []ports.StoredHypothesis
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, run_id, rank, rendered, canonical, quality,
		       length, true_pos, false_pos, false_neg, num_retrieved
		FROM run_hypotheses WHERE run_id = $1 ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("list hypotheses for run %s: %w", id, err)
	}
	return out, nil
}
