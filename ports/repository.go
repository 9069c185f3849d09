package ports

import (
	"context"

	"goconcept/domain/core"
)

// RunRecord summarizes one finished fit for persistence
type RunRecord struct {
	ID             core.RunID     `db:"id" json:"id"`
	Strategy       string         `db:"strategy" json:"strategy"`
	Metric         string         `db:"metric" json:"metric"`
	Outcome        string         `db:"outcome" json:"outcome"`
	Fingerprint    core.Hash      `db:"fingerprint" json:"fingerprint"`
	TestedConcepts int            `db:"tested_concepts" json:"tested_concepts"`
	RuntimeMs      int64          `db:"runtime_ms" json:"runtime_ms"`
	StartedAt      core.Timestamp `db:"started_at" json:"started_at"`
	FinishedAt     core.Timestamp `db:"finished_at" json:"finished_at"`
}

// StoredHypothesis is the persisted form of a ranked hypothesis. Expressions
// are stored rendered plus canonical; the core defines no on-disk expression
// format and never reads these back into the search.
type StoredHypothesis struct {
	ID           core.HypothesisID `db:"id" json:"id"`
	RunID        core.RunID        `db:"run_id" json:"run_id"`
	Rank         int               `db:"rank" json:"rank"`
	Rendered     string            `db:"rendered" json:"rendered"`
	Canonical    string            `db:"canonical" json:"canonical"`
	Quality      float64           `db:"quality" json:"quality"`
	Length       int               `db:"length" json:"length"`
	TruePos      int               `db:"true_pos" json:"true_pos"`
	FalsePos     int               `db:"false_pos" json:"false_pos"`
	FalseNeg     int               `db:"false_neg" json:"false_neg"`
	NumRetrieved int               `db:"num_retrieved" json:"num_retrieved"`
}

// HypothesisRepository persists finished runs and their ranked hypotheses.
// This is an external collaborator; the search core never depends on it.
type HypothesisRepository interface {
	SaveRun(ctx context.Context, run RunRecord, hypotheses []StoredHypothesis) error
	GetRun(ctx context.Context, id core.RunID) (*RunRecord, error)
	ListHypotheses(ctx context.Context, id core.RunID) ([]StoredHypothesis, error)
}
