package learning

import (
	"sort"
	"sync"

	"goconcept/domain/core"
	"goconcept/domain/dl"
)

// Hypothesis is a scored candidate concept expression. Immutable once
// produced; created by a search strategy, handed out by BestHypotheses.
type Hypothesis struct {
	ID         core.HypothesisID
	Expression dl.Expression
	Canonical  string // canonical form, the dedup key
	Quality    float64
	Length     int
	Instances  IndividualSet // retrieved instance set at evaluation time
	TruePos    int
	FalsePos   int
	FalseNeg   int
}

// NewHypothesis builds a hypothesis from an evaluated expression
func NewHypothesis(expr dl.Expression, quality float64, instances IndividualSet, tp, fp, fn int) Hypothesis {
	return Hypothesis{
		ID:         core.NewHypothesisID(),
		Expression: expr,
		Canonical:  dl.CanonicalForm(expr),
		Quality:    quality,
		Length:     expr.Length(),
		Instances:  instances,
		TruePos:    tp,
		FalsePos:   fp,
		FalseNeg:   fn,
	}
}

// Better reports whether h ranks above other: higher quality first, then
// shorter (simpler wins ties), then canonical order so ranking is total
// and deterministic.
func (h Hypothesis) Better(other Hypothesis) bool {
	if h.Quality != other.Quality {
		return h.Quality > other.Quality
	}
	if h.Length != other.Length {
		return h.Length < other.Length
	}
	return h.Canonical < other.Canonical
}

// HypothesisSet keeps the best-k hypotheses seen during one run, ordered by
// descending quality then ascending length, deduplicated by canonical form.
// Safe for concurrent MaybeAdd calls; both search strategies may evaluate
// candidates in parallel.
type HypothesisSet struct {
	mu    sync.Mutex
	limit int
	items []Hypothesis
	seen  map[string]struct{}
}

// NewHypothesisSet creates a bounded set with the given capacity. A capacity
// of zero yields a set that accepts nothing.
func NewHypothesisSet(limit int) *HypothesisSet {
	if limit < 0 {
		limit = 0
	}
	return &HypothesisSet{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
	}
}

// MaybeAdd inserts the hypothesis if it improves the set: not a duplicate by
// canonical form, and either the set has room or the hypothesis beats the
// current worst. Returns true if the set changed.
func (s *HypothesisSet) MaybeAdd(h Hypothesis) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit == 0 {
		return false
	}
	if _, dup := s.seen[h.Canonical]; dup {
		return false
	}
	if len(s.items) >= s.limit {
		worst := s.items[len(s.items)-1]
		if !h.Better(worst) {
			return false
		}
		delete(s.seen, worst.Canonical)
		s.items = s.items[:len(s.items)-1]
	}
	s.seen[h.Canonical] = struct{}{}
	idx := sort.Search(len(s.items), func(i int) bool { return h.Better(s.items[i]) })
	s.items = append(s.items, Hypothesis{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = h
	return true
}

// Best returns the top hypothesis, if any
func (s *HypothesisSet) Best() (Hypothesis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Hypothesis{}, false
	}
	return s.items[0], true
}

// Top returns up to n hypotheses in rank order
func (s *HypothesisSet) Top(n int) []Hypothesis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > len(s.items) {
		n = len(s.items)
	}
	out := make([]Hypothesis, n)
	copy(out, s.items[:n])
	return out
}

// Len returns the number of hypotheses held
func (s *HypothesisSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Fingerprint hashes the ordered canonical forms of the held hypotheses.
// Used by determinism tests and run manifests.
func (s *HypothesisSet) Fingerprint() core.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()
	forms := make([]string, len(s.items))
	for i, h := range s.items {
		forms[i] = h.Canonical
	}
	return core.RunFingerprint(forms)
}
