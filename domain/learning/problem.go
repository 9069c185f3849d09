// Package learning holds the learning-problem and hypothesis value types
// shared by every search strategy.
package learning

import (
	"sort"

	"goconcept/domain/core"
)

// IndividualSet is a set of individual IRIs
type IndividualSet map[core.IRI]struct{}

// NewIndividualSet builds a set from a list of individual IRIs
func NewIndividualSet(individuals ...core.IRI) IndividualSet {
	s := make(IndividualSet, len(individuals))
	for _, ind := range individuals {
		s[ind] = struct{}{}
	}
	return s
}

// Contains reports set membership
func (s IndividualSet) Contains(ind core.IRI) bool {
	_, ok := s[ind]
	return ok
}

// Len returns the set size
func (s IndividualSet) Len() int { return len(s) }

// IntersectCount counts individuals present in both sets
func (s IndividualSet) IntersectCount(other IndividualSet) int {
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	n := 0
	for ind := range small {
		if large.Contains(ind) {
			n++
		}
	}
	return n
}

// Copy returns an independent copy of the set
func (s IndividualSet) Copy() IndividualSet {
	out := make(IndividualSet, len(s))
	for ind := range s {
		out[ind] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexicographic order, for deterministic output
func (s IndividualSet) Sorted() []core.IRI {
	out := make([]core.IRI, 0, len(s))
	for ind := range s {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Problem is a positive/negative partition of labeled individuals defining
// the target concept to discover. Well-formed problems have non-empty,
// disjoint example sets; NewProblem enforces both.
type Problem struct {
	positives IndividualSet
	negatives IndividualSet
}

// NewProblem validates and constructs a learning problem
func NewProblem(positives, negatives []core.IRI) (*Problem, error) {
	if len(positives) == 0 {
		return nil, core.ErrEmptyPositives
	}
	if len(negatives) == 0 {
		return nil, core.ErrEmptyNegatives
	}
	pos := NewIndividualSet(positives...)
	neg := NewIndividualSet(negatives...)
	for ind := range pos {
		if neg.Contains(ind) {
			return nil, core.ErrOverlappingExamples
		}
	}
	return &Problem{positives: pos, negatives: neg}, nil
}

// Positives returns the positive example set. Callers must not mutate it.
func (p *Problem) Positives() IndividualSet { return p.positives }

// Negatives returns the negative example set. Callers must not mutate it.
func (p *Problem) Negatives() IndividualSet { return p.negatives }
