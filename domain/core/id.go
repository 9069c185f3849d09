package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one fit invocation of a learner.
	RunID ID
	// HypothesisID identifies a single hypothesis within a run.
	HypothesisID ID
	// IRI identifies an ontology entity: a named class, an object property,
	// or an individual. Stored in full or prefixed form; the core treats it
	// as opaque.
	IRI string
)

// String conversions for domain IDs
func (id RunID) String() string        { return ID(id).String() }
func (id HypothesisID) String() string { return ID(id).String() }
func (iri IRI) String() string         { return string(iri) }

// ShortForm strips the namespace from an IRI for display purposes.
// "http://example.com/family#Female" and "family:Female" both render as "Female".
func (iri IRI) ShortForm() string {
	s := string(iri)
	if i := strings.LastIndexAny(s, "#/:"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// NewRunID creates a fresh run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// NewHypothesisID creates a fresh hypothesis identifier
func NewHypothesisID() HypothesisID {
	return HypothesisID(NewID())
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseIRI parses a string into IRI
func ParseIRI(s string) (IRI, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("IRI cannot be empty")
	}
	return IRI(s), nil
}
