package ports

import (
	"context"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/domain/learning"
)

// KnowledgeBase is the adapter contract the search engine consumes. All
// calls are read-only and must be safe for concurrent queries; the core
// never retains locks across them. An adapter failure surfaces as
// core.ErrKnowledgeBaseUnavailable through the retrieval layer and aborts
// the current run.
type KnowledgeBase interface {
	// IndividualsOf retrieves the instance set of a class expression
	IndividualsOf(ctx context.Context, expr dl.Expression) (learning.IndividualSet, error)

	// IsInstance checks whether an individual satisfies a class expression
	IsInstance(ctx context.Context, individual core.IRI, expr dl.Expression) (bool, error)

	// DirectSubConcepts lists the direct subclasses of a named class
	DirectSubConcepts(ctx context.Context, class core.IRI) ([]core.IRI, error)

	// PropertiesWithDomain lists object properties whose domain overlaps
	// the instances of the given expression
	PropertiesWithDomain(ctx context.Context, expr dl.Expression) ([]core.IRI, error)

	// IsSatisfiable checks whether a class expression can have instances
	IsSatisfiable(ctx context.Context, expr dl.Expression) (bool, error)

	// NamedClasses lists every atomic class declared in the ontology,
	// in a stable order
	NamedClasses(ctx context.Context) ([]core.IRI, error)

	// IsFunctional reports whether an object property is declared
	// functional (at most one filler per individual)
	IsFunctional(ctx context.Context, property core.IRI) (bool, error)
}
