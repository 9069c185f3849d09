package evolution

import (
	"context"
	"math/rand"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/ports"
)

// Generator builds random concept expressions from a snapshot of the
// knowledge base vocabulary. All randomness comes from the caller's stream.
type Generator struct {
	classes    []core.IRI
	properties []core.IRI
	maxDepth   int
}

// NewGenerator snapshots the vocabulary once; the generator itself never
// touches the knowledge base again
func NewGenerator(ctx context.Context, kb ports.KnowledgeBase, maxDepth int) (*Generator, error) {
	classes, err := kb.NamedClasses(ctx)
	if err != nil {
		return nil, core.NewKnowledgeBaseError("list classes", err)
	}
	properties, err := kb.PropertiesWithDomain(ctx, dl.Thing)
	if err != nil {
		return nil, core.NewKnowledgeBaseError("list properties", err)
	}
	if maxDepth < 2 {
		maxDepth = 2
	}
	return &Generator{classes: classes, properties: properties, maxDepth: maxDepth}, nil
}

// Expression samples a random syntactically valid expression of bounded
// depth. Satisfiability is the caller's concern.
func (g *Generator) Expression(r *rand.Rand) dl.Expression {
	return g.grow(r, g.maxDepth)
}

// Subexpression samples a small tree for mutation points
func (g *Generator) Subexpression(r *rand.Rand) dl.Expression {
	return g.grow(r, 2)
}

func (g *Generator) grow(r *rand.Rand, depth int) dl.Expression {
	if depth <= 1 || len(g.classes) == 0 {
		return g.leaf(r)
	}
	roll := r.Float64()
	withProps := len(g.properties) > 0
	switch {
	case roll < 0.35:
		return g.leaf(r)
	case roll < 0.55:
		return dl.Conjoin(g.grow(r, depth-1), g.grow(r, depth-1))
	case roll < 0.70:
		return dl.Disjoin(g.grow(r, depth-1), g.grow(r, depth-1))
	case roll < 0.85 && withProps:
		return dl.NewSomeValuesFrom(g.property(r), g.grow(r, depth-1))
	case roll < 0.92 && withProps:
		return dl.NewAllValuesFrom(g.property(r), g.grow(r, depth-1))
	case roll < 0.96 && withProps:
		card, err := dl.NewCardinality(g.property(r), dl.CmpMin, 1+r.Intn(2), g.grow(r, depth-1))
		if err != nil {
			return g.leaf(r)
		}
		return card
	default:
		return dl.NewComplement(g.leaf(r))
	}
}

func (g *Generator) leaf(r *rand.Rand) dl.Expression {
	if len(g.classes) == 0 {
		return dl.Thing
	}
	return dl.NewClass(g.classes[r.Intn(len(g.classes))])
}

func (g *Generator) property(r *rand.Rand) core.IRI {
	return g.properties[r.Intn(len(g.properties))]
}
