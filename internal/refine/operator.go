// Package refine implements the downward refinement operator: given a
// concept expression it produces the direct proper specializations reachable
// through the knowledge base's class hierarchy and property signatures.
// Unsatisfiable and over-length candidates are pruned silently; output order
// is deterministic for a fixed knowledge base.
package refine

import (
	"context"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/ports"
)

// DefaultMaxChildLength caps refinement length when no maximum is configured
const DefaultMaxChildLength = 12

// Operator produces downward refinements against one knowledge base
type Operator struct {
	kb             ports.KnowledgeBase
	maxChildLength int
}

// New builds an operator. maxChildLength <= 0 selects DefaultMaxChildLength.
func New(kb ports.KnowledgeBase, maxChildLength int) *Operator {
	if maxChildLength <= 0 {
		maxChildLength = DefaultMaxChildLength
	}
	return &Operator{kb: kb, maxChildLength: maxChildLength}
}

// MaxChildLength returns the configured length cap
func (o *Operator) MaxChildLength() int { return o.maxChildLength }

// Refine returns the proper specializations of expr whose length does not
// exceed min(maxLength, the operator's cap). maxLength <= 0 means the
// operator's cap alone applies. An empty result is not an error; it means
// the expression has no further candidates within the bound.
func (o *Operator) Refine(ctx context.Context, expr dl.Expression, maxLength int) ([]dl.Expression, error) {
	if expr == nil {
		return nil, core.NewMalformedExpressionError("nil", "cannot refine nil expression")
	}
	limit := o.maxChildLength
	if maxLength > 0 && maxLength < limit {
		limit = maxLength
	}

	raw, err := o.candidates(ctx, expr)
	if err != nil {
		return nil, err
	}

	origin := dl.CanonicalForm(expr)
	seen := map[string]struct{}{origin: {}}
	out := make([]dl.Expression, 0, len(raw))
	for _, c := range raw {
		n := dl.NormalForm(c)
		if n.Kind() == dl.KindBottom || n.Length() > limit {
			continue
		}
		key := dl.CanonicalKey(n)
		if _, dup := seen[key]; dup {
			continue
		}
		ok, err := o.kb.IsSatisfiable(ctx, n)
		if err != nil {
			return nil, core.NewKnowledgeBaseError("satisfiability check", err)
		}
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

func (o *Operator) candidates(ctx context.Context, expr dl.Expression) ([]dl.Expression, error) {
	switch x := expr.(type) {
	case *dl.Class:
		return o.refineClass(ctx, x)
	case *dl.Complement:
		return o.refineComplement(ctx, x)
	case *dl.Intersection:
		return o.refineNary(ctx, x.Operands(), func(ops ...dl.Expression) (dl.Expression, error) {
			return dl.NewIntersection(ops...)
		}, true)
	case *dl.Union:
		return o.refineNary(ctx, x.Operands(), func(ops ...dl.Expression) (dl.Expression, error) {
			return dl.NewUnion(ops...)
		}, false)
	case *dl.SomeValuesFrom:
		return o.refineSome(ctx, x)
	case *dl.AllValuesFrom:
		return o.refineAll(ctx, x)
	case *dl.Cardinality:
		return o.refineCardinality(ctx, x)
	default:
		if expr.Kind() == dl.KindTop {
			return o.refineTop(ctx)
		}
		return nil, nil // ⊥ has no specializations
	}
}

// refineTop yields every declared named class
func (o *Operator) refineTop(ctx context.Context) ([]dl.Expression, error) {
	classes, err := o.kb.NamedClasses(ctx)
	if err != nil {
		return nil, core.NewKnowledgeBaseError("list classes", err)
	}
	out := make([]dl.Expression, 0, len(classes))
	for _, c := range classes {
		out = append(out, dl.NewClass(c))
	}
	return out, nil
}

// refineClass yields the direct subclasses, plus the class conjoined with a
// fresh ∃p.⊤ / ∀p.⊤ for each property whose subjects overlap its instances
func (o *Operator) refineClass(ctx context.Context, x *dl.Class) ([]dl.Expression, error) {
	subs, err := o.kb.DirectSubConcepts(ctx, x.IRI())
	if err != nil {
		return nil, core.NewKnowledgeBaseError("subclass lookup", err)
	}
	out := make([]dl.Expression, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dl.NewClass(sub))
	}
	props, err := o.kb.PropertiesWithDomain(ctx, x)
	if err != nil {
		return nil, core.NewKnowledgeBaseError("property domain lookup", err)
	}
	for _, p := range props {
		out = append(out,
			dl.Conjoin(x, dl.NewSomeValuesFrom(p, dl.Thing)),
			dl.Conjoin(x, dl.NewAllValuesFrom(p, dl.Thing)),
		)
	}
	return out, nil
}

// refineComplement specializes ¬C by generalizing C: ¬D for each named
// superclass D of a named C. Complements of complex operands are terminal.
func (o *Operator) refineComplement(ctx context.Context, x *dl.Complement) ([]dl.Expression, error) {
	cls, ok := x.Operand().(*dl.Class)
	if !ok {
		return nil, nil
	}
	classes, err := o.kb.NamedClasses(ctx)
	if err != nil {
		return nil, core.NewKnowledgeBaseError("list classes", err)
	}
	var out []dl.Expression
	for _, c := range classes {
		subs, err := o.kb.DirectSubConcepts(ctx, c)
		if err != nil {
			return nil, core.NewKnowledgeBaseError("subclass lookup", err)
		}
		for _, sub := range subs {
			if sub == cls.IRI() {
				out = append(out, dl.NewComplement(dl.NewClass(c)))
				break
			}
		}
	}
	return out, nil
}

// refineNary refines exactly one operand per candidate. For conjunctions it
// additionally appends a fresh named-class conjunct; disjunctions skip that
// step because widening a union generalizes.
func (o *Operator) refineNary(ctx context.Context, ops []dl.Expression, rebuild func(...dl.Expression) (dl.Expression, error), conjunctive bool) ([]dl.Expression, error) {
	var out []dl.Expression
	for i, op := range ops {
		refined, err := o.candidates(ctx, op)
		if err != nil {
			return nil, err
		}
		for _, r := range refined {
			next := make([]dl.Expression, len(ops))
			copy(next, ops)
			next[i] = r
			e, err := rebuild(next...)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	if conjunctive {
		atoms, err := o.refineTop(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range atoms {
			next := make([]dl.Expression, len(ops), len(ops)+1)
			copy(next, ops)
			e, err := rebuild(append(next, a)...)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// refineSome recurses into the filler and, for functional properties,
// tightens the restriction into an exact-cardinality form
func (o *Operator) refineSome(ctx context.Context, x *dl.SomeValuesFrom) ([]dl.Expression, error) {
	fillers, err := o.candidates(ctx, x.Filler())
	if err != nil {
		return nil, err
	}
	out := make([]dl.Expression, 0, len(fillers)+1)
	for _, f := range fillers {
		out = append(out, dl.NewSomeValuesFrom(x.Property(), f))
	}
	functional, err := o.kb.IsFunctional(ctx, x.Property())
	if err != nil {
		return nil, core.NewKnowledgeBaseError("functional lookup", err)
	}
	if functional {
		card, err := dl.NewCardinality(x.Property(), dl.CmpExact, 1, x.Filler())
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

func (o *Operator) refineAll(ctx context.Context, x *dl.AllValuesFrom) ([]dl.Expression, error) {
	fillers, err := o.candidates(ctx, x.Filler())
	if err != nil {
		return nil, err
	}
	out := make([]dl.Expression, 0, len(fillers))
	for _, f := range fillers {
		out = append(out, dl.NewAllValuesFrom(x.Property(), f))
	}
	return out, nil
}

// refineCardinality tightens the bound where that specializes, and recurses
// into the filler for the lower-bound forms. Max-bound fillers are left
// alone: shrinking the filler of a ≤n restriction widens its extension.
func (o *Operator) refineCardinality(ctx context.Context, x *dl.Cardinality) ([]dl.Expression, error) {
	var out []dl.Expression
	switch x.Comparator() {
	case dl.CmpMin:
		tighter, err := dl.NewCardinality(x.Property(), dl.CmpMin, x.Bound()+1, x.Filler())
		if err != nil {
			return nil, err
		}
		out = append(out, tighter)
	case dl.CmpMax:
		if x.Bound() > 0 {
			tighter, err := dl.NewCardinality(x.Property(), dl.CmpMax, x.Bound()-1, x.Filler())
			if err != nil {
				return nil, err
			}
			out = append(out, tighter)
		}
		return out, nil
	}
	fillers, err := o.candidates(ctx, x.Filler())
	if err != nil {
		return nil, err
	}
	for _, f := range fillers {
		card, err := dl.NewCardinality(x.Property(), x.Comparator(), x.Bound(), f)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}
