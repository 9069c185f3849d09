// Package dl implements the description-logic class expression model: an
// immutable tree of atomic classes, boolean connectives and property
// restrictions, with structural operations (length, depth, normal form,
// structural equality) used by the refinement operator and both search
// engines. Expressions are value objects; every transformation returns a
// new tree.
package dl

import (
	"fmt"

	"goconcept/domain/core"
)

// Kind identifies the constructor at the root of an expression tree
type Kind int

const (
	KindTop Kind = iota
	KindBottom
	KindClass
	KindComplement
	KindIntersection
	KindUnion
	KindSomeValuesFrom
	KindAllValuesFrom
	KindCardinality
)

// String returns a short constructor name, used in error messages
func (k Kind) String() string {
	switch k {
	case KindTop:
		return "Top"
	case KindBottom:
		return "Bottom"
	case KindClass:
		return "Class"
	case KindComplement:
		return "Complement"
	case KindIntersection:
		return "Intersection"
	case KindUnion:
		return "Union"
	case KindSomeValuesFrom:
		return "SomeValuesFrom"
	case KindAllValuesFrom:
		return "AllValuesFrom"
	case KindCardinality:
		return "Cardinality"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Comparator constrains a cardinality restriction
type Comparator int

const (
	CmpMin   Comparator = iota // ≥ n
	CmpMax                     // ≤ n
	CmpExact                   // = n
)

func (c Comparator) String() string {
	switch c {
	case CmpMin:
		return "≥"
	case CmpMax:
		return "≤"
	case CmpExact:
		return "="
	default:
		return "?"
	}
}

// Expression is an immutable description-logic class expression. The
// interface is sealed: the only implementations live in this package, which
// keeps normal-form and rendering type switches total.
type Expression interface {
	Kind() Kind

	// Length is the structural size: constructors plus named entities.
	// Used as the parsimony penalty during search.
	Length() int

	// Depth is the height of the expression tree; leaves have depth 1.
	Depth() int

	children() []Expression
	withChildren(ch []Expression) Expression
	canonicalTag() string
}

// ---- Top / Bottom ----

type topExpr struct{}
type bottomExpr struct{}

// Thing is the universal concept ⊤
var Thing Expression = topExpr{}

// Nothing is the empty concept ⊥
var Nothing Expression = bottomExpr{}

func (topExpr) Kind() Kind                            { return KindTop }
func (topExpr) Length() int                           { return 1 }
func (topExpr) Depth() int                            { return 1 }
func (topExpr) children() []Expression                { return nil }
func (e topExpr) withChildren([]Expression) Expression { return e }
func (topExpr) canonicalTag() string                  { return "top" }

func (bottomExpr) Kind() Kind                            { return KindBottom }
func (bottomExpr) Length() int                           { return 1 }
func (bottomExpr) Depth() int                            { return 1 }
func (bottomExpr) children() []Expression                { return nil }
func (e bottomExpr) withChildren([]Expression) Expression { return e }
func (bottomExpr) canonicalTag() string                  { return "bot" }

// ---- Named class ----

// Class is an atomic named concept
type Class struct {
	iri core.IRI
}

// NewClass creates an atomic class expression
func NewClass(iri core.IRI) *Class {
	return &Class{iri: iri}
}

// IRI returns the class identifier
func (c *Class) IRI() core.IRI { return c.iri }

func (c *Class) Kind() Kind             { return KindClass }
func (c *Class) Length() int            { return 1 }
func (c *Class) Depth() int             { return 1 }
func (c *Class) children() []Expression { return nil }
func (c *Class) withChildren([]Expression) Expression {
	return c
}
func (c *Class) canonicalTag() string { return "cls:" + string(c.iri) }

// ---- Complement ----

// Complement is the negation ¬C
type Complement struct {
	operand Expression
}

// NewComplement creates the negation of an expression
func NewComplement(operand Expression) *Complement {
	return &Complement{operand: operand}
}

// Operand returns the negated expression
func (c *Complement) Operand() Expression { return c.operand }

func (c *Complement) Kind() Kind             { return KindComplement }
func (c *Complement) Length() int            { return 1 + c.operand.Length() }
func (c *Complement) Depth() int             { return 1 + c.operand.Depth() }
func (c *Complement) children() []Expression { return []Expression{c.operand} }
func (c *Complement) withChildren(ch []Expression) Expression {
	return &Complement{operand: ch[0]}
}
func (c *Complement) canonicalTag() string { return "not" }

// ---- Intersection / Union ----

// Intersection is the conjunction C₁ ⊓ … ⊓ Cₙ, n ≥ 2
type Intersection struct {
	operands []Expression
}

// NewIntersection creates a conjunction. At least two operands are required.
func NewIntersection(operands ...Expression) (*Intersection, error) {
	if len(operands) < 2 {
		return nil, core.NewMalformedExpressionError("Intersection",
			fmt.Sprintf("requires at least 2 operands, got %d", len(operands)))
	}
	ops := make([]Expression, len(operands))
	copy(ops, operands)
	return &Intersection{operands: ops}, nil
}

// Conjoin builds a binary conjunction without the n-ary arity check
func Conjoin(a, b Expression) *Intersection {
	return &Intersection{operands: []Expression{a, b}}
}

// Operands returns a copy of the operand sequence
func (e *Intersection) Operands() []Expression {
	ops := make([]Expression, len(e.operands))
	copy(ops, e.operands)
	return ops
}

func (e *Intersection) Kind() Kind { return KindIntersection }
func (e *Intersection) Length() int {
	// An n-ary conjunction counts as n-1 binary constructors.
	n := len(e.operands) - 1
	for _, op := range e.operands {
		n += op.Length()
	}
	return n
}
func (e *Intersection) Depth() int             { return 1 + maxChildDepth(e.operands) }
func (e *Intersection) children() []Expression { return e.operands }
func (e *Intersection) withChildren(ch []Expression) Expression {
	return &Intersection{operands: ch}
}
func (e *Intersection) canonicalTag() string { return "and" }

// Union is the disjunction C₁ ⊔ … ⊔ Cₙ, n ≥ 2
type Union struct {
	operands []Expression
}

// NewUnion creates a disjunction. At least two operands are required.
func NewUnion(operands ...Expression) (*Union, error) {
	if len(operands) < 2 {
		return nil, core.NewMalformedExpressionError("Union",
			fmt.Sprintf("requires at least 2 operands, got %d", len(operands)))
	}
	ops := make([]Expression, len(operands))
	copy(ops, operands)
	return &Union{operands: ops}, nil
}

// Disjoin builds a binary disjunction without the n-ary arity check
func Disjoin(a, b Expression) *Union {
	return &Union{operands: []Expression{a, b}}
}

// Operands returns a copy of the operand sequence
func (e *Union) Operands() []Expression {
	ops := make([]Expression, len(e.operands))
	copy(ops, e.operands)
	return ops
}

func (e *Union) Kind() Kind { return KindUnion }
func (e *Union) Length() int {
	n := len(e.operands) - 1
	for _, op := range e.operands {
		n += op.Length()
	}
	return n
}
func (e *Union) Depth() int             { return 1 + maxChildDepth(e.operands) }
func (e *Union) children() []Expression { return e.operands }
func (e *Union) withChildren(ch []Expression) Expression {
	return &Union{operands: ch}
}
func (e *Union) canonicalTag() string { return "or" }

// ---- Property restrictions ----

// SomeValuesFrom is the existential restriction ∃r.C
type SomeValuesFrom struct {
	property core.IRI
	filler   Expression
}

// NewSomeValuesFrom creates an existential restriction
func NewSomeValuesFrom(property core.IRI, filler Expression) *SomeValuesFrom {
	return &SomeValuesFrom{property: property, filler: filler}
}

// Property returns the restricted object property
func (e *SomeValuesFrom) Property() core.IRI { return e.property }

// Filler returns the filler expression
func (e *SomeValuesFrom) Filler() Expression { return e.filler }

func (e *SomeValuesFrom) Kind() Kind             { return KindSomeValuesFrom }
func (e *SomeValuesFrom) Length() int            { return 2 + e.filler.Length() }
func (e *SomeValuesFrom) Depth() int             { return 1 + e.filler.Depth() }
func (e *SomeValuesFrom) children() []Expression { return []Expression{e.filler} }
func (e *SomeValuesFrom) withChildren(ch []Expression) Expression {
	return &SomeValuesFrom{property: e.property, filler: ch[0]}
}
func (e *SomeValuesFrom) canonicalTag() string { return "some:" + string(e.property) }

// AllValuesFrom is the universal restriction ∀r.C
type AllValuesFrom struct {
	property core.IRI
	filler   Expression
}

// NewAllValuesFrom creates a universal restriction
func NewAllValuesFrom(property core.IRI, filler Expression) *AllValuesFrom {
	return &AllValuesFrom{property: property, filler: filler}
}

// Property returns the restricted object property
func (e *AllValuesFrom) Property() core.IRI { return e.property }

// Filler returns the filler expression
func (e *AllValuesFrom) Filler() Expression { return e.filler }

func (e *AllValuesFrom) Kind() Kind             { return KindAllValuesFrom }
func (e *AllValuesFrom) Length() int            { return 2 + e.filler.Length() }
func (e *AllValuesFrom) Depth() int             { return 1 + e.filler.Depth() }
func (e *AllValuesFrom) children() []Expression { return []Expression{e.filler} }
func (e *AllValuesFrom) withChildren(ch []Expression) Expression {
	return &AllValuesFrom{property: e.property, filler: ch[0]}
}
func (e *AllValuesFrom) canonicalTag() string { return "all:" + string(e.property) }

// Cardinality is the qualified cardinality restriction {≥,≤,=} n r.C
type Cardinality struct {
	property   core.IRI
	n          int
	comparator Comparator
	filler     Expression
}

// NewCardinality creates a qualified cardinality restriction. The bound must
// be non-negative.
func NewCardinality(property core.IRI, comparator Comparator, n int, filler Expression) (*Cardinality, error) {
	if n < 0 {
		return nil, core.NewMalformedExpressionError("Cardinality",
			fmt.Sprintf("negative bound %d", n))
	}
	return &Cardinality{property: property, n: n, comparator: comparator, filler: filler}, nil
}

// Property returns the restricted object property
func (e *Cardinality) Property() core.IRI { return e.property }

// Bound returns the cardinality bound n
func (e *Cardinality) Bound() int { return e.n }

// Comparator returns the bound direction
func (e *Cardinality) Comparator() Comparator { return e.comparator }

// Filler returns the filler expression
func (e *Cardinality) Filler() Expression { return e.filler }

func (e *Cardinality) Kind() Kind             { return KindCardinality }
func (e *Cardinality) Length() int            { return 3 + e.filler.Length() }
func (e *Cardinality) Depth() int             { return 1 + e.filler.Depth() }
func (e *Cardinality) children() []Expression { return []Expression{e.filler} }
func (e *Cardinality) withChildren(ch []Expression) Expression {
	return &Cardinality{property: e.property, n: e.n, comparator: e.comparator, filler: ch[0]}
}
func (e *Cardinality) canonicalTag() string {
	return fmt.Sprintf("card:%d:%d:%s", int(e.comparator), e.n, e.property)
}

func maxChildDepth(ops []Expression) int {
	max := 0
	for _, op := range ops {
		if d := op.Depth(); d > max {
			max = d
		}
	}
	return max
}
