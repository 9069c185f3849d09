package dl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalFormSortsCommutativeOperands(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")

	ab := Conjoin(a, b)
	ba := Conjoin(b, a)

	assert.Equal(t, CanonicalForm(ab), CanonicalForm(ba))
	assert.True(t, StructuralEqual(ab, ba))
}

func TestNormalFormFlattensNesting(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")
	c := NewClass("family:C")

	nested := Conjoin(a, Conjoin(b, c))
	flat, err := NewIntersection(a, b, c)
	require.NoError(t, err)

	assert.True(t, StructuralEqual(nested, flat))
}

func TestNormalFormIdentityElements(t *testing.T) {
	a := NewClass("family:A")

	// ⊤ is removed from conjunctions, ⊥ from disjunctions
	assert.True(t, StructuralEqual(Conjoin(a, Thing), a))
	assert.True(t, StructuralEqual(Disjoin(a, Nothing), a))

	// absorbing elements collapse the whole expression
	assert.True(t, StructuralEqual(Conjoin(a, Nothing), Nothing))
	assert.True(t, StructuralEqual(Disjoin(a, Thing), Thing))
}

func TestNormalFormClashDetection(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")

	// A ⊓ ¬A → ⊥ even with extra operands
	clash, err := NewIntersection(a, b, NewComplement(a))
	require.NoError(t, err)
	assert.True(t, StructuralEqual(clash, Nothing))

	// A ⊔ ¬A → ⊤
	taut := Disjoin(a, NewComplement(a))
	assert.True(t, StructuralEqual(taut, Thing))
}

func TestNormalFormNegation(t *testing.T) {
	a := NewClass("family:A")

	assert.True(t, StructuralEqual(NewComplement(NewComplement(a)), a))
	assert.True(t, StructuralEqual(NewComplement(Thing), Nothing))
	assert.True(t, StructuralEqual(NewComplement(Nothing), Thing))
}

func TestNormalFormDuplicateOperands(t *testing.T) {
	a := NewClass("family:A")

	assert.True(t, StructuralEqual(Conjoin(a, a), a))
	assert.True(t, StructuralEqual(Disjoin(a, a), a))
}

func TestNormalFormIdempotent(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")

	exprs := []Expression{
		Thing,
		Nothing,
		a,
		NewComplement(Conjoin(a, Thing)),
		Conjoin(Disjoin(b, a), NewSomeValuesFrom("family:hasChild", Conjoin(a, a))),
		NewAllValuesFrom("family:hasChild", Disjoin(a, NewComplement(a))),
	}
	for _, e := range exprs {
		once := NormalForm(e)
		twice := NormalForm(once)
		assert.Equal(t, CanonicalKey(once), CanonicalKey(twice), "normal form must be idempotent for %s", Render(e))
		assert.True(t, StructuralEqual(e, once), "an expression equals its own normal form: %s", Render(e))
	}
}

func TestNormalFormNormalizesFillers(t *testing.T) {
	a := NewClass("family:A")

	e := NewSomeValuesFrom("family:hasChild", Conjoin(a, Thing))
	want := NewSomeValuesFrom("family:hasChild", a)
	assert.True(t, StructuralEqual(e, want))
}

func TestCanonicalKeyDistinguishesStructure(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")

	assert.NotEqual(t, CanonicalKey(Conjoin(a, b)), CanonicalKey(Disjoin(a, b)))
	assert.NotEqual(t,
		CanonicalKey(NewSomeValuesFrom("family:hasChild", a)),
		CanonicalKey(NewAllValuesFrom("family:hasChild", a)))
	assert.NotEqual(t,
		CanonicalKey(NewSomeValuesFrom("family:hasChild", a)),
		CanonicalKey(NewSomeValuesFrom("family:hasParent", a)))
}
