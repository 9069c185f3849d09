package dl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goconcept/domain/core"
)

func TestLength(t *testing.T) {
	female := NewClass("family:Female")
	parent := NewClass("family:Parent")
	male := NewClass("family:Male")

	cases := []struct {
		name string
		expr Expression
		want int
	}{
		{"top", Thing, 1},
		{"bottom", Nothing, 1},
		{"class", female, 1},
		{"complement", NewComplement(male), 2},
		{"binary intersection", Conjoin(female, parent), 3},
		{"binary union", Disjoin(female, male), 3},
		{"existential", NewSomeValuesFrom("family:hasChild", Thing), 3},
		{"universal", NewAllValuesFrom("family:hasChild", female), 3},
		{"nested", Conjoin(female, NewSomeValuesFrom("family:hasChild", male)), 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.expr.Length())
		})
	}

	ternary, err := NewIntersection(female, parent, male)
	require.NoError(t, err)
	assert.Equal(t, 5, ternary.Length(), "n-ary conjunction counts n-1 constructors")

	card, err := NewCardinality("family:hasChild", CmpMin, 2, Thing)
	require.NoError(t, err)
	assert.Equal(t, 4, card.Length())
}

func TestDepth(t *testing.T) {
	female := NewClass("family:Female")

	assert.Equal(t, 1, Thing.Depth())
	assert.Equal(t, 1, female.Depth())
	assert.Equal(t, 2, NewComplement(female).Depth())
	assert.Equal(t, 2, Conjoin(female, NewClass("family:Male")).Depth())
	assert.Equal(t, 3, NewSomeValuesFrom("family:hasChild", Conjoin(female, Thing)).Depth())
}

func TestMalformedConstruction(t *testing.T) {
	female := NewClass("family:Female")

	_, err := NewIntersection(female)
	require.Error(t, err)
	assert.True(t, core.IsMalformedExpression(err))

	_, err = NewUnion()
	require.Error(t, err)
	assert.True(t, core.IsMalformedExpression(err))

	_, err = NewCardinality("family:hasChild", CmpMin, -1, Thing)
	require.Error(t, err)
	assert.True(t, core.IsMalformedExpression(err))
}

func TestImmutableOperands(t *testing.T) {
	female := NewClass("family:Female")
	parent := NewClass("family:Parent")

	e := Conjoin(female, parent)
	ops := e.Operands()
	ops[0] = Nothing

	// mutating the returned slice must not affect the expression
	assert.Equal(t, "cls:family:Female", CanonicalKey(e.Operands()[0]))
}

func TestRender(t *testing.T) {
	female := NewClass("http://example.com/family#Female")
	parent := NewClass("http://example.com/family#Parent")

	assert.Equal(t, "⊤", Render(Thing))
	assert.Equal(t, "⊥", Render(Nothing))
	assert.Equal(t, "Female ⊓ Parent", Render(Conjoin(female, parent)))
	assert.Equal(t, "¬Female", Render(NewComplement(female)))
	assert.Equal(t, "∃ hasChild.(Female ⊔ Parent)",
		Render(NewSomeValuesFrom("http://example.com/family#hasChild", Disjoin(female, parent))))
	assert.Equal(t, "∀ hasChild.⊤", Render(NewAllValuesFrom("http://example.com/family#hasChild", Thing)))

	card, err := NewCardinality("http://example.com/family#hasChild", CmpMin, 2, Thing)
	require.NoError(t, err)
	assert.Equal(t, "≥ 2 hasChild.⊤", Render(card))
}
