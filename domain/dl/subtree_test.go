package dl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtreesPreOrder(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")
	e := Conjoin(a, NewSomeValuesFrom("family:hasChild", b))

	subs := Subtrees(e)
	require.Len(t, subs, 4)
	assert.Equal(t, KindIntersection, subs[0].Kind())
	assert.Equal(t, KindClass, subs[1].Kind())
	assert.Equal(t, KindSomeValuesFrom, subs[2].Kind())
	assert.Equal(t, KindClass, subs[3].Kind())

	assert.Equal(t, 4, NodeCount(e))
}

func TestReplaceSubtree(t *testing.T) {
	a := NewClass("family:A")
	b := NewClass("family:B")
	c := NewClass("family:C")
	e := Conjoin(a, NewSomeValuesFrom("family:hasChild", b))

	// replace the filler (pre-order index 3)
	out, err := ReplaceSubtree(e, 3, c)
	require.NoError(t, err)
	assert.Equal(t, "A ⊓ (∃ hasChild.C)", Render(out))

	// replace the whole restriction (index 2)
	out, err = ReplaceSubtree(e, 2, c)
	require.NoError(t, err)
	assert.Equal(t, "A ⊓ C", Render(out))

	// index 0 replaces the root
	out, err = ReplaceSubtree(e, 0, c)
	require.NoError(t, err)
	assert.Equal(t, "C", Render(out))

	// original untouched
	assert.Equal(t, "A ⊓ (∃ hasChild.B)", Render(e))
}

func TestReplaceSubtreeOutOfRange(t *testing.T) {
	a := NewClass("family:A")

	_, err := ReplaceSubtree(a, 1, Thing)
	assert.Error(t, err)
	_, err = ReplaceSubtree(a, -1, Thing)
	assert.Error(t, err)
}
