package dl

import "fmt"

// Subtrees returns every subexpression of e in pre-order, the expression
// itself first. Genetic operators pick crossover and mutation points by
// index into this sequence.
func Subtrees(e Expression) []Expression {
	var out []Expression
	collect(e, &out)
	return out
}

func collect(e Expression, out *[]Expression) {
	*out = append(*out, e)
	for _, c := range e.children() {
		collect(c, out)
	}
}

// NodeCount is the number of expression nodes, i.e. len(Subtrees(e)) without
// materializing the slice.
func NodeCount(e Expression) int {
	n := 1
	for _, c := range e.children() {
		n += NodeCount(c)
	}
	return n
}

// ReplaceSubtree returns a new expression in which the subexpression at the
// given pre-order index is replaced by repl. Index 0 replaces the whole
// expression. The input trees are never mutated.
func ReplaceSubtree(e Expression, index int, repl Expression) (Expression, error) {
	if index < 0 || index >= NodeCount(e) {
		return nil, fmt.Errorf("subtree index %d out of range [0,%d)", index, NodeCount(e))
	}
	out, _ := replaceAt(e, index, repl)
	return out, nil
}

// replaceAt walks in pre-order; returns the rebuilt tree and the number of
// nodes consumed under e.
func replaceAt(e Expression, index int, repl Expression) (Expression, int) {
	if index == 0 {
		return repl, NodeCount(e)
	}
	consumed := 1
	ch := e.children()
	if len(ch) == 0 {
		return e, 1
	}
	rebuilt := make([]Expression, len(ch))
	replaced := false
	for i, c := range ch {
		if !replaced && index-consumed < NodeCount(c) && index-consumed >= 0 {
			nc, used := replaceAt(c, index-consumed, repl)
			rebuilt[i] = nc
			consumed += used
			replaced = true
			continue
		}
		rebuilt[i] = c
		consumed += NodeCount(c)
	}
	if !replaced {
		return e, consumed
	}
	return e.withChildren(rebuilt), consumed
}
