package search

import (
	"container/heap"

	"goconcept/domain/dl"
)

// node wraps one concept expression in the search tree. The frontier owns
// every live node; parent references only serve path reconstruction.
type node struct {
	expr      dl.Expression
	canonical string
	parent    *node
	quality   float64
	heuristic float64
	hExp      int // current refinement length horizon
	refCount  int // children generated so far
	seq       int // insertion order, the FIFO tiebreak
	index     int // heap position, maintained by the frontier
}

// frontier is a max-heap over heuristic score with FIFO tiebreaking, so the
// expansion order is deterministic for fixed weights and operator output.
type frontier struct {
	nodes []*node
	seq   int
}

func newFrontier() *frontier { return &frontier{} }

func (f *frontier) Len() int { return len(f.nodes) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.nodes[i], f.nodes[j]
	if a.heuristic != b.heuristic {
		return a.heuristic > b.heuristic
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) {
	f.nodes[i], f.nodes[j] = f.nodes[j], f.nodes[i]
	f.nodes[i].index = i
	f.nodes[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(f.nodes)
	f.nodes = append(f.nodes, n)
}

func (f *frontier) Pop() any {
	old := f.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	f.nodes = old[:len(old)-1]
	return n
}

func (f *frontier) push(n *node) {
	n.seq = f.seq
	f.seq++
	heap.Push(f, n)
}

func (f *frontier) pop() *node {
	return heap.Pop(f).(*node)
}

// reinsert returns an expanded node to the frontier with its updated score.
// The node keeps its original sequence number, so repeated expansion of the
// same node stays deterministic.
func (f *frontier) reinsert(n *node) {
	heap.Push(f, n)
}
