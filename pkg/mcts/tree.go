package mcts

import "fmt"

// Edge links a parent to a child through the move that produced it,
// owned by the parent.
type Edge[M MoveLike] struct {
	Move  M
	Child NodeID
}

// Tree owns every node of the search in an id-addressed arena: one
// growable vector of nodes, parent/child links stored as ids, never raw
// references. The arena grows monotonically within a search and is
// discarded wholesale only by Reset.
type Tree[S StateLike, M MoveLike] struct {
	nodes []Node[S, M]
	edges [][]Edge[M]
	root  NodeID
}

func NewTree[S StateLike, M MoveLike](root Node[S, M]) *Tree[S, M] {
	t := &Tree[S, M]{}
	t.Reset(root)
	return t
}

// Number of nodes in the arena, including ones no longer reachable
// from the current root
func (t *Tree[S, M]) Len() int {
	return len(t.nodes)
}

func (t *Tree[S, M]) Root() NodeID {
	return t.root
}

// Relocate the root. The pruned part of the arena stays allocated until
// the next Reset.
func (t *Tree[S, M]) SetRoot(id NodeID) {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("mcts: SetRoot with unknown node id %d", id))
	}
	t.root = id
}

// Node returns a pointer into the arena. The pointer is valid only until
// the next Add call, hold on to the id instead.
func (t *Tree[S, M]) Node(id NodeID) *Node[S, M] {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("mcts: unknown node id %d", id))
	}
	return &t.nodes[id]
}

// Add appends a node to the arena and returns its id
func (t *Tree[S, M]) Add(node Node[S, M]) NodeID {
	t.nodes = append(t.nodes, node)
	t.edges = append(t.edges, nil)
	return NodeID(len(t.nodes) - 1)
}

// Link records the edge (parent, move, child)
func (t *Tree[S, M]) Link(parent NodeID, move M, child NodeID) {
	if int(parent) >= len(t.nodes) || int(child) >= len(t.nodes) || parent < 0 || child < 0 {
		panic(fmt.Sprintf("mcts: Link with unknown node id %d -> %d", parent, child))
	}
	t.edges[parent] = append(t.edges[parent], Edge[M]{Move: move, Child: child})
}

// Children returns the edge list of a node, owned by the tree
func (t *Tree[S, M]) Children(id NodeID) []Edge[M] {
	return t.edges[id]
}

func (t *Tree[S, M]) NumChildren(id NodeID) int {
	return len(t.edges[id])
}

// Reset drops the whole arena and seeds a fresh single-node tree
func (t *Tree[S, M]) Reset(root Node[S, M]) {
	t.nodes = t.nodes[:0]
	t.edges = t.edges[:0]
	t.root = t.Add(root)
}
