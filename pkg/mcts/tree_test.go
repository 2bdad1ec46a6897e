package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *Tree[string, int] {
	return NewTree[string, int](Node[string, int]{State: "root", uct: newUctCache()})
}

func TestTreeStartsWithSingleRoot(t *testing.T) {
	tree := newTestTree()

	require.Equal(t, 1, tree.Len())
	assert.Equal(t, NodeID(0), tree.Root())
	assert.Equal(t, "root", tree.Node(tree.Root()).State)
	assert.Zero(t, tree.NumChildren(tree.Root()))
}

func TestTreeAddAndLink(t *testing.T) {
	tree := newTestTree()

	a := tree.Add(Node[string, int]{State: "a", uct: newUctCache()})
	b := tree.Add(Node[string, int]{State: "b", uct: newUctCache()})
	tree.Link(tree.Root(), 1, a)
	tree.Link(tree.Root(), 2, b)

	require.Equal(t, 3, tree.Len())
	require.Equal(t, 2, tree.NumChildren(tree.Root()))

	edges := tree.Children(tree.Root())
	assert.Equal(t, Edge[int]{Move: 1, Child: a}, edges[0])
	assert.Equal(t, Edge[int]{Move: 2, Child: b}, edges[1])
	assert.Empty(t, tree.Children(a))
}

func TestTreeSharedChild(t *testing.T) {
	// Two parents may link the same child, that is how transposition
	// sharing is represented
	tree := newTestTree()
	a := tree.Add(Node[string, int]{State: "a", uct: newUctCache()})
	b := tree.Add(Node[string, int]{State: "b", uct: newUctCache()})
	shared := tree.Add(Node[string, int]{State: "shared", uct: newUctCache()})
	tree.Link(tree.Root(), 1, a)
	tree.Link(tree.Root(), 2, b)
	tree.Link(a, 2, shared)
	tree.Link(b, 1, shared)

	require.Equal(t, 4, tree.Len())
	assert.Equal(t, shared, tree.Children(a)[0].Child)
	assert.Equal(t, shared, tree.Children(b)[0].Child)

	// Stats written through one parent are visible through the other
	tree.Node(tree.Children(a)[0].Child).Stats.Add(1)
	assert.EqualValues(t, 1, tree.Node(tree.Children(b)[0].Child).Stats.N())
}

func TestTreeSetRootRelocates(t *testing.T) {
	tree := newTestTree()
	a := tree.Add(Node[string, int]{State: "a", uct: newUctCache()})
	tree.Link(tree.Root(), 1, a)

	tree.SetRoot(a)
	assert.Equal(t, a, tree.Root())
	assert.Equal(t, 2, tree.Len(), "the pruned part stays in the arena")
}

func TestTreeReset(t *testing.T) {
	tree := newTestTree()
	for i := 0; i < 10; i++ {
		id := tree.Add(Node[string, int]{State: "x", uct: newUctCache()})
		tree.Link(tree.Root(), i, id)
	}
	require.Equal(t, 11, tree.Len())

	tree.Reset(Node[string, int]{State: "fresh", uct: newUctCache()})
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, NodeID(0), tree.Root())
	assert.Equal(t, "fresh", tree.Node(tree.Root()).State)
	assert.Zero(t, tree.NumChildren(tree.Root()))
}

func TestTreePanicsOnUnknownIds(t *testing.T) {
	tree := newTestTree()

	assert.Panics(t, func() { tree.Node(5) })
	assert.Panics(t, func() { tree.Node(NoNode) })
	assert.Panics(t, func() { tree.SetRoot(5) })
	assert.Panics(t, func() { tree.Link(tree.Root(), 1, 5) })
	assert.Panics(t, func() { tree.Link(5, 1, tree.Root()) })
}
