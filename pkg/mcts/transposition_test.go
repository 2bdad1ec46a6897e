package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashTableLookupInsert(t *testing.T) {
	table := NewHashTable[string]()

	_, ok := table.Lookup("a")
	assert.False(t, ok, "a miss is the ordinary case")

	table.Insert("a", 3)
	table.Insert("b", 7)
	require.Equal(t, 2, table.Len())

	id, ok := table.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, NodeID(3), id)

	id, ok = table.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, NodeID(7), id)
}

func TestHashTableDuplicateInsertPanics(t *testing.T) {
	table := NewHashTable[string]()
	table.Insert("a", 3)

	assert.Panics(t, func() { table.Insert("a", 4) },
		"two nodes for one state would break sharing")
}

func TestHashTableClear(t *testing.T) {
	table := NewHashTable[string]()
	table.Insert("a", 1)
	table.Insert("b", 2)

	table.Clear()
	assert.Zero(t, table.Len())
	_, ok := table.Lookup("a")
	assert.False(t, ok)

	// A cleared table accepts the states again
	table.Insert("a", 5)
	id, ok := table.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, NodeID(5), id)
}

func TestNoTableNeverRemembers(t *testing.T) {
	table := NewNoTable[string]()

	table.Insert("a", 3)
	table.Insert("a", 4) // no sharing invariant, no panic

	id, ok := table.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, NoNode, id)
	assert.Zero(t, table.Len())
}
