package mcts

import "fmt"

// TranspositionTable indexes discovered states by their tree node, so
// different move orders reaching the same state share one node and its
// statistics. Invariant: at most one node id per distinct state.
// A lookup miss is the ordinary case, not an error.
type TranspositionTable[S StateLike] interface {
	Lookup(state S) (NodeID, bool)

	// Insert registers the node for a state discovered for the first
	// time. Inserting a state twice corrupts the sharing invariant and
	// panics.
	Insert(state S, id NodeID)

	Len() int
	Clear()
}

// HashTable is the default map-backed transposition table
type HashTable[S StateLike] struct {
	ids map[S]NodeID
}

func NewHashTable[S StateLike]() *HashTable[S] {
	return &HashTable[S]{ids: make(map[S]NodeID)}
}

func (t *HashTable[S]) Lookup(state S) (NodeID, bool) {
	id, ok := t.ids[state]
	return id, ok
}

func (t *HashTable[S]) Insert(state S, id NodeID) {
	if existing, ok := t.ids[state]; ok {
		panic(fmt.Sprintf("mcts: duplicate transposition insert, state already mapped to node %d", existing))
	}
	t.ids[state] = id
}

func (t *HashTable[S]) Len() int {
	return len(t.ids)
}

func (t *HashTable[S]) Clear() {
	clear(t.ids)
}

// NoTable disables transposition sharing, every discovered state gets
// its own node
type NoTable[S StateLike] struct{}

func NewNoTable[S StateLike]() NoTable[S] {
	return NoTable[S]{}
}

func (NoTable[S]) Lookup(S) (NodeID, bool) { return NoNode, false }
func (NoTable[S]) Insert(S, NodeID)        {}
func (NoTable[S]) Len() int                { return 0 }
func (NoTable[S]) Clear()                  {}
