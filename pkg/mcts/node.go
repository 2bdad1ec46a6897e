package mcts

// uctCache memoizes the two UCT partials of a node. Both partials are
// dropped after a stats update, since the node's own visit count enters
// both terms; the exploration partial is additionally recomputed whenever
// the parent visit count changed. Perspective inversion is applied after
// the cache, so a transposition shared node scored from different parents
// stays consistent.
type uctCache struct {
	exploit     float64
	explore     float64
	exploitOk   bool
	exploreForN int32
}

func newUctCache() uctCache {
	return uctCache{exploreForN: -1}
}

// Called on every stats update. The exploration key is reset too: a
// shared node can gain visits through another parent and then be
// re-scored from a parent whose visit count matches the cached key.
func (c *uctCache) invalidate() {
	c.exploitOk = false
	c.exploreForN = -1
}

// Node is one arena entry: the state it represents, its search statistics,
// its terminal evaluation and its expansion state. Created once per
// distinct discovered state; under transposition sharing a node may be
// linked from more than one parent edge.
type Node[S StateLike, M MoveLike] struct {
	State S
	Stats NodeStats

	// Terminal evaluation, computed once at creation
	Eval Eval

	// The player whose turn State represents
	Player Player

	// Holds the remaining unexpanded moves in draw order, created lazily
	// on the first expansion of this node
	expander Expander[M]

	uct uctCache
}
