package mcts

// Core types shared across the engine

// Result of a playout, cutoff or terminal evaluation, ranges from [0, 1] -
// 0 being a loss for the perspective player, 1 a win, and 0.5 a draw or an
// intermediate heuristic value.
type Result float64

// Player identifies one side of the game. Games map their own player
// representation onto this type, the engine only ever compares players.
type Player uint8

// State snapshots must be comparable, since state equality drives the
// transposition lookups. Two equal states must describe the same position.
type StateLike comparable
type MoveLike comparable

// NodeID addresses a node inside the tree arena.
type NodeID int32

// NoNode is the null node id.
const NoNode NodeID = -1

type BestChildPolicy int
type SeedGeneratorFnType func() int64

const (
	// When choosing the best child, choose the one with most visits,
	// this is the go-to method for MCTS
	BestChildMostVisits BestChildPolicy = iota

	// Experimental: choose the child with the best win rate
	BestChildWinRate
)
