package mcts

// ApplyKey keys the apply-move cache: one entry per (state, move) pair.
type ApplyKey[S StateLike, M MoveLike] struct {
	State S
	Move  M
}

// Eval is the terminal evaluation of a state. Terminal == false means the
// game goes on and Score carries no meaning.
type Eval struct {
	Score    Result
	Terminal bool
}

// Game is the contract a game must implement for the engine to search it.
// All methods must be pure with respect to the passed state - the engine
// never mutates a state in place and assumes equal states behave equally.
// Illegal moves or other contract violations are programmer error in the
// implementation, the engine does not recover from them.
type Game[S StateLike, M MoveLike] interface {
	// Every legal move in 'state'. Must be finite, and for a terminal
	// state must return no moves.
	AvailableMoves(state S) []M

	// Apply 'move' to 'state' and return the resulting state. The cache
	// is owned by the engine, the game decides whether to consult it.
	ApplyMove(state S, move M, cache CacheLike[ApplyKey[S, M], S]) S

	// Terminal evaluation of 'state' in [0, 1], from the perspective
	// player's point of view. Eval.Terminal == false means non-terminal.
	Evaluate(state S, cache CacheLike[S, Eval]) Eval

	// The player whose turn 'state' represents
	CurrentPlayer(state S) Player

	// The fixed player all results are scored for
	PerspectivePlayer() Player
}
