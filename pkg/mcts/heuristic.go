package mcts

import (
	"cmp"
	"math/rand"
	"slices"
)

// Heuristic biases expansion ordering and rollout cutoffs with domain
// knowledge. Implementations must be pure, the engine memoizes
// EvaluateState results in its own cache.
type Heuristic[S StateLike, M MoveLike] interface {
	// Value of 'state' in [0, 1] for the given perspective player
	EvaluateState(state S, perspective Player) Result

	// Relative preference of playing 'move' in 'state', higher is better.
	// Unlike EvaluateState this is not bound to [0, 1].
	EvaluateMove(state S, move M) float64
}

// A move paired with its heuristic score
type ScoredMove[M MoveLike] struct {
	Move  M
	Score float64
}

// SortMoves is the default move ordering: evaluate every move, shuffle to
// break ties fairly, then stable-sort descending by score.
func SortMoves[S StateLike, M MoveLike](h Heuristic[S, M], state S, moves []M, r *rand.Rand) []ScoredMove[M] {
	scored := make([]ScoredMove[M], len(moves))
	for i, move := range moves {
		scored[i] = ScoredMove[M]{Move: move, Score: h.EvaluateMove(state, move)}
	}

	r.Shuffle(len(scored), func(i, j int) {
		scored[i], scored[j] = scored[j], scored[i]
	})
	slices.SortStableFunc(scored, func(a, b ScoredMove[M]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return scored
}

// NoHeuristic carries no domain knowledge: neutral state value, no move
// preference. The default when no bias is desired.
type NoHeuristic[S StateLike, M MoveLike] struct{}

func (NoHeuristic[S, M]) EvaluateState(S, Player) Result { return 0.5 }
func (NoHeuristic[S, M]) EvaluateMove(S, M) float64      { return 0 }
