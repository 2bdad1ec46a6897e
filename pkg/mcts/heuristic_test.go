package mcts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortMovesDescending(t *testing.T) {
	r := rand.New(rand.NewSource(SeedGeneratorFn()))
	moves := []int{2, 9, 4, 7, 1, 8, 3}

	scored := SortMoves[int, int](scoreByMove{}, 0, moves, r)
	require.Len(t, scored, len(moves))

	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
	assert.Equal(t, 9, scored[0].Move)
	assert.Equal(t, 1, scored[len(scored)-1].Move)
}

type flatHeuristic struct{}

func (flatHeuristic) EvaluateState(int, Player) Result { return 0.5 }
func (flatHeuristic) EvaluateMove(int, int) float64    { return 1 }

func TestSortMovesBreaksTiesRandomly(t *testing.T) {
	moves := make([]int, 32)
	for i := range moves {
		moves[i] = i
	}

	order := func(seed int64) []int {
		scored := SortMoves[int, int](flatHeuristic{}, 0, moves, rand.New(rand.NewSource(seed)))
		out := make([]int, len(scored))
		for i := range scored {
			out[i] = scored[i].Move
		}
		return out
	}

	a, b := order(1), order(2)
	assert.ElementsMatch(t, a, b)
	assert.NotEqual(t, a, b, "equally scored moves must not keep the input order")
}

func TestNoHeuristicIsNeutral(t *testing.T) {
	h := NoHeuristic[int, int]{}
	assert.EqualValues(t, 0.5, h.EvaluateState(7, 0))
	assert.EqualValues(t, 0.5, h.EvaluateState(7, 1))
	assert.Zero(t, h.EvaluateMove(7, 3))
}
