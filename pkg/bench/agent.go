package bench

import (
	"math/rand"

	"github.com/DrFlowerkick/go-mcts/pkg/mcts"
)

// Agent picks one move in a given state. Implementations may keep state
// between calls (the engine agent reuses its search tree), NewGame tells
// them a fresh match is starting.
type Agent[S mcts.StateLike, M mcts.MoveLike] interface {
	Name() string
	NewGame()
	PickMove(state S) M
}

// EngineAgent drives a search engine: relocate the root to the current
// state, search within the configured limits, play the robust child.
// Between its own turns the tree explored for the opponent's reply is
// reused through the root relocation.
type EngineAgent[S mcts.StateLike, M mcts.MoveLike] struct {
	engine *mcts.MCTS[S, M]
	name   string
}

func NewEngineAgent[S mcts.StateLike, M mcts.MoveLike](name string, engine *mcts.MCTS[S, M]) *EngineAgent[S, M] {
	return &EngineAgent[S, M]{engine: engine, name: name}
}

func (a *EngineAgent[S, M]) Name() string { return a.name }

func (a *EngineAgent[S, M]) Engine() *mcts.MCTS[S, M] { return a.engine }

func (a *EngineAgent[S, M]) NewGame() {}

func (a *EngineAgent[S, M]) PickMove(state S) M {
	a.engine.SetRoot(state)
	a.engine.Search()

	move, ok := a.engine.SelectMove()
	if !ok {
		panic("bench: engine found no move in a non-terminal state")
	}
	return move
}

// RandomAgent plays a uniformly random legal move, the usual baseline
// opponent.
type RandomAgent[S mcts.StateLike, M mcts.MoveLike] struct {
	game mcts.Game[S, M]
	rand *rand.Rand
}

func NewRandomAgent[S mcts.StateLike, M mcts.MoveLike](game mcts.Game[S, M]) *RandomAgent[S, M] {
	return &RandomAgent[S, M]{
		game: game,
		rand: rand.New(rand.NewSource(mcts.SeedGeneratorFn())),
	}
}

func (a *RandomAgent[S, M]) Name() string { return "random" }

func (a *RandomAgent[S, M]) NewGame() {}

func (a *RandomAgent[S, M]) PickMove(state S) M {
	moves := a.game.AvailableMoves(state)
	if len(moves) == 0 {
		panic("bench: no legal moves in a non-terminal state")
	}
	return moves[a.rand.Intn(len(moves))]
}
