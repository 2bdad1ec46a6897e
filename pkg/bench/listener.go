package bench

import "github.com/DrFlowerkick/go-mcts/pkg/mcts"

// GameInfo is a progress snapshot handed to the listener after every
// finished game
type GameInfo[M mcts.MoveLike] struct {
	GameNum int
	NGames  int
	Moves   []M
	P1Wins  int
	P2Wins  int
	Draws   int
	P1Name  string
	P2Name  string
}

type ListenerLike[M mcts.MoveLike] interface {
	OnFinishedGame(info GameInfo[M])
}

// DefaultListener ignores all progress
type DefaultListener[M mcts.MoveLike] struct{}

func (DefaultListener[M]) OnFinishedGame(GameInfo[M]) {}

// FuncListener adapts a plain function to the listener interface
type FuncListener[M mcts.MoveLike] func(GameInfo[M])

func (f FuncListener[M]) OnFinishedGame(info GameInfo[M]) { f(info) }
