// Package bench plays series of games between two agents, to measure the
// playing strength of a search configuration against a baseline.
package bench

import (
	"github.com/DrFlowerkick/go-mcts/pkg/mcts"
	"github.com/rs/zerolog/log"
)

type MatchResult int

const (
	Pl1Win MatchResult = 1
	Pl2Win MatchResult = -1
	Draw   MatchResult = 0
)

type ArenaStats struct {
	p1Wins           int
	p2Wins           int
	draws            int
	firstToMoveWins  int
	secondToMoveWins int
}

func (as *ArenaStats) Total() int {
	return as.p1Wins + as.p2Wins + as.draws
}

func (as *ArenaStats) P1Wins() int { return as.p1Wins }
func (as *ArenaStats) P2Wins() int { return as.p2Wins }
func (as *ArenaStats) Draws() int  { return as.draws }

func (as *ArenaStats) FirstToMoveWins() int  { return as.firstToMoveWins }
func (as *ArenaStats) SecondToMoveWins() int { return as.secondToMoveWins }

// Arena plays NGames between two agents from a fixed start position.
// Seats are swapped every game, so both agents play each side equally
// often. Single-threaded, like the engine itself.
type Arena[S mcts.StateLike, M mcts.MoveLike] struct {
	ArenaStats

	game    mcts.Game[S, M]
	start   S
	player1 Agent[S, M]
	player2 Agent[S, M]

	NGames   int
	listener ListenerLike[M]

	evalCache mcts.CacheLike[S, mcts.Eval]
}

func NewArena[S mcts.StateLike, M mcts.MoveLike](
	game mcts.Game[S, M], start S, player1, player2 Agent[S, M],
) *Arena[S, M] {
	return &Arena[S, M]{
		game:      game,
		start:     start,
		player1:   player1,
		player2:   player2,
		NGames:    100,
		listener:  DefaultListener[M]{},
		evalCache: mcts.NewHashCache[S, mcts.Eval](),
	}
}

func (a *Arena[S, M]) SetListener(listener ListenerLike[M]) *Arena[S, M] {
	a.listener = listener
	return a
}

// Run plays the whole series and returns the accumulated stats
func (a *Arena[S, M]) Run() *ArenaStats {
	a.ArenaStats = ArenaStats{}

	for i := 0; i < a.NGames; i++ {
		// Swap seats every other game
		first, second := a.player1, a.player2
		swapped := i%2 == 1
		if swapped {
			first, second = second, first
		}

		outcome := a.playGame(first, second)
		a.record(outcome, swapped)

		a.listener.OnFinishedGame(GameInfo[M]{
			GameNum: i + 1,
			NGames:  a.NGames,
			Moves:   outcome.moves,
			P1Wins:  a.p1Wins,
			P2Wins:  a.p2Wins,
			Draws:   a.draws,
			P1Name:  a.player1.Name(),
			P2Name:  a.player2.Name(),
		})
	}

	log.Debug().
		Str("player1", a.player1.Name()).
		Str("player2", a.player2.Name()).
		Int("games", a.Total()).
		Int("p1_wins", a.p1Wins).
		Int("p2_wins", a.p2Wins).
		Int("draws", a.draws).
		Msg("bench: arena finished")

	return &a.ArenaStats
}

// gameOutcome is the result of a single game, seat relative
type gameOutcome[M mcts.MoveLike] struct {
	firstWon  bool
	secondWon bool
	moves     []M
}

func (a *Arena[S, M]) playGame(first, second Agent[S, M]) gameOutcome[M] {
	first.NewGame()
	second.NewGame()

	state := a.start
	firstPlayer := a.game.CurrentPlayer(state)
	moves := make([]M, 0, 32)

	for {
		eval := a.game.Evaluate(state, a.evalCache)
		if eval.Terminal {
			perspective := a.game.PerspectivePlayer()
			firstIsPerspective := firstPlayer == perspective

			switch {
			case eval.Score == 0.5:
				return gameOutcome[M]{moves: moves}
			case eval.Score > 0.5:
				return gameOutcome[M]{firstWon: firstIsPerspective, secondWon: !firstIsPerspective, moves: moves}
			default:
				return gameOutcome[M]{firstWon: !firstIsPerspective, secondWon: firstIsPerspective, moves: moves}
			}
		}

		agent := second
		if a.game.CurrentPlayer(state) == firstPlayer {
			agent = first
		}
		move := agent.PickMove(state)
		moves = append(moves, move)
		state = a.game.ApplyMove(state, move, mcts.NoCache[mcts.ApplyKey[S, M], S]{})
	}
}

func (a *Arena[S, M]) record(outcome gameOutcome[M], swapped bool) {
	switch {
	case outcome.firstWon:
		a.firstToMoveWins++
		if swapped {
			a.p2Wins++
		} else {
			a.p1Wins++
		}
	case outcome.secondWon:
		a.secondToMoveWins++
		if swapped {
			a.p1Wins++
		} else {
			a.p2Wins++
		}
	default:
		a.draws++
	}
}
