package mcts

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test game: take-away Nim. A pile of stones, each move takes 1-3, whoever
// takes the last stone wins. Positions transpose heavily (different take
// orders reach the same pile), which exercises the transposition table,
// and perfect play is known: a pile size divisible by 4 is lost for the
// player to move.

const (
	nimMe  Player = 0
	nimFoe Player = 1
)

type nimState struct {
	pile int8
	turn Player
}

type nimGame struct{}

func (nimGame) AvailableMoves(s nimState) []int8 {
	if s.pile <= 0 {
		return nil
	}
	moves := make([]int8, 0, 3)
	for take := int8(1); take <= 3 && take <= s.pile; take++ {
		moves = append(moves, take)
	}
	return moves
}

func (nimGame) ApplyMove(s nimState, take int8, cache CacheLike[ApplyKey[nimState, int8], nimState]) nimState {
	key := ApplyKey[nimState, int8]{State: s, Move: take}
	if next, ok := cache.Get(key); ok {
		return next
	}
	next := nimState{pile: s.pile - take, turn: 1 - s.turn}
	cache.Put(key, next)
	return next
}

func (nimGame) Evaluate(s nimState, cache CacheLike[nimState, Eval]) Eval {
	if eval, ok := cache.Get(s); ok {
		return eval
	}
	var eval Eval
	if s.pile <= 0 {
		// The player to move faces an empty pile, the previous player
		// took the last stone and won
		if s.turn == nimMe {
			eval = Eval{Score: 0, Terminal: true}
		} else {
			eval = Eval{Score: 1, Terminal: true}
		}
	}
	cache.Put(s, eval)
	return eval
}

func (nimGame) CurrentPlayer(s nimState) Player { return s.turn }
func (nimGame) PerspectivePlayer() Player       { return nimMe }

func newNimMCTS(pile int8, options ...Option[nimState, int8]) *MCTS[nimState, int8] {
	return NewMCTS[nimState, int8](nimGame{}, nimState{pile: pile, turn: nimMe}, options...)
}

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", SeedGeneratorFn())

	os.Exit(m.Run())
}

func TestIterateAddsExactlyOneRootVisit(t *testing.T) {
	m := newNimMCTS(10)
	for i := 1; i <= 100; i++ {
		m.Iterate()
		require.EqualValues(t, i, m.Tree().Node(m.Tree().Root()).Stats.N(),
			"every Iterate call must add exactly one root visit")
	}
}

func TestSelectMoveReturnsRootChildMove(t *testing.T) {
	m := newNimMCTS(10)

	_, ok := m.SelectMove()
	require.False(t, ok, "no move before the root has children")

	for i := 0; i < 200; i++ {
		m.Iterate()
	}

	move, ok := m.SelectMove()
	require.True(t, ok)

	edges := m.Tree().Children(m.Tree().Root())
	moves := make([]int8, len(edges))
	for i, edge := range edges {
		moves[i] = edge.Move
	}
	require.Contains(t, moves, move, "SelectMove must return the move of an actual root child edge")
}

func TestSelectMoveIsRobustChild(t *testing.T) {
	m := newNimMCTS(9)
	for i := 0; i < 500; i++ {
		m.Iterate()
	}

	move, ok := m.SelectMove()
	require.True(t, ok)

	var moveVisits, maxVisits int32
	for _, edge := range m.Tree().Children(m.Tree().Root()) {
		visits := m.Tree().Node(edge.Child).Stats.N()
		maxVisits = max(maxVisits, visits)
		if edge.Move == move {
			moveVisits = visits
		}
	}
	require.Equal(t, maxVisits, moveVisits, "SelectMove must pick by visit count, not score")
}

func TestSetRootSameStateIsNoop(t *testing.T) {
	m := newNimMCTS(8)
	for i := 0; i < 100; i++ {
		m.Iterate()
	}

	size := m.Size()
	root := m.Tree().Root()
	require.True(t, m.SetRoot(m.RootState()))
	require.Equal(t, size, m.Size(), "tree must be unchanged")
	require.Equal(t, root, m.Tree().Root())
}

func TestSetRootReusesExploredTree(t *testing.T) {
	m := newNimMCTS(8)
	for i := 0; i < 500; i++ {
		m.Iterate()
	}

	// A state one real move ahead must be known to the search by now
	next := nimGame{}.ApplyMove(m.RootState(), 1, NoCache[ApplyKey[nimState, int8], nimState]{})
	size := m.Size()

	require.True(t, m.SetRoot(next), "explored state must reuse the tree")
	require.Equal(t, next, m.RootState())
	require.Equal(t, size, m.Size(), "relocation must not discard the arena")
	require.Positive(t, m.Tree().Node(m.Tree().Root()).Stats.N(),
		"the relocated root keeps its statistics")
}

func TestSetRootUnreachableStateResets(t *testing.T) {
	m := newNimMCTS(8)
	for i := 0; i < 200; i++ {
		m.Iterate()
	}

	unreachable := nimState{pile: 100, turn: nimFoe}
	require.False(t, m.SetRoot(unreachable), "unknown state must discard the tree")
	require.Equal(t, unreachable, m.RootState())
	require.EqualValues(t, 1, m.Size(), "fresh single-node tree expected")
	require.Equal(t, 1, m.table.Len(), "table reseeded with the new root only")
}

func TestTranspositionStatesStayUnique(t *testing.T) {
	m := newNimMCTS(12)
	for i := 0; i < 2000; i++ {
		m.Iterate()
	}

	table, ok := m.table.(*HashTable[nimState])
	require.True(t, ok)

	// Every table entry points at a node holding exactly that state
	for state, id := range table.ids {
		require.Equal(t, state, m.Tree().Node(id).State)
	}

	// And the arena holds no duplicate states, ie. every distinct state
	// got exactly one node
	seen := make(map[nimState]NodeID)
	for id := 0; id < m.Tree().Len(); id++ {
		state := m.Tree().Node(NodeID(id)).State
		if prev, dup := seen[state]; dup {
			t.Fatalf("states of nodes %d and %d are equal: %+v", prev, id, state)
		}
		seen[state] = NodeID(id)
	}
}

func TestIterateOnTerminalRoot(t *testing.T) {
	m := newNimMCTS(0)
	for i := 0; i < 10; i++ {
		m.Iterate()
	}
	require.EqualValues(t, 10, m.Tree().Node(m.Tree().Root()).Stats.N())
	require.EqualValues(t, 1, m.Size(), "terminal root must never expand")

	_, ok := m.SelectMove()
	require.False(t, ok)
}

func TestNimSearchFindsTheWinningMove(t *testing.T) {
	// Pile of 6, me to move: taking 2 leaves the lost pile of 4
	m := newNimMCTS(6)
	m.SetLimits(DefaultLimits().SetCycles(5000))
	m.Search()

	move, ok := m.SelectMove()
	require.True(t, ok)
	require.EqualValues(t, 2, move, "optimal nim move for pile 6 is taking 2")
	require.Equal(t, StopCycles, int(m.Limiter.StopReason())&StopCycles)
	require.EqualValues(t, 5000, m.Cycles())
}

func TestCachedUCTMatchesPlainUCTDecisions(t *testing.T) {
	// Identical seeds, identical game: if the caching policy is
	// decision-equivalent, both drivers build identical trees
	plain := newNimMCTS(11,
		WithSeed[nimState, int8](7),
		WithUCTPolicy[nimState, int8](NewUCT[nimState, int8](DefaultExplorationParam)))
	cached := newNimMCTS(11,
		WithSeed[nimState, int8](7),
		WithUCTPolicy[nimState, int8](NewCachedUCT[nimState, int8](DefaultExplorationParam)))

	for i := 0; i < 500; i++ {
		plain.Iterate()
		cached.Iterate()
	}

	require.Equal(t, plain.Size(), cached.Size())
	require.Equal(t, rootVisitCounts(plain), rootVisitCounts(cached),
		"caching must never change a selection decision")
}

func rootVisitCounts(m *MCTS[nimState, int8]) map[int8]int32 {
	visits := make(map[int8]int32)
	for _, edge := range m.Tree().Children(m.Tree().Root()) {
		visits[edge.Move] = m.Tree().Node(edge.Child).Stats.N()
	}
	return visits
}

func TestCachedUCTMatchesPlainUCTAcrossSeedsAndPiles(t *testing.T) {
	if testing.Short() {
		t.Skip("sweeps many full searches")
	}

	// Deeper piles reach transposition-shared nodes through many parents,
	// which is where a stale cached exploration term would diverge
	for _, pile := range []int8{9, 13, 17} {
		for seed := int64(0); seed < 20; seed++ {
			plain := newNimMCTS(pile,
				WithSeed[nimState, int8](seed),
				WithUCTPolicy[nimState, int8](NewUCT[nimState, int8](DefaultExplorationParam)))
			cached := newNimMCTS(pile,
				WithSeed[nimState, int8](seed),
				WithUCTPolicy[nimState, int8](NewCachedUCT[nimState, int8](DefaultExplorationParam)))

			for i := 0; i < 3000; i++ {
				plain.Iterate()
				cached.Iterate()
			}

			require.Equal(t, rootVisitCounts(plain), rootVisitCounts(cached),
				"pile=%d seed=%d", pile, seed)
		}
	}
}

func TestSearchHonorsCycleLimit(t *testing.T) {
	m := newNimMCTS(15)
	m.SetLimits(DefaultLimits().SetCycles(1234))
	m.Search()

	require.EqualValues(t, 1234, m.Cycles())
	require.EqualValues(t, 1234, m.Tree().Node(m.Tree().Root()).Stats.N())
}

func TestSearchListener(t *testing.T) {
	m := newNimMCTS(15)
	m.SetLimits(DefaultLimits().SetCycles(1000))

	cycleCalls := 0
	stopped := false
	listener := NewStatsListener[int8]()
	listener.
		OnCycle(func(stats ListenerTreeStats[int8]) {
			cycleCalls++
		}).
		SetCycleInterval(100).
		OnStop(func(stats ListenerTreeStats[int8]) {
			stopped = true
			require.Equal(t, 1000, stats.Cycles)
			require.NotZero(t, stats.StopReason&StopCycles)
			require.NotEmpty(t, stats.Lines)
		})
	m.SetListener(listener)

	m.Search()
	require.Equal(t, 10, cycleCalls)
	require.True(t, stopped)
}

func TestSelectMoveAgreesWithBestChildWhenUnvisited(t *testing.T) {
	m := newNimMCTS(8)

	// Link children by hand without ever visiting them
	root := m.Tree().Root()
	for _, take := range []int8{1, 2, 3} {
		next := nimGame{}.ApplyMove(m.RootState(), take, NoCache[ApplyKey[nimState, int8], nimState]{})
		id := m.Tree().Add(m.newNode(next))
		m.Tree().Link(root, take, id)
	}

	move, ok := m.SelectMove()
	require.True(t, ok, "a move must be reported even before any child is visited")

	edge, ok := m.BestChild(root, BestChildMostVisits)
	require.True(t, ok, "BestChild must agree with SelectMove on a barely searched tree")
	require.Equal(t, move, edge.Move)
	require.EqualValues(t, 1, move, "ties break by iteration order")
}

func TestMultiPv(t *testing.T) {
	m := newNimMCTS(9)
	m.SetLimits(DefaultLimits().SetCycles(2000).SetMultiPv(3))
	m.Search()

	lines := m.MultiPv(BestChildMostVisits)
	require.Len(t, lines, 3, "pile 9 has three root moves")
	for i := 1; i < len(lines); i++ {
		require.GreaterOrEqual(t, lines[i-1].Visits, lines[i].Visits,
			"lines must be sorted by visit count")
	}

	best, ok := m.SelectMove()
	require.True(t, ok)
	require.Equal(t, best, lines[0].Move)
	require.NotEmpty(t, lines[0].Pv)
	require.Equal(t, best, lines[0].Pv[0])
}

func TestNoTranspositionTableStillSearches(t *testing.T) {
	m := newNimMCTS(8, WithTranspositionTable[nimState, int8](NewNoTable[nimState]()))
	for i := 0; i < 500; i++ {
		m.Iterate()
	}

	move, ok := m.SelectMove()
	require.True(t, ok)
	require.Contains(t, []int8{1, 2, 3}, move)

	// Reuse across a real move still works through the child scan
	next := nimGame{}.ApplyMove(m.RootState(), move, NoCache[ApplyKey[nimState, int8], nimState]{})
	require.True(t, m.SetRoot(next))
	require.Equal(t, next, m.RootState())
}
