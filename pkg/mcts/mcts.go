package mcts

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"unsafe"

	"github.com/rs/zerolog/log"
)

// MCTS drives the search: it owns the tree arena, the transposition
// table, the game/heuristic caches and the policies, and exposes the
// three operations an embedding game loop needs - SetRoot, Iterate and
// SelectMove. Exactly one mutable owner per tree: parallel searches need
// independent MCTS instances.
type MCTS[S StateLike, M MoveLike] struct {
	Limiter *Limiter

	game       Game[S, M]
	heuristic  Heuristic[S, M]
	selection  UCTPolicy[S, M]
	expansion  ExpansionPolicy[S, M]
	simulation SimulationPolicy[S]
	table      TranspositionTable[S]
	tree       *Tree[S, M]
	params     *Params

	applyCache     CacheLike[ApplyKey[S, M], S]
	evalCache      CacheLike[S, Eval]
	heuristicCache CacheLike[S, Result]

	listener *StatsListener[M]
	rand     *rand.Rand

	// Scratch for the node chain of the running cycle, root first
	path []NodeID

	maxdepth int32
	cycles   uint32
	cps      uint32
}

type Option[S StateLike, M MoveLike] func(*MCTS[S, M])

func WithParams[S StateLike, M MoveLike](params *Params) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if params != nil {
			m.params = params
		}
	}
}

func WithHeuristic[S StateLike, M MoveLike](h Heuristic[S, M]) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if h != nil {
			m.heuristic = h
		}
	}
}

func WithUCTPolicy[S StateLike, M MoveLike](policy UCTPolicy[S, M]) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if policy != nil {
			m.selection = policy
		}
	}
}

func WithExpansionPolicy[S StateLike, M MoveLike](policy ExpansionPolicy[S, M]) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if policy != nil {
			m.expansion = policy
		}
	}
}

func WithSimulationPolicy[S StateLike, M MoveLike](policy SimulationPolicy[S]) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if policy != nil {
			m.simulation = policy
		}
	}
}

func WithTranspositionTable[S StateLike, M MoveLike](table TranspositionTable[S]) Option[S, M] {
	return func(m *MCTS[S, M]) {
		if table != nil {
			m.table = table
		}
	}
}

// Disable memoization of the game collaborator calls
func WithoutGameCaches[S StateLike, M MoveLike]() Option[S, M] {
	return func(m *MCTS[S, M]) {
		m.applyCache = NoCache[ApplyKey[S, M], S]{}
		m.evalCache = NoCache[S, Eval]{}
		m.heuristicCache = NoCache[S, Result]{}
	}
}

func WithSeed[S StateLike, M MoveLike](seed int64) Option[S, M] {
	return func(m *MCTS[S, M]) {
		m.rand = rand.New(rand.NewSource(seed))
	}
}

// Create a new search tree rooted at 'rootState'. Defaults: caching UCT,
// expand-all expansion, play-to-terminal simulation, map transposition
// table, no heuristic bias.
func NewMCTS[S StateLike, M MoveLike](game Game[S, M], rootState S, options ...Option[S, M]) *MCTS[S, M] {
	m := &MCTS[S, M]{
		Limiter:        NewLimiter(uint32(unsafe.Sizeof(Node[S, M]{}))),
		game:           game,
		heuristic:      NoHeuristic[S, M]{},
		expansion:      ExpandAll[S, M]{},
		simulation:     PlayToTerminal[S]{},
		table:          NewHashTable[S](),
		params:         DefaultParams(),
		applyCache:     NewHashCache[ApplyKey[S, M], S](),
		evalCache:      NewHashCache[S, Eval](),
		heuristicCache: NewHashCache[S, Result](),
		listener:       &StatsListener[M]{nCycles: 1},
		rand:           rand.New(rand.NewSource(SeedGeneratorFn())),
	}
	for _, option := range options {
		option(m)
	}
	if m.selection == nil {
		m.selection = NewCachedUCT[S, M](m.params.ExplorationParam)
	}

	m.tree = NewTree(m.newNode(rootState))
	m.table.Insert(rootState, m.tree.Root())
	return m
}

func (m *MCTS[S, M]) Tree() *Tree[S, M] {
	return m.tree
}

func (m *MCTS[S, M]) Params() *Params {
	return m.params
}

func (m *MCTS[S, M]) Game() Game[S, M] {
	return m.game
}

// State the current root represents
func (m *MCTS[S, M]) RootState() S {
	return m.tree.Node(m.tree.Root()).State
}

// Number of nodes in the tree arena
func (m *MCTS[S, M]) Size() uint32 {
	return uint32(m.tree.Len())
}

// Approximation of the memory held by the tree structure
func (m *MCTS[S, M]) MemoryUsage() uint32 {
	return m.Size()*uint32(unsafe.Sizeof(Node[S, M]{})) + uint32(unsafe.Sizeof(MCTS[S, M]{}))
}

// Maximum selection depth reached during the search
func (m *MCTS[S, M]) MaxDepth() int {
	return int(m.maxdepth)
}

// Total number of Iterate calls since the last setup
func (m *MCTS[S, M]) Cycles() int {
	return int(m.cycles)
}

// Cycles per second, valid during/after a Search call
func (m *MCTS[S, M]) Cps() uint32 {
	return m.cps
}

func (m *MCTS[S, M]) SetLimits(limits *Limits) {
	m.Limiter.SetLimits(limits)
}

func (m *MCTS[S, M]) Limits() *Limits {
	return m.Limiter.Limits()
}

func (m *MCTS[S, M]) String() string {
	root := m.tree.Node(m.tree.Root())
	return fmt.Sprintf("MCTS={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, Root:{visits=%d, avg=%.3f, children=%d}}",
		m.Size(), m.MaxDepth(), m.Cps(), m.Cycles(),
		root.Stats.N(), float64(root.Stats.AvgQ()), m.tree.NumChildren(m.tree.Root()))
}

// newNode builds an arena entry for a freshly discovered state
func (m *MCTS[S, M]) newNode(state S) Node[S, M] {
	return Node[S, M]{
		State:  state,
		Eval:   m.game.Evaluate(state, m.evalCache),
		Player: m.game.CurrentPlayer(state),
		uct:    newUctCache(),
	}
}

func (m *MCTS[S, M]) applyMove(state S, move M) S {
	return m.game.ApplyMove(state, move, m.applyCache)
}

// scoreState is the StateScorer handed to the simulation policy,
// memoizing the heuristic state values
func (m *MCTS[S, M]) scoreState(state S) Result {
	if value, ok := m.heuristicCache.Get(state); ok {
		return value
	}
	value := m.heuristic.EvaluateState(state, m.game.PerspectivePlayer())
	m.heuristicCache.Put(state, value)
	return value
}

// SetRoot makes 'state' the root of the search, reusing the explored
// tree when possible: first by exact transposition lookup, then by
// scanning the children and grandchildren of the current root (the moves
// actually played since the last search), and only if both fail by
// discarding the tree and seeding a fresh one at 'state'. Returns false
// on the discard path.
func (m *MCTS[S, M]) SetRoot(state S) bool {
	root := m.tree.Root()
	if m.tree.Node(root).State == state {
		return true
	}

	if id, ok := m.table.Lookup(state); ok {
		m.relocateRoot(id)
		return true
	}

	// The table may be the no-op variant, scan the lines actually
	// reachable within two real turns
	for _, edge := range m.tree.Children(root) {
		if m.tree.Node(edge.Child).State == state {
			m.relocateRoot(edge.Child)
			return true
		}
		for _, grand := range m.tree.Children(edge.Child) {
			if m.tree.Node(grand.Child).State == state {
				m.relocateRoot(grand.Child)
				return true
			}
		}
	}

	log.Debug().Msg("mcts: state unreachable from current tree, resetting")
	m.resetTree(state)
	return false
}

func (m *MCTS[S, M]) relocateRoot(id NodeID) {
	m.tree.SetRoot(id)
	log.Debug().
		Int32("node", int32(id)).
		Int32("visits", m.tree.Node(id).Stats.N()).
		Msg("mcts: root relocated, tree reused")
}

// Discard the arena and the transposition table, keep the game caches -
// memoized apply/evaluate results stay valid across trees
func (m *MCTS[S, M]) resetTree(state S) {
	m.tree.Reset(m.newNode(state))
	m.table.Clear()
	m.table.Insert(state, m.tree.Root())
	m.maxdepth = 0
}

// Iterate runs one full selection-expansion-simulation-backpropagation
// cycle. Always runs to completion, adds exactly one visit to the root.
func (m *MCTS[S, M]) Iterate() {
	id := m.selectLeaf()
	id = m.expand(id)
	result := m.simulate(id)
	m.backpropagate(result)
	m.cycles++
}

// Selection: descend from the root while the node has children, stopping
// early where the expansion policy wants to widen. Descends into the
// UCT arg-max, recording the path.
func (m *MCTS[S, M]) selectLeaf() NodeID {
	perspective := m.game.PerspectivePlayer()
	id := m.tree.Root()
	m.path = append(m.path[:0], id)

	for {
		node := m.tree.Node(id)
		edges := m.tree.Children(id)
		if len(edges) == 0 || node.Eval.Terminal {
			return id
		}
		if node.expander != nil && node.expander.ShouldExpand(node.Stats.N(), len(edges)) {
			return id
		}

		parentVisits := node.Stats.N()
		mover := node.Player
		best := NoNode
		bestScore := math.Inf(-1)
		for _, edge := range edges {
			if score := m.selection.Score(m.tree.Node(edge.Child), parentVisits, mover, perspective); score > bestScore {
				bestScore = score
				best = edge.Child
			}
		}
		if best == NoNode {
			// Cannot happen for a well-formed game, and continuing
			// would corrupt the statistics
			panic("mcts: selection found no valid child")
		}

		id = best
		m.path = append(m.path, id)
	}
}

// Expansion: terminal and never-visited nodes are simulated directly.
// Otherwise ask the expansion policy which moves become children now,
// reusing transposition-table nodes where the resulting state is already
// known, and descend into the first linked child.
func (m *MCTS[S, M]) expand(id NodeID) NodeID {
	node := m.tree.Node(id)
	if node.Eval.Terminal || node.Stats.N() == 0 {
		return id
	}
	if !m.Limiter.Expand() {
		return id
	}

	if node.expander == nil {
		node.expander = m.expansion.NewExpander(node.State, m.game.AvailableMoves(node.State), m.rand)
	}

	// Note: Add below may grow the arena and invalidate node pointers,
	// work with copies from here on
	state := node.State
	visits := node.Stats.N()
	expander := node.expander

	first := NoNode
	for _, move := range expander.Next(visits, m.tree.NumChildren(id)) {
		next := m.applyMove(state, move)
		child, ok := m.table.Lookup(next)
		if !ok {
			child = m.tree.Add(m.newNode(next))
			m.table.Insert(next, child)
		}
		m.tree.Link(id, move, child)
		if first == NoNode {
			first = child
		}
	}

	if first == NoNode {
		return id
	}
	m.path = append(m.path, first)
	return first
}

// Simulation: play uniformly random legal moves on detached state until
// a terminal state or a policy cutoff, and report the result. Stored
// nodes are never touched here.
func (m *MCTS[S, M]) simulate(id NodeID) Result {
	node := m.tree.Node(id)
	if node.Eval.Terminal {
		return node.Eval.Score
	}

	state := node.State
	depth := 0
	for {
		if eval := m.game.Evaluate(state, m.evalCache); eval.Terminal {
			return eval.Score
		}
		if result, stop := m.simulation.Cutoff(state, depth, m.scoreState); stop {
			return result
		}

		moves := m.game.AvailableMoves(state)
		if len(moves) == 0 {
			panic("mcts: non-terminal state has no available moves")
		}
		state = m.applyMove(state, moves[m.rand.Intn(len(moves))])
		depth++
	}
}

// Backpropagation: walk the recorded path back to the root inclusive.
// Results are stored perspective-relative, selection reorients them per
// mover, so every node on the path gets the same increment.
func (m *MCTS[S, M]) backpropagate(result Result) {
	for i := len(m.path) - 1; i >= 0; i-- {
		node := m.tree.Node(m.path[i])
		node.Stats.Add(result)
		node.uct.invalidate()
	}

	if depth := int32(len(m.path) - 1); depth > m.maxdepth {
		m.maxdepth = depth
		m.invokeListener(m.listener.onDepth)
	}
}

// SelectMove picks the move to play: the root child with the highest
// visit count (robust child), ties broken by iteration order. Returns
// false if the root has no children yet.
func (m *MCTS[S, M]) SelectMove() (M, bool) {
	if edge, ok := m.BestChild(m.tree.Root(), BestChildMostVisits); ok {
		return edge.Move, true
	}
	var none M
	return none, false
}

// Current evaluation of the root position
func (m *MCTS[S, M]) RootScore() Result {
	if edge, ok := m.BestChild(m.tree.Root(), BestChildMostVisits); ok {
		child := m.tree.Node(edge.Child)
		if child.Stats.N() > 0 {
			return child.Stats.AvgQ()
		}
	}
	return Result(math.NaN())
}

// Return the best child edge of a node, based on the policy
func (m *MCTS[S, M]) BestChild(id NodeID, policy BestChildPolicy) (Edge[M], bool) {
	var best Edge[M]
	found := false

	switch policy {
	case BestChildMostVisits:
		// Unvisited children still count, so a barely searched node
		// reports the same child SelectMove would play
		maxVisits := int32(-1)
		for _, edge := range m.tree.Children(id) {
			if visits := m.tree.Node(edge.Child).Stats.N(); visits > maxVisits {
				maxVisits = visits
				best = edge
				found = true
			}
		}
	case BestChildWinRate:
		// The child should be sampled meaningfully before its win rate
		// can be trusted
		const minVisitsThreshold = 10

		bestWinRate := -1.0
		for _, edge := range m.tree.Children(id) {
			child := m.tree.Node(edge.Child)
			if child.Stats.N() <= minVisitsThreshold {
				continue
			}
			if winRate := float64(child.Stats.AvgQ()); winRate > bestWinRate {
				bestWinRate = winRate
				best = edge
				found = true
			}
		}
	}

	return best, found
}

type PvResult[M MoveLike] struct {
	Move     M
	Pv       []M
	Eval     float64
	Visits   int32
	Terminal bool
	Draw     bool
}

// Get the principal variation (ie. the best sequence of moves) starting
// with the given root child edge, based on the best child policy.
// Returns (moves, terminal, draw).
func (m *MCTS[S, M]) Pv(start Edge[M], policy BestChildPolicy) ([]M, bool, bool) {
	pv := make([]M, 0, m.MaxDepth()+1)
	pv = append(pv, start.Move)
	id := start.Child

	// The DAG is acyclic, but cap the walk at the arena size anyway
	for i, n := 0, m.tree.Len(); i < n; i++ {
		node := m.tree.Node(id)
		if node.Eval.Terminal {
			return pv, true, node.Eval.Score == 0.5
		}
		edge, ok := m.BestChild(id, policy)
		if !ok {
			break
		}
		pv = append(pv, edge.Move)
		id = edge.Child
	}
	return pv, false, false
}

// Returns the 'MultiPv' (see Limits) best move lines of the root
func (m *MCTS[S, M]) MultiPv(policy BestChildPolicy) []PvResult[M] {
	edges := slices.Clone(m.tree.Children(m.tree.Root()))
	slices.SortFunc(edges, func(a, b Edge[M]) int {
		return int(m.tree.Node(b.Child).Stats.N() - m.tree.Node(a.Child).Stats.N())
	})

	count := min(m.Limiter.Limits().MultiPv, len(edges))
	multipv := make([]PvResult[M], 0, count)
	for _, edge := range edges[:count] {
		child := m.tree.Node(edge.Child)
		pv, terminal, draw := m.Pv(edge, policy)
		eval := math.NaN()
		if child.Stats.N() > 0 {
			eval = float64(child.Stats.AvgQ())
		}
		multipv = append(multipv, PvResult[M]{
			Move:     edge.Move,
			Pv:       pv,
			Eval:     eval,
			Visits:   child.Stats.N(),
			Terminal: terminal,
			Draw:     draw,
		})
	}
	return multipv
}
