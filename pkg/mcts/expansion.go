package mcts

import (
	"math"
	"math/rand"
)

// Expander is the per-node expansion state: it holds the node's remaining
// unexpanded moves in draw order. Created once by the policy when the node
// is first expanded.
type Expander[M MoveLike] interface {
	// ShouldExpand reports whether selection should stop at this node and
	// expand it, instead of comparing its existing children by UCT.
	ShouldExpand(visits int32, numChildren int) bool

	// Next returns the moves to turn into children on this visit,
	// draining them from the remaining set.
	Next(visits int32, numChildren int) []M

	// Number of unexpanded moves left
	Remaining() int
}

// ExpansionPolicy chooses which unexpanded moves of a node become
// children on a given visit.
type ExpansionPolicy[S StateLike, M MoveLike] interface {
	NewExpander(state S, moves []M, r *rand.Rand) Expander[M]
}

// ExpandAll turns every legal move into a child on the node's first
// expansion, in random order.
type ExpandAll[S StateLike, M MoveLike] struct{}

func NewExpandAll[S StateLike, M MoveLike]() ExpandAll[S, M] {
	return ExpandAll[S, M]{}
}

func (ExpandAll[S, M]) NewExpander(_ S, moves []M, r *rand.Rand) Expander[M] {
	queue := make([]M, len(moves))
	copy(queue, moves)
	r.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return &expandAllState[M]{queue: queue}
}

type expandAllState[M MoveLike] struct {
	queue []M
}

func (e *expandAllState[M]) ShouldExpand(int32, int) bool {
	return len(e.queue) > 0
}

func (e *expandAllState[M]) Next(int32, int) []M {
	moves := e.queue
	e.queue = nil
	return moves
}

func (e *expandAllState[M]) Remaining() int {
	return len(e.queue)
}

// ProgressiveWidening delays wide branching until a node is well sampled:
// at most AllowedChildren(visits) children exist at a time, the moves are
// shuffled once and drained in that order as the bound grows.
type ProgressiveWidening[S StateLike, M MoveLike] struct {
	Constant float64
	Exponent float64
}

func NewProgressiveWidening[S StateLike, M MoveLike](constant, exponent float64) *ProgressiveWidening[S, M] {
	return &ProgressiveWidening[S, M]{Constant: constant, Exponent: exponent}
}

// AllowedChildren is floor(C * visits^alpha) for visits > 0, else 1
func (p *ProgressiveWidening[S, M]) AllowedChildren(visits int32) int {
	if visits <= 0 {
		return 1
	}
	return int(math.Floor(p.Constant * math.Pow(float64(visits), p.Exponent)))
}

func (p *ProgressiveWidening[S, M]) NewExpander(_ S, moves []M, r *rand.Rand) Expander[M] {
	queue := make([]M, len(moves))
	copy(queue, moves)
	r.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return &wideningState[M]{queue: queue, allowed: p.AllowedChildren}
}

type wideningState[M MoveLike] struct {
	queue   []M
	allowed func(visits int32) int
}

func (e *wideningState[M]) ShouldExpand(visits int32, numChildren int) bool {
	return len(e.queue) > 0 && numChildren < e.allowed(visits)
}

func (e *wideningState[M]) Next(visits int32, numChildren int) []M {
	take := min(e.allowed(visits)-numChildren, len(e.queue))
	if take <= 0 {
		return nil
	}
	moves := e.queue[:take]
	e.queue = e.queue[take:]
	return moves
}

func (e *wideningState[M]) Remaining() int {
	return len(e.queue)
}

// HeuristicWidening combines the progressive widening bound with a
// decaying score gate: unexpanded moves are pre-sorted descending by
// heuristic score (ties broken by an initial shuffle) and only moves
// scoring at least Threshold(visits) are eligible - except that at least
// one move is always expanded, to guarantee forward progress.
type HeuristicWidening[S StateLike, M MoveLike] struct {
	Widening         ProgressiveWidening[S, M]
	InitialThreshold float64
	DecayRate        float64
	heuristic        Heuristic[S, M]
}

func NewHeuristicWidening[S StateLike, M MoveLike](
	constant, exponent, initialThreshold, decayRate float64,
	h Heuristic[S, M],
) *HeuristicWidening[S, M] {
	return &HeuristicWidening[S, M]{
		Widening:         ProgressiveWidening[S, M]{Constant: constant, Exponent: exponent},
		InitialThreshold: initialThreshold,
		DecayRate:        decayRate,
		heuristic:        h,
	}
}

// Threshold is the score gate at the given visit count:
// initial * decay^visits
func (p *HeuristicWidening[S, M]) Threshold(visits int32) float64 {
	return p.InitialThreshold * math.Pow(p.DecayRate, float64(visits))
}

func (p *HeuristicWidening[S, M]) NewExpander(state S, moves []M, r *rand.Rand) Expander[M] {
	return &heuristicWideningState[M]{
		queue:     SortMoves(p.heuristic, state, moves, r),
		allowed:   p.Widening.AllowedChildren,
		threshold: p.Threshold,
	}
}

type heuristicWideningState[M MoveLike] struct {
	queue     []ScoredMove[M]
	allowed   func(visits int32) int
	threshold func(visits int32) float64
}

func (e *heuristicWideningState[M]) ShouldExpand(visits int32, numChildren int) bool {
	return len(e.queue) > 0 && numChildren < e.allowed(visits)
}

func (e *heuristicWideningState[M]) Next(visits int32, numChildren int) []M {
	limit := min(e.allowed(visits)-numChildren, len(e.queue))
	if limit <= 0 {
		return nil
	}

	gate := e.threshold(visits)
	take := 1 // forward progress: the best remaining move always expands
	for take < limit && e.queue[take].Score >= gate {
		take++
	}

	moves := make([]M, take)
	for i := range moves {
		moves[i] = e.queue[i].Move
	}
	e.queue = e.queue[take:]
	return moves
}

func (e *heuristicWideningState[M]) Remaining() int {
	return len(e.queue)
}
