package mcts

// StateScorer evaluates a state with the engine's heuristic for the
// perspective player, memoized in the driver's heuristic cache.
type StateScorer[S StateLike] func(state S) Result

// SimulationPolicy governs early rollout termination. Cutoff reports
// whether the rollout should stop in 'state' after 'depth' applied moves,
// and the result to backpropagate if it does. A cutoff result is treated
// identically to a real terminal outcome.
type SimulationPolicy[S StateLike] interface {
	Cutoff(state S, depth int, score StateScorer[S]) (Result, bool)
}

// PlayToTerminal never cuts a rollout short, the playout runs to a true
// terminal state. The default.
type PlayToTerminal[S StateLike] struct{}

func NewPlayToTerminal[S StateLike]() PlayToTerminal[S] {
	return PlayToTerminal[S]{}
}

func (PlayToTerminal[S]) Cutoff(S, int, StateScorer[S]) (Result, bool) {
	return 0, false
}

// DepthCutoff stops a rollout after Depth moves and reports the heuristic
// value of the state reached there.
type DepthCutoff[S StateLike] struct {
	Depth int
}

func NewDepthCutoff[S StateLike](depth int) *DepthCutoff[S] {
	return &DepthCutoff[S]{Depth: max(1, depth)}
}

func (p *DepthCutoff[S]) Cutoff(state S, depth int, score StateScorer[S]) (Result, bool) {
	if depth < p.Depth {
		return 0, false
	}
	return score(state), true
}

// DepthBandCutoff stops a rollout after Depth moves, or earlier once the
// heuristic value leaves the confidence band (Lower, Upper) - a position
// judged clearly won or clearly lost is not worth playing out.
type DepthBandCutoff[S StateLike] struct {
	Depth int
	Lower float64
	Upper float64
}

func NewDepthBandCutoff[S StateLike](depth int, lower, upper float64) *DepthBandCutoff[S] {
	return &DepthBandCutoff[S]{Depth: max(1, depth), Lower: lower, Upper: upper}
}

func (p *DepthBandCutoff[S]) Cutoff(state S, depth int, score StateScorer[S]) (Result, bool) {
	value := score(state)
	if depth >= p.Depth || float64(value) < p.Lower || float64(value) > p.Upper {
		return value, true
	}
	return 0, false
}
