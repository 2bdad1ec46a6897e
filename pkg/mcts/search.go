package mcts

import (
	"github.com/rs/zerolog/log"
)

func (m *MCTS[S, M]) ResetListener() {
	m.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

func (m *MCTS[S, M]) StatsListener() *StatsListener[M] {
	return m.listener
}

func (m *MCTS[S, M]) SetListener(listener StatsListener[M]) {
	*m.listener = listener
}

func (m *MCTS[S, M]) invokeListener(f ListenerFunc[M]) {
	if f != nil {
		f(toListenerStats(m))
	}
}

// This function only resets the limiter and the counters,
// doesn't actually start the search
func (m *MCTS[S, M]) setupSearch() {
	m.Limiter.Reset()
	m.cps = 0
	m.cycles = 0
	m.maxdepth = 0
}

// Search loop-drives Iterate until the limiter stops it. The limits are
// checked strictly between cycles: a cycle that would overrun the
// deadline is never started, and a running cycle always completes, so no
// half-done result is ever backpropagated.
//
// The search is single-threaded. To cancel from another goroutine set a
// context on the Limiter before calling Search.
func (m *MCTS[S, M]) Search() {
	m.setupSearch()

	if m.tree.Node(m.tree.Root()).Eval.Terminal {
		m.invokeListener(m.listener.onStop)
		return
	}

	for m.Limiter.Ok(m.Size(), uint32(m.MaxDepth()), m.cycles) {
		m.Iterate()

		m.cps = m.cycles * 1000 / max(m.Limiter.Elapsed(), 1)
		if m.listener.onCycle != nil && m.cycles%uint32(max(m.listener.nCycles, 1)) == 0 {
			m.listener.onCycle(toListenerStats(m))
		}
	}

	m.Limiter.EvaluateStopReason(m.Size(), uint32(m.MaxDepth()), m.cycles)
	m.invokeListener(m.listener.onStop)

	log.Debug().
		Stringer("reason", m.Limiter.StopReason()).
		Int("cycles", m.Cycles()).
		Int("maxdepth", m.MaxDepth()).
		Uint32("cps", m.Cps()).
		Uint32("size", m.Size()).
		Msg("mcts: search finished")
}

// Stop the search
func (m *MCTS[S, M]) Stop() {
	m.Limiter.SetStop(true)
}
