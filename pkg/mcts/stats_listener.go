package mcts

type SearchLine[M MoveLike] struct {
	BestMove M
	Moves    []M
	Eval     float64
	Terminal bool
	Draw     bool
}

type ListenerTreeStats[M MoveLike] struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	Lines      []SearchLine[M]
	StopReason StopReason
}

// Convert the tree state to a 'ListenerTreeStats' struct
func toListenerStats[S StateLike, M MoveLike](m *MCTS[S, M]) ListenerTreeStats[M] {
	pv := m.MultiPv(BestChildMostVisits)
	lines := make([]SearchLine[M], len(pv))
	for i := range pv {
		lines[i] = SearchLine[M]{
			BestMove: pv[i].Move,
			Moves:    pv[i].Pv,
			Eval:     pv[i].Eval,
			Terminal: pv[i].Terminal,
			Draw:     pv[i].Draw,
		}
	}

	return ListenerTreeStats[M]{
		Lines:      lines,
		Maxdepth:   m.MaxDepth(),
		Cycles:     m.Cycles(),
		TimeMs:     int(m.Limiter.Elapsed()),
		Cps:        m.Cps(),
		Size:       m.Size(),
		StopReason: m.Limiter.StopReason(),
	}
}

// Listener function callback, will receive current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[M MoveLike] func(ListenerTreeStats[M])

type StatsListener[M MoveLike] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[M]

	// called every N full iterations
	onCycle ListenerFunc[M]
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[M]
}

func NewStatsListener[M MoveLike]() StatsListener[M] {
	return StatsListener[M]{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[M]) OnDepth(onDepth ListenerFunc[M]) *StatsListener[M] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this will slow down the
// search because of the pv evaluation, so use it only for debugging
func (listener *StatsListener[M]) OnCycle(onCycle ListenerFunc[M]) *StatsListener[M] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[M]) SetCycleInterval(n int) *StatsListener[M] {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[M]) OnStop(onStop ListenerFunc[M]) *StatsListener[M] {
	listener.onStop = onStop
	return listener
}
