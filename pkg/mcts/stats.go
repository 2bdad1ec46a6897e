package mcts

// NodeStats holds the visit count and cumulated outcomes of a node.
// Outcomes are stored from the perspective player's point of view, so
// AvgQ() always lies in [0, 1] once the node has been visited.
// Single mutable owner, no synchronization here.
type NodeStats struct {
	q Result
	n int32
}

// Get number of visits to this node
func (stats *NodeStats) N() int32 {
	return stats.n
}

// Cumulated rewards/outcomes for this node
func (stats *NodeStats) Q() Result {
	return stats.q
}

// Average outcome for this node, only meaningful for N() > 0
func (stats *NodeStats) AvgQ() Result {
	return stats.q / Result(stats.n)
}

// Record one visit with the given outcome
func (stats *NodeStats) Add(result Result) {
	stats.n++
	stats.q += result
}
