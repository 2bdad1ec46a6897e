package mcts

import "math"

// UCTPolicy scores a child during selection. 'mover' is the player who
// chooses at the parent, i.e. the child's last mover, 'perspective' the
// fixed player node statistics are scored for.
type UCTPolicy[S StateLike, M MoveLike] interface {
	Score(node *Node[S, M], parentVisits int32, mover, perspective Player) float64
}

// exploitation is the raw average outcome of the node, perspective
// relative. The caller inverts it when the mover is the opponent.
func exploitation[S StateLike, M MoveLike](node *Node[S, M]) float64 {
	return float64(node.Stats.AvgQ())
}

func orient(raw float64, mover, perspective Player) float64 {
	if mover != perspective {
		return 1 - raw
	}
	return raw
}

// UCT is the plain UCB1 selection formula:
//
//	score = exploitation + C * sqrt(ln(parent_visits)/visits)
//
// An unvisited child scores +Inf, so every child gets one guaranteed
// visit before exploitation matters.
type UCT[S StateLike, M MoveLike] struct {
	ExplorationParam float64
}

func NewUCT[S StateLike, M MoveLike](explorationParam float64) *UCT[S, M] {
	return &UCT[S, M]{ExplorationParam: explorationParam}
}

func (u *UCT[S, M]) Score(node *Node[S, M], parentVisits int32, mover, perspective Player) float64 {
	visits := node.Stats.N()
	if visits == 0 {
		return math.Inf(1)
	}

	exploit := orient(exploitation(node), mover, perspective)
	explore := math.Sqrt(math.Log(float64(parentVisits)) / float64(visits))
	return exploit + u.ExplorationParam*explore
}

// CachedUCT memoizes both UCB1 partials in the node: both are valid
// until the node's stats change, and the exploration partial is
// additionally recomputed when the parent visit count changed.
// Decision-equivalent to the uncached UCT.
type CachedUCT[S StateLike, M MoveLike] struct {
	ExplorationParam float64
}

func NewCachedUCT[S StateLike, M MoveLike](explorationParam float64) *CachedUCT[S, M] {
	return &CachedUCT[S, M]{ExplorationParam: explorationParam}
}

func (u *CachedUCT[S, M]) Score(node *Node[S, M], parentVisits int32, mover, perspective Player) float64 {
	visits := node.Stats.N()
	if visits == 0 {
		return math.Inf(1)
	}

	cache := &node.uct
	if !cache.exploitOk {
		cache.exploit = exploitation(node)
		cache.exploitOk = true
	}
	if cache.exploreForN != parentVisits {
		cache.explore = math.Sqrt(math.Log(float64(parentVisits)) / float64(visits))
		cache.exploreForN = parentVisits
	}

	exploit := orient(cache.exploit, mover, perspective)
	return exploit + u.ExplorationParam*cache.explore
}
