package mcts

// CacheLike is the memoization contract the engine injects into the game
// and heuristic collaborators. A miss is an ordinary empty result, not an
// error. The core stays cache-agnostic: collaborators decide what to
// memoize, the engine only owns the cache instances.
type CacheLike[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
	Len() int
	Clear()
}

// HashCache is a plain map-backed cache without eviction. Game trees
// revisit the same states constantly, so the hit rate pays for the memory.
type HashCache[K comparable, V any] struct {
	entries map[K]V
}

func NewHashCache[K comparable, V any]() *HashCache[K, V] {
	return &HashCache[K, V]{entries: make(map[K]V)}
}

func (c *HashCache[K, V]) Get(key K) (V, bool) {
	value, ok := c.entries[key]
	return value, ok
}

func (c *HashCache[K, V]) Put(key K, value V) {
	c.entries[key] = value
}

func (c *HashCache[K, V]) Len() int {
	return len(c.entries)
}

func (c *HashCache[K, V]) Clear() {
	clear(c.entries)
}

// NoCache stores nothing, every Get is a miss
type NoCache[K comparable, V any] struct{}

func NewNoCache[K comparable, V any]() NoCache[K, V] {
	return NoCache[K, V]{}
}

func (NoCache[K, V]) Get(K) (V, bool) {
	var zero V
	return zero, false
}

func (NoCache[K, V]) Put(K, V) {}
func (NoCache[K, V]) Len() int { return 0 }
func (NoCache[K, V]) Clear()   {}
