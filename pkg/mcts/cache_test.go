package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCache(t *testing.T) {
	cache := NewHashCache[string, int]()

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Put("a", 1)
	cache.Put("b", 2)
	require.Equal(t, 2, cache.Len())

	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// Overwrite is allowed, unlike the transposition table
	cache.Put("a", 10)
	v, _ = cache.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Zero(t, cache.Len())
	_, ok = cache.Get("a")
	assert.False(t, ok)
}

func TestNoCache(t *testing.T) {
	cache := NewNoCache[string, int]()

	cache.Put("a", 1)
	v, ok := cache.Get("a")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Zero(t, cache.Len())
}

func TestHashCacheStructKeys(t *testing.T) {
	// The driver keys its apply cache on (state, move) pairs
	cache := NewHashCache[ApplyKey[string, int], string]()
	cache.Put(ApplyKey[string, int]{State: "s", Move: 3}, "next")

	v, ok := cache.Get(ApplyKey[string, int]{State: "s", Move: 3})
	require.True(t, ok)
	assert.Equal(t, "next", v)

	_, ok = cache.Get(ApplyKey[string, int]{State: "s", Move: 4})
	assert.False(t, ok)
}
