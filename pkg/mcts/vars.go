package mcts

import "lukechampine.com/frand"

// Seeds the random number generator of every new search tree, by default
// drawn from a fast cryptographic PRNG
var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return int64(frand.Uint64n(1<<63 - 1))
}

// Set custom seed generator function for random number generators in MCTS,
// useful for reproducible searches in tests
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
