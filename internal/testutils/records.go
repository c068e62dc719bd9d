package testutils

import "math/rand/v2"

// Pairs returns n key/value pairs with sequential keys starting at 0 and
// pseudo-random values in [1, 999999] drawn from seed.
func Pairs(n int, seed uint64) (keys, values []uint64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	keys = make([]uint64, n)
	values = make([]uint64, n)
	for i := range n {
		keys[i] = uint64(i)
		values[i] = 1 + rng.Uint64N(999999)
	}
	return keys, values
}
