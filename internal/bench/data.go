package bench

import (
	"math/rand/v2"

	"github.com/holmberd/go-partition"
)

const maxValue = 999999

// Generate returns size records with sequential keys and values drawn
// uniformly from [1, 999999]. Values are never 0, which partitioners read
// as an empty slot. The same seed always yields the same records.
func Generate(size int, seed uint64) []partition.Record {
	rng := rand.New(rand.NewPCG(seed, seed))
	data := make([]partition.Record, size)
	for i := range data {
		data[i] = partition.Record{
			Key:   uint64(i),
			Value: 1 + rng.Uint64N(maxValue),
		}
	}
	return data
}
