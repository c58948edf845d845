package assembly

import "math/rand/v2"

// Shuffle permutes items in place with a Fisher-Yates shuffle driven by a PCG
// source seeded from seed. Equal seeds yield equal permutations.
func Shuffle[T any](items []T, seed int64) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// NewSeed returns a non-zero seed from the runtime's random source.
func NewSeed() int64 {
	for {
		if seed := rand.Int64(); seed != 0 {
			return seed
		}
	}
}
