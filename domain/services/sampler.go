package services

import (
	"fmt"
	"math/rand/v2"

	"lottogen/domain/interfaces"
)

// NewRandomSource returns a PCG-backed source. A nil seed gives a randomly seeded source;
// a fixed seed makes every draw sequence reproducible.
func NewRandomSource(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
}

// WeightedSample draws up to k distinct items from population without replacement.
// Each pick chooses among the remaining items with probability proportional to weight,
// using roulette-wheel selection where ties go to the earlier item. When the remaining
// weights sum to zero or less the pick is uniform. If k exceeds the population size the
// whole population is returned in selection order.
//
// population and weights must have the same length.
func WeightedSample(rng interfaces.RandomSource, population []int, weights []float64, k int) []int {
	if len(population) != len(weights) {
		panic(fmt.Sprintf("services: WeightedSample got %d items and %d weights", len(population), len(weights)))
	}
	if k > len(population) {
		k = len(population)
	}
	if k <= 0 {
		return []int{}
	}

	pool := append([]int(nil), population...)
	w := append([]float64(nil), weights...)

	chosen := make([]int, 0, k)
	for len(chosen) < k {
		idx := pickIndex(rng, w)
		chosen = append(chosen, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
		w = append(w[:idx], w[idx+1:]...)
	}
	return chosen
}

// pickIndex runs one roulette-wheel selection over a non-empty weight slice
func pickIndex(rng interfaces.RandomSource, weights []float64) int {
	var total float64
	for _, wi := range weights {
		total += wi
	}
	if total <= 0 {
		return rng.IntN(len(weights))
	}

	r := rng.Float64() * total
	var acc float64
	for i, wi := range weights {
		acc += wi
		if acc >= r {
			return i
		}
	}
	// Rounding can leave r a hair above the accumulated total
	return len(weights) - 1
}
