package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed values so selection can be checked step by step
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func seed(v uint64) *uint64 {
	return &v
}

func TestWeightedSample_RouletteSelection(t *testing.T) {
	t.Parallel()

	population := []int{10, 20, 30}
	weights := []float64{1, 2, 3}

	tests := []struct {
		name  string
		draws []float64
		want  []int
	}{
		{name: "draw inside second slot", draws: []float64{0.4}, want: []int{20}},
		{name: "exact boundary goes to earlier item", draws: []float64{1.0 / 6.0}, want: []int{10}},
		{name: "zero draw picks first item", draws: []float64{0}, want: []int{10}},
		{name: "top of range picks last item", draws: []float64{0.999}, want: []int{30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rng := &scriptedSource{floats: tt.draws}
			assert.Equal(t, tt.want, WeightedSample(rng, population, weights, 1))
		})
	}
}

func TestWeightedSample_RemovesSelectedItems(t *testing.T) {
	t.Parallel()

	// 0.99 always lands on the last remaining item
	rng := &scriptedSource{floats: []float64{0.99, 0.99, 0.99}}
	got := WeightedSample(rng, []int{1, 2, 3}, []float64{1, 1, 1}, 3)

	assert.Equal(t, []int{3, 2, 1}, got)
}

func TestWeightedSample_ZeroTotalWeightIsUniform(t *testing.T) {
	t.Parallel()

	rng := &scriptedSource{ints: []int{2, 0}}
	got := WeightedSample(rng, []int{5, 6, 7, 8}, []float64{0, 0, 0, 0}, 2)

	assert.Equal(t, []int{7, 5}, got)
}

func TestWeightedSample_KLargerThanPopulation(t *testing.T) {
	t.Parallel()

	rng := NewRandomSource(seed(7))
	population := []int{4, 8, 15, 16, 23, 42}
	got := WeightedSample(rng, population, []float64{1, 1, 1, 1, 1, 1}, 10)

	assert.Len(t, got, len(population))
	assert.ElementsMatch(t, population, got)
}

func TestWeightedSample_NonPositiveK(t *testing.T) {
	t.Parallel()

	rng := NewRandomSource(seed(1))
	assert.Empty(t, WeightedSample(rng, []int{1, 2}, []float64{1, 1}, 0))
	assert.Empty(t, WeightedSample(rng, []int{1, 2}, []float64{1, 1}, -3))
	assert.Empty(t, WeightedSample(rng, nil, nil, 2))
}

func TestWeightedSample_NeverRepeats(t *testing.T) {
	t.Parallel()

	population := make([]int, 90)
	weights := make([]float64, 90)
	for i := range population {
		population[i] = i + 1
		weights[i] = float64(i%7) + 0.5
	}

	for s := uint64(0); s < 200; s++ {
		got := WeightedSample(NewRandomSource(seed(s)), population, weights, 30)
		require.Len(t, got, 30)

		seen := make(map[int]bool)
		for _, n := range got {
			require.False(t, seen[n], "seed %d repeated %d", s, n)
			seen[n] = true
		}
	}
}

func TestWeightedSample_DoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	population := []int{1, 2, 3, 4}
	weights := []float64{4, 3, 2, 1}
	WeightedSample(NewRandomSource(seed(3)), population, weights, 3)

	assert.Equal(t, []int{1, 2, 3, 4}, population)
	assert.Equal(t, []float64{4, 3, 2, 1}, weights)
}

func TestWeightedSample_FollowsWeights(t *testing.T) {
	t.Parallel()

	rng := NewRandomSource(seed(99))
	trials := 10000
	heavy := 0
	for i := 0; i < trials; i++ {
		got := WeightedSample(rng, []int{1, 2, 3, 4}, []float64{1000, 1, 1, 1}, 1)
		if got[0] == 1 {
			heavy++
		}
	}

	// Expected share is 1000/1003
	assert.Greater(t, float64(heavy)/float64(trials), 0.99)
}

func TestWeightedSample_MismatchedLengthsPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		WeightedSample(NewRandomSource(seed(1)), []int{1, 2, 3}, []float64{1, 1}, 1)
	})
}

func TestWeightedSample_SeededIsReproducible(t *testing.T) {
	t.Parallel()

	population := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	weights := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	first := WeightedSample(NewRandomSource(seed(2024)), population, weights, 5)
	second := WeightedSample(NewRandomSource(seed(2024)), population, weights, 5)

	assert.Equal(t, first, second)
}
