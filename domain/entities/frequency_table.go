package entities

import "sort"

// FrequencyTable counts how many historical draws contained each number.
// Every number in [MinNumber, MaxNumber] has an entry, zero when never drawn.
// The table is never mutated after construction and is safe to share.
type FrequencyTable struct {
	counts [MaxNumber + 1]int64
	draws  int
}

// NumberFrequency is one row of a frequency table
type NumberFrequency struct {
	Number int   `json:"number"`
	Count  int64 `json:"count"`
}

// NewFrequencyTable accumulates the draws into a frequency table.
// The result does not depend on the order of the draws.
func NewFrequencyTable(draws []*Draw) *FrequencyTable {
	t := &FrequencyTable{draws: len(draws)}
	for _, d := range draws {
		for _, n := range d.Numbers {
			t.counts[n]++
		}
	}
	return t
}

// FrequencyTableFromCounts builds a table from explicit counts over the given
// number of draws. Keys outside the number range are ignored and negative
// counts become zero.
func FrequencyTableFromCounts(counts map[int]int64, draws int) *FrequencyTable {
	t := &FrequencyTable{draws: max(draws, 0)}
	for n, c := range counts {
		if !InRange(n) || c <= 0 {
			continue
		}
		t.counts[n] = c
	}
	return t
}

// Count returns the occurrences of n, zero for numbers outside the range
func (t *FrequencyTable) Count(n int) int64 {
	if !InRange(n) {
		return 0
	}
	return t.counts[n]
}

// Total returns the sum of all counts
func (t *FrequencyTable) Total() int64 {
	var total int64
	for n := MinNumber; n <= MaxNumber; n++ {
		total += t.counts[n]
	}
	return total
}

// DrawCount returns the number of draws folded into the table
func (t *FrequencyTable) DrawCount() int {
	return t.draws
}

// Rows returns every number with its count in ascending numeric order
func (t *FrequencyTable) Rows() []NumberFrequency {
	rows := make([]NumberFrequency, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		rows = append(rows, NumberFrequency{Number: n, Count: t.counts[n]})
	}
	return rows
}

// Counts returns a copy of the counts keyed by number
func (t *FrequencyTable) Counts() map[int]int64 {
	out := make(map[int]int64, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		out[n] = t.counts[n]
	}
	return out
}

// TopNumbers returns the k most frequent numbers, highest count first.
// Equal counts keep ascending numeric order. k is clamped to [0, MaxNumber].
func (t *FrequencyTable) TopNumbers(k int) []int {
	if k <= 0 {
		return []int{}
	}
	if k > MaxNumber {
		k = MaxNumber
	}

	numbers := make([]int, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		numbers = append(numbers, n)
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		return t.counts[numbers[i]] > t.counts[numbers[j]]
	})
	return numbers[:k]
}
