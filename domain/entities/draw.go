package entities

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// MinNumber is the lowest number that can be drawn
	MinNumber = 1
	// MaxNumber is the highest number that can be drawn
	MaxNumber = 90
	// NumbersPerDraw is the size of a draw and of a ticket
	NumbersPerDraw = 6
)

// ErrInvalidDraw is returned when a candidate draw breaks the six-distinct-numbers rule
var ErrInvalidDraw = errors.New("invalid draw")

// DrawKey identifies a draw by its sorted numbers
type DrawKey [NumbersPerDraw]int

// Draw represents one historical lottery result
type Draw struct {
	ID        int64               `db:"id"`
	Numbers   [NumbersPerDraw]int `db:"numbers"` // Always sorted ascending
	Year      int                 `db:"year"`    // Archive year the draw was read from
	Source    string              `db:"source"`  // Archive the draw was read from
	CreatedAt time.Time           `db:"created_at"`
}

// NewDraw validates the numbers and returns a draw with its numbers sorted.
// The slice must hold exactly six distinct numbers in [MinNumber, MaxNumber].
func NewDraw(numbers []int, year int, source string) (*Draw, error) {
	if len(numbers) != NumbersPerDraw {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidDraw, NumbersPerDraw, len(numbers))
	}

	var seen [MaxNumber + 1]bool
	var sorted [NumbersPerDraw]int
	for i, n := range numbers {
		if !InRange(n) {
			return nil, fmt.Errorf("%w: number %d out of range %d-%d", ErrInvalidDraw, n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: number %d repeated", ErrInvalidDraw, n)
		}
		seen[n] = true
		sorted[i] = n
	}
	sort.Ints(sorted[:])

	return &Draw{
		Numbers: sorted,
		Year:    year,
		Source:  source,
	}, nil
}

// Key returns a comparable identity for deduplication
func (d *Draw) Key() DrawKey {
	return DrawKey(d.Numbers)
}

// Contains reports whether the number is part of the draw
func (d *Draw) Contains(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// InRange reports whether n is a valid lottery number
func InRange(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// DedupeDraws drops draws whose numbers already appeared earlier in the slice
func DedupeDraws(draws []*Draw) []*Draw {
	seen := make(map[DrawKey]struct{}, len(draws))
	out := make([]*Draw, 0, len(draws))
	for _, d := range draws {
		if _, ok := seen[d.Key()]; ok {
			continue
		}
		seen[d.Key()] = struct{}{}
		out = append(out, d)
	}
	return out
}
