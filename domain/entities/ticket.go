package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Ticket is a generated combination of six distinct numbers in ascending order.
// Tickets are comparable, so two tickets with the same numbers are equal.
type Ticket [NumbersPerDraw]int

// NewTicket sorts the numbers into a ticket after checking they form a valid combination
func NewTicket(numbers []int) (Ticket, error) {
	d, err := NewDraw(numbers, 0, "")
	if err != nil {
		return Ticket{}, err
	}
	return Ticket(d.Numbers), nil
}

// LongestRun returns the length of the longest sequence of consecutive integers.
// The ticket must be sorted.
func (t Ticket) LongestRun() int {
	longest, run := 1, 1
	for i := 1; i < len(t); i++ {
		if t[i] == t[i-1]+1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// IsValid reports whether the ticket is strictly ascending and in range
func (t Ticket) IsValid() bool {
	for i, n := range t {
		if !InRange(n) {
			return false
		}
		if i > 0 && t[i-1] >= n {
			return false
		}
	}
	return true
}

// Slice returns the numbers as a slice
func (t Ticket) Slice() []int {
	out := make([]int, len(t))
	copy(out, t[:])
	return out
}

// String formats the ticket like [3, 17, 22, 41, 58, 90]
func (t Ticket) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TicketFromSet sorts six distinct numbers into a ticket without validation.
// Callers in the generator guarantee the invariants.
func TicketFromSet(numbers []int) Ticket {
	var t Ticket
	copy(t[:], numbers)
	sort.Ints(t[:])
	return t
}
