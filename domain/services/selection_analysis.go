package services

import (
	"math"
	"sort"

	"lottogen/domain/entities"
)

// SelectionReport summarises how often a generator picks each number
type SelectionReport struct {
	Trials       int
	Inclusions   [entities.MaxNumber + 1]int // Tickets containing each number
	LongRuns     int                         // Tickets left with a run longer than MaxRun
	TopPoolPicks int                         // Ticket numbers that belong to the top-K pool
	TopK         int
}

// NumberSelection is one row of a selection report
type NumberSelection struct {
	Number int
	Rate   float64 // Share of tickets containing the number
}

// AnalyzeSelection generates trials independent tickets and counts what they contain
func AnalyzeSelection(g *TicketGenerator, freq *entities.FrequencyTable, trials int) *SelectionReport {
	report := &SelectionReport{TopK: g.opts.TopK}
	if trials <= 0 {
		return report
	}

	var inPool [entities.MaxNumber + 1]bool
	for _, n := range freq.TopNumbers(g.opts.TopK) {
		inPool[n] = true
	}

	for i := 0; i < trials; i++ {
		ticket := g.GenerateTicket(freq)
		for _, n := range ticket {
			report.Inclusions[n]++
			if inPool[n] {
				report.TopPoolPicks++
			}
		}
		if ticket.LongestRun() > g.opts.MaxRun {
			report.LongRuns++
		}
	}
	report.Trials = trials
	return report
}

// Rate returns the share of tickets that contained n
func (r *SelectionReport) Rate(n int) float64 {
	if r.Trials == 0 || !entities.InRange(n) {
		return 0
	}
	return float64(r.Inclusions[n]) / float64(r.Trials)
}

// TopPoolShare returns the average share of ticket numbers drawn from the top-K pool
func (r *SelectionReport) TopPoolShare() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.TopPoolPicks) / float64(r.Trials*entities.NumbersPerDraw)
}

// ChiSquaredUniform compares the inclusions against a uniform pick of six numbers.
// Values far above 112 (95th percentile with 89 degrees of freedom) mean the
// generator clearly favours some numbers.
func (r *SelectionReport) ChiSquaredUniform() float64 {
	if r.Trials == 0 {
		return 0
	}
	expected := float64(r.Trials*entities.NumbersPerDraw) / entities.MaxNumber
	var chi float64
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		chi += math.Pow(float64(r.Inclusions[n])-expected, 2) / expected
	}
	return chi
}

// MostSelected returns the k numbers with the highest inclusion rate.
// Equal rates keep ascending numeric order.
func (r *SelectionReport) MostSelected(k int) []NumberSelection {
	rows := make([]NumberSelection, 0, entities.MaxNumber)
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		rows = append(rows, NumberSelection{Number: n, Rate: r.Rate(n)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rate > rows[j].Rate
	})
	if k < 0 {
		k = 0
	}
	if k > len(rows) {
		k = len(rows)
	}
	return rows[:k]
}
