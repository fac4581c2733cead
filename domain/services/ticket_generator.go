package services

import (
	"lottogen/domain/entities"
	"lottogen/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Defaults for GeneratorOptions: three picks from the 30 most frequent numbers,
// three from the whole range, no run of more than two consecutive numbers.
const (
	DefaultTopK               = 30
	DefaultHighPicks          = 3
	DefaultWidePicks          = 3
	DefaultEpsilon            = 1e-6
	DefaultMaxRun             = 2
	DefaultRepairAttempts     = 10
	DefaultBatchAttemptFactor = 20
)

// GeneratorOptions controls the hybrid selection and its bounded retries
type GeneratorOptions struct {
	TopK               int     // Size of the high-frequency pool
	HighPicks          int     // Numbers drawn from the high-frequency pool
	WidePicks          int     // Numbers drawn from the whole range
	Epsilon            float64 // Added to every count so no number has zero weight
	MaxRun             int     // Longest allowed run of consecutive numbers
	RepairAttempts     int     // Replacements tried before accepting a ticket with a long run
	BatchAttemptFactor int     // A batch of n gives up after n*BatchAttemptFactor tickets
}

// DefaultGeneratorOptions returns the standard 3+3 strategy over the top 30 numbers
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		TopK:               DefaultTopK,
		HighPicks:          DefaultHighPicks,
		WidePicks:          DefaultWidePicks,
		Epsilon:            DefaultEpsilon,
		MaxRun:             DefaultMaxRun,
		RepairAttempts:     DefaultRepairAttempts,
		BatchAttemptFactor: DefaultBatchAttemptFactor,
	}
}

// normalized clamps options into a range where generation always terminates
func (o GeneratorOptions) normalized() GeneratorOptions {
	if o.TopK < 1 {
		o.TopK = 1
	}
	if o.TopK > entities.MaxNumber {
		o.TopK = entities.MaxNumber
	}
	if o.HighPicks < 0 {
		o.HighPicks = 0
	}
	if o.HighPicks > entities.NumbersPerDraw {
		o.HighPicks = entities.NumbersPerDraw
	}
	if o.WidePicks < 0 {
		o.WidePicks = 0
	}
	if o.HighPicks+o.WidePicks > entities.NumbersPerDraw {
		o.WidePicks = entities.NumbersPerDraw - o.HighPicks
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.MaxRun < 1 {
		o.MaxRun = 1
	}
	if o.RepairAttempts < 0 {
		o.RepairAttempts = 0
	}
	if o.BatchAttemptFactor < 1 {
		o.BatchAttemptFactor = 1
	}
	return o
}

// TicketGenerator turns a frequency table into weighted random tickets.
// A generator owns its random source and must not be shared between goroutines;
// the frequency table can be.
type TicketGenerator struct {
	rng  interfaces.RandomSource
	opts GeneratorOptions
}

// NewTicketGenerator creates a generator drawing from rng
func NewTicketGenerator(rng interfaces.RandomSource, opts GeneratorOptions) *TicketGenerator {
	return &TicketGenerator{
		rng:  rng,
		opts: opts.normalized(),
	}
}

// Options returns the options in effect after clamping
func (g *TicketGenerator) Options() GeneratorOptions {
	return g.opts
}

// GenerateTicket builds one ticket: HighPicks weighted numbers from the TopK most frequent,
// WidePicks weighted numbers from the whole range, weighted top-up to six distinct numbers,
// then up to RepairAttempts replacements to break runs longer than MaxRun. Each replacement
// swaps out the number that first pushes a run past MaxRun. A ticket that still has a long
// run after the last attempt is returned as is.
func (g *TicketGenerator) GenerateTicket(freq *entities.FrequencyTable) entities.Ticket {
	var weights [entities.MaxNumber + 1]float64
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		weights[n] = float64(freq.Count(n)) + g.opts.Epsilon
	}

	// taken holds numbers on the ticket plus numbers discarded by run repair,
	// so a discarded number cannot be drawn straight back in
	var taken [entities.MaxNumber + 1]bool
	picks := make([]int, 0, entities.NumbersPerDraw)
	add := func(numbers []int) {
		for _, n := range numbers {
			if !taken[n] {
				taken[n] = true
				picks = append(picks, n)
			}
		}
	}

	top := freq.TopNumbers(g.opts.TopK)
	add(WeightedSample(g.rng, top, weightsOf(top, &weights), g.opts.HighPicks))

	all := untaken(&[entities.MaxNumber + 1]bool{})
	add(WeightedSample(g.rng, all, weightsOf(all, &weights), g.opts.WidePicks))

	for len(picks) < entities.NumbersPerDraw {
		add(g.pickUntaken(&taken, &weights))
	}

	ticket := entities.TicketFromSet(picks)
	for attempt := 0; attempt < g.opts.RepairAttempts; attempt++ {
		idx := overlongRunIndex(ticket, g.opts.MaxRun)
		if idx < 0 {
			break
		}
		replacement := g.pickUntaken(&taken, &weights)
		if len(replacement) == 0 {
			break
		}
		taken[replacement[0]] = true
		ticket[idx] = replacement[0]
		ticket = entities.TicketFromSet(ticket[:])
	}
	return ticket
}

// GenerateBatch collects up to n tickets with pairwise different numbers. It stops after
// n*BatchAttemptFactor generated tickets, so the batch can be shorter than n when the
// weights leave too few distinct combinations. A short batch is not an error.
func (g *TicketGenerator) GenerateBatch(freq *entities.FrequencyTable, n int) []entities.Ticket {
	if n <= 0 {
		return []entities.Ticket{}
	}

	batch := make([]entities.Ticket, 0, n)
	seen := make(map[entities.Ticket]struct{}, n)
	maxAttempts := n * g.opts.BatchAttemptFactor

	attempts := 0
	for ; len(batch) < n && attempts < maxAttempts; attempts++ {
		ticket := g.GenerateTicket(freq)
		if _, dup := seen[ticket]; dup {
			continue
		}
		seen[ticket] = struct{}{}
		batch = append(batch, ticket)
	}

	if len(batch) < n {
		log.WithFields(log.Fields{
			"requested": n,
			"produced":  len(batch),
			"attempts":  attempts,
		}).Debug("Ticket batch stopped at attempt limit")
	}
	return batch
}

// pickUntaken draws one weighted number among those not taken yet.
// The result is empty only when every number is taken.
func (g *TicketGenerator) pickUntaken(taken *[entities.MaxNumber + 1]bool, weights *[entities.MaxNumber + 1]float64) []int {
	rest := untaken(taken)
	return WeightedSample(g.rng, rest, weightsOf(rest, weights), 1)
}

// overlongRunIndex returns the position of the first number that extends a run of
// consecutive numbers beyond maxRun, or -1 when every run is short enough
func overlongRunIndex(t entities.Ticket, maxRun int) int {
	run := 1
	for i := 1; i < len(t); i++ {
		if t[i] == t[i-1]+1 {
			run++
			if run > maxRun {
				return i
			}
		} else {
			run = 1
		}
	}
	return -1
}

func untaken(taken *[entities.MaxNumber + 1]bool) []int {
	out := make([]int, 0, entities.MaxNumber)
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		if !taken[n] {
			out = append(out, n)
		}
	}
	return out
}

func weightsOf(numbers []int, weights *[entities.MaxNumber + 1]float64) []float64 {
	out := make([]float64, len(numbers))
	for i, n := range numbers {
		out[i] = weights[n]
	}
	return out
}
