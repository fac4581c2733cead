package services

import (
	"testing"

	"lottogen/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSelection_ConcentratedHistory(t *testing.T) {
	t.Parallel()

	dominant := []int{10, 20, 30, 40, 50, 60}
	freq := concentratedTable(1000, dominant...)
	opts := DefaultGeneratorOptions()
	opts.TopK = 6
	g := NewTicketGenerator(NewRandomSource(seed(5)), opts)

	report := AnalyzeSelection(g, freq, 2000)

	require.Equal(t, 2000, report.Trials)
	assert.Equal(t, 6, report.TopK)
	for _, n := range dominant {
		assert.Greater(t, report.Rate(n), 0.99, "number %d", n)
	}
	assert.Greater(t, report.TopPoolShare(), 0.99)
	assert.Equal(t, 0, report.LongRuns)
	assert.Greater(t, report.ChiSquaredUniform(), 112.0)

	most := report.MostSelected(3)
	require.Len(t, most, 3)
	for _, row := range most {
		assert.Contains(t, dominant, row.Number)
	}
}

func TestAnalyzeSelection_InclusionsMatchTickets(t *testing.T) {
	t.Parallel()

	g := NewTicketGenerator(NewRandomSource(seed(8)), DefaultGeneratorOptions())

	report := AnalyzeSelection(g, historyTable(t), 500)

	total := 0
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		total += report.Inclusions[n]
	}
	assert.Equal(t, 500*entities.NumbersPerDraw, total)
	assert.Equal(t, 0, report.Inclusions[0])
	assert.Len(t, report.MostSelected(entities.MaxNumber+10), entities.MaxNumber)
}

func TestAnalyzeSelection_NoTrials(t *testing.T) {
	t.Parallel()

	g := NewTicketGenerator(NewRandomSource(seed(1)), DefaultGeneratorOptions())

	report := AnalyzeSelection(g, historyTable(t), 0)

	assert.Equal(t, 0, report.Trials)
	assert.Zero(t, report.Rate(1))
	assert.Zero(t, report.TopPoolShare())
	assert.Zero(t, report.ChiSquaredUniform())
	assert.Empty(t, report.MostSelected(-1))
}
