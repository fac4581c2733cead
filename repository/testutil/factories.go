package testutil

import (
	"testing"

	"lottogen/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestDraw builds a valid draw, failing the test on invalid numbers
func CreateTestDraw(t *testing.T, year int, numbers ...int) *entities.Draw {
	t.Helper()
	draw, err := entities.NewDraw(numbers, year, "test")
	require.NoError(t, err)
	return draw
}

// CreateTestRun builds a finished run with the given tickets and a frequency table over draws
func CreateTestRun(t *testing.T, seed *uint64, draws []*entities.Draw, tickets ...entities.Ticket) *entities.GenerationRun {
	t.Helper()
	run := entities.NewGenerationRun(2020, 2024, 30, len(tickets), seed)
	run.Frequency = entities.NewFrequencyTable(draws)
	run.DrawCount = len(draws)
	run.Tickets = tickets
	return run
}
