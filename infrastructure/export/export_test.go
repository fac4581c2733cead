package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lottogen/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testDraws(t *testing.T) []*entities.Draw {
	t.Helper()

	var draws []*entities.Draw
	for _, numbers := range [][]int{
		{1, 2, 3, 4, 5, 6},
		{1, 20, 30, 40, 50, 90},
	} {
		d, err := entities.NewDraw(numbers, 2024, "test")
		require.NoError(t, err)
		draws = append(draws, d)
	}
	return draws
}

func testRun(t *testing.T) *entities.GenerationRun {
	t.Helper()

	draws := testDraws(t)
	run := entities.NewGenerationRun(2024, 2024, 3, 2, nil)
	run.Draws = draws
	run.DrawCount = len(draws)
	run.Frequency = entities.NewFrequencyTable(draws)
	run.Tickets = []entities.Ticket{
		{3, 7, 19, 42, 61, 88},
		{1, 2, 4, 8, 16, 32},
	}
	return run
}

func TestWriteFrequencyCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteFrequencyCSV(&buf, entities.NewFrequencyTable(testDraws(t))))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, entities.MaxNumber+1)
	assert.Equal(t, "numero,frequenza", lines[0])
	assert.Equal(t, "1,2", lines[1])
	assert.Equal(t, "7,0", lines[7])
	assert.Equal(t, "90,1", lines[90])
}

func TestWriteDrawsCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteDrawsCSV(&buf, testDraws(t)))

	assert.Equal(t,
		"n1,n2,n3,n4,n5,n6,anno\n1,2,3,4,5,6,2024\n1,20,30,40,50,90,2024\n",
		buf.String())
}

func TestWriteTicketsXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTicketsXLSX(&buf, testRun(t).Tickets))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ticketSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"n1", "n2", "n3", "n4", "n5", "n6"},
		{"3", "7", "19", "42", "61", "88"},
		{"1", "2", "4", "8", "16", "32"},
	}, rows)
}

func TestChartRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		freq *entities.FrequencyTable
	}{
		{"history", entities.NewFrequencyTable(testDraws(t))},
		{"empty history", entities.NewFrequencyTable(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := NewChartRenderer().Render(tt.freq, 6)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 1200, img.Bounds().Dx())
			assert.Equal(t, 500, img.Bounds().Dy())
		})
	}
}

func TestFileSink_Deliver(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "output")
	sink := NewFileSink(dir, nil)
	assert.Equal(t, "files", sink.Name())

	require.NoError(t, sink.Deliver(context.Background(), testRun(t)))

	for _, name := range []string{FrequencyFile, DrawsFile, TicketsFile, ChartFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestFileSink_RequiresFrequencyTable(t *testing.T) {
	t.Parallel()

	run := testRun(t)
	run.Frequency = nil

	err := NewFileSink(t.TempDir(), nil).Deliver(context.Background(), run)
	assert.Error(t, err)
}
