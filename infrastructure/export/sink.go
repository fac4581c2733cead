package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lottogen/domain/entities"
	"lottogen/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Output file names
const (
	FrequencyFile = "frequenze_superenalotto.csv"
	DrawsFile     = "estrazioni_normalizzate.csv"
	TicketsFile   = "schedine_superenalotto.xlsx"
	ChartFile     = "frequenze_superenalotto.png"
)

// FileSink writes a run's frequency table, draw history, tickets and chart to a directory
type FileSink struct {
	dir   string
	chart *ChartRenderer
}

var _ interfaces.ResultSink = (*FileSink)(nil)

// NewFileSink creates a sink writing into dir, which is created on first delivery
func NewFileSink(dir string, chart *ChartRenderer) *FileSink {
	if chart == nil {
		chart = NewChartRenderer()
	}
	return &FileSink{dir: dir, chart: chart}
}

// Name identifies the sink in logs
func (s *FileSink) Name() string {
	return "files"
}

// Dir returns the output directory
func (s *FileSink) Dir() string {
	return s.dir
}

// Deliver writes every output file for the run
func (s *FileSink) Deliver(ctx context.Context, run *entities.GenerationRun) error {
	if run.Frequency == nil {
		return fmt.Errorf("run %s has no frequency table", run.ID)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteFrequencyCSV(&buf, run.Frequency); err != nil {
		return err
	}
	if err := s.write(FrequencyFile, buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := WriteDrawsCSV(&buf, run.Draws); err != nil {
		return err
	}
	if err := s.write(DrawsFile, buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := WriteTicketsXLSX(&buf, run.Tickets); err != nil {
		return err
	}
	if err := s.write(TicketsFile, buf.Bytes()); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	png, err := s.chart.Render(run.Frequency, run.TopK)
	if err != nil {
		return err
	}
	if err := s.write(ChartFile, png); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"dir":     s.dir,
		"run_id":  run.ID,
		"tickets": run.Produced(),
	}).Info("Exported generation run")
	return nil
}

func (s *FileSink) write(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
