package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"lottogen/domain/entities"
)

// WriteFrequencyCSV writes one numero,frequenza row per number in ascending order
func WriteFrequencyCSV(w io.Writer, freq *entities.FrequencyTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"numero", "frequenza"}); err != nil {
		return fmt.Errorf("failed to write frequency header: %w", err)
	}

	for _, row := range freq.Rows() {
		record := []string{strconv.Itoa(row.Number), strconv.FormatInt(row.Count, 10)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write frequency row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDrawsCSV writes the normalized draw history as n1..n6,anno
func WriteDrawsCSV(w io.Writer, draws []*entities.Draw) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"n1", "n2", "n3", "n4", "n5", "n6", "anno"}); err != nil {
		return fmt.Errorf("failed to write draws header: %w", err)
	}

	record := make([]string, entities.NumbersPerDraw+1)
	for _, d := range draws {
		for i, n := range d.Numbers {
			record[i] = strconv.Itoa(n)
		}
		record[entities.NumbersPerDraw] = strconv.Itoa(d.Year)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write draw row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
