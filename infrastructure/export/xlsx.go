package export

import (
	"fmt"
	"io"

	"lottogen/domain/entities"

	"github.com/xuri/excelize/v2"
)

const ticketSheet = "Schedine"

// WriteTicketsXLSX writes the tickets to a workbook with one row per ticket under an n1..n6 header
func WriteTicketsXLSX(w io.Writer, tickets []entities.Ticket) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ticketSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{"n1", "n2", "n3", "n4", "n5", "n6"}
	if err := f.SetSheetRow(ticketSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write ticket header: %w", err)
	}

	for i, ticket := range tickets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(ticket))
		for j, n := range ticket {
			row[j] = n
		}
		if err := f.SetSheetRow(ticketSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write ticket %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
