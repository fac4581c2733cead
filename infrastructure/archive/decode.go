package archive

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Format is the detected encoding of an archive document
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatHTML Format = "html"
)

// ErrEmptyDocument is returned when a document decodes to no rows
var ErrEmptyDocument = errors.New("archive document has no rows")

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat sniffs the leading bytes of a document.
// Anything that is neither a zip nor an OLE2 container is treated as HTML.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return FormatXLS
	default:
		return FormatHTML
	}
}

// DecodeTable turns a downloaded document into a grid of trimmed cell strings
func DecodeTable(data []byte) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)

	format := DetectFormat(data)
	switch format {
	case FormatXLSX:
		rows, err = decodeXLSX(data)
	case FormatXLS:
		rows, err = decodeXLS(data)
	default:
		rows, err = decodeHTML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrEmptyDocument, format)
	}
	return rows, nil
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		rows = appendRow(rows, r)
	}
	return rows, nil
}

// decodeXLS reads the first sheet. Cells keep their absolute column, so a row
// with empty leading cells lines up with the header.
func decodeXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream in container")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	// capped at the first sheet's height, ReadAllCells stops before the second sheet
	raw := wb.ReadAllCells(int(sheet.MaxRow) + 1)
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		rows = appendRow(rows, r)
	}
	return rows, nil
}

func decodeHTML(data []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td").Map(func(_ int, cell *goquery.Selection) string {
			return cell.Text()
		})
		rows = appendRow(rows, cells)
	})
	return rows, nil
}

// appendRow trims every cell and skips rows with no content
func appendRow(rows [][]string, cells []string) [][]string {
	out := make([]string, len(cells))
	empty := true
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
		if out[i] != "" {
			empty = false
		}
	}
	if empty {
		return rows
	}
	return append(rows, out)
}
