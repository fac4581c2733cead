package archive

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"zip container", []byte("PK\x03\x04rest"), FormatXLSX},
		{"ole2 container", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}, FormatXLS},
		{"html page", []byte("<html><table></table></html>"), FormatHTML},
		{"empty", nil, FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetectFormat(tt.data))
		})
	}
}

func TestDecodeTable_HTML(t *testing.T) {
	t.Parallel()

	page := `<html><body><table>
		<tr><th>Data</th><th>Combinazione</th></tr>
		<tr><td> 02/01/2024 </td><td>5 - 12 - 33 - 48 - 70 - 81</td></tr>
		<tr><td> </td><td></td></tr>
	</table></body></html>`

	rows, err := DecodeTable([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Data", "Combinazione"},
		{"02/01/2024", "5 - 12 - 33 - 48 - 70 - 81"},
	}, rows)
}

func TestDecodeTable_XLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"N1", "N2", "N3", "N4", "N5", "N6"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{5, 12, 33, 48, 70, 81}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{1, 2, 3, 4, 5, 6}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := DecodeTable(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"5", "12", "33", "48", "70", "81"}, rows[1])

	draws, err := NormalizeDraws(rows, 2024, "test")
	require.NoError(t, err)
	assert.Len(t, draws, 2)
}

func TestDecodeTable_EmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := DecodeTable([]byte("<html><body><p>Nessun risultato</p></body></html>"))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestDecodeTable_CorruptSpreadsheet(t *testing.T) {
	t.Parallel()

	_, err := DecodeTable([]byte("PK\x03\x04 definitely not a zip archive"))
	assert.Error(t, err)
}

func TestDecodeTable_XLS(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/draws.xls")
	require.NoError(t, err)
	require.Equal(t, FormatXLS, DetectFormat(data))

	rows, err := DecodeTable(data)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"Concorso", "Data", "N1", "N2", "N3", "N4", "N5", "N6"}, rows[0])
	// first cell of the row is empty, the balls stay under their headers
	assert.Equal(t, []string{"", "02/01/2024", "5", "12", "33", "48", "70", "81"}, rows[1])
	assert.Equal(t, []string{"2", "04/01/2024", "7", "19", "23", "41", "56", "90"}, rows[2])

	draws, err := NormalizeDraws(rows, 2024, "primary")
	require.NoError(t, err)
	assert.Equal(t, [][6]int{
		{5, 12, 33, 48, 70, 81},
		{7, 19, 23, 41, 56, 90},
		{3, 8, 27, 39, 62, 77},
	}, numbersOf(draws))
}

func TestDecodeTable_OLE2WithoutWorkbook(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/draws.xls")
	require.NoError(t, err)

	// rename the Workbook directory entry so the container holds no workbook stream
	corrupt := append([]byte(nil), data...)
	corrupt[1024+128] = 'X'

	_, err = DecodeTable(corrupt)
	assert.Error(t, err)
}
