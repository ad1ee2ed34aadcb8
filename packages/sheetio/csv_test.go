package sheetio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

func TestImportCSV(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"Comma", "Name,Score\nx,1\ny,2\n"},
		{"Semicolon", "Name;Score\nx;1\ny;2\n"},
		{"Tab", "Name\tScore\nx\t1\ny\t2\n"},
		{"Pipe", "Name|Score\nx|1\ny|2\n"},
		{"WindowsLineEndings", "Name,Score\r\nx,1\r\ny,2\r\n"},
	}

	want := map[string]string{
		"A1": "Name", "B1": "Score",
		"A2": "x", "B2": "1",
		"A3": "y", "B3": "2",
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sheet, err := ImportCSV(strings.NewReader(c.input))
			require.NoError(t, err)
			assert.Equal(t, want, sheet.Cells)
		})
	}
}

func TestImportCSVSparse(t *testing.T) {
	sheet, err := ImportCSV(strings.NewReader("a,,c\n,,\nd,e\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "a", "C1": "c", "A3": "d", "B3": "e"}, sheet.Cells)
}

func TestImportCSVQuoted(t *testing.T) {
	sheet, err := ImportCSV(strings.NewReader("label,value\n\"hello, world\",5\nplain,6\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello, world", sheet.Cells["A2"])
	assert.Equal(t, "5", sheet.Cells["B2"])
}

func TestImportCSVSingleColumn(t *testing.T) {
	sheet, err := ImportCSV(strings.NewReader("one\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "one", "A2": "two"}, sheet.Cells)
}

func TestExportCSV(t *testing.T) {
	engine := spreadsheet.NewSpreadsheet()
	for _, pair := range [][2]string{{"A1", "1"}, {"B1", "=SUM(A1, 1)"}, {"B3", "x"}} {
		_, err := engine.SetCellValue(pair[0], pair[1])
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(engine.Snapshot(), &buf))
	assert.Equal(t, "1,2\n,\n,x\n", buf.String())

	// display values land back at the same addresses
	sheet, err := ImportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "1", "B1": "2", "B3": "x"}, sheet.Cells)
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(spreadsheet.NewSnapshot(), &buf))
	assert.Empty(t, buf.String())
}
