package sheetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

func TestLoad(t *testing.T) {
	sheet := NewSheet("Data")
	sheet.Cells["a1"] = "2"
	sheet.Cells["B1"] = "=SUM(A1, 3)"
	sheet.Cells["A2"] = "label"
	sheet.Formats["C1"] = spreadsheet.CellFormat{Italic: true}
	sheet.Rows[4] = spreadsheet.RowMeta{Height: 40}
	sheet.Columns["b"] = spreadsheet.ColumnMeta{Width: 12, Hidden: true}

	engine := spreadsheet.NewSpreadsheet()
	require.NoError(t, Load(engine, sheet))

	assert.Equal(t, "2", engine.Display("A1"))
	assert.Equal(t, "5", engine.Display("B1"))
	assert.Equal(t, "label", engine.Display("A2"))
	assert.Equal(t, spreadsheet.RowMeta{Height: 40}, engine.RowMeta(4))
	assert.Equal(t, spreadsheet.ColumnMeta{Width: 12, Hidden: true}, engine.ColumnMeta("B"))

	cell, exists := engine.Get("C1")
	require.True(t, exists)
	assert.True(t, cell.Format.Italic)
	assert.True(t, cell.IsEmpty())

	// edits after loading still propagate
	_, err := engine.SetCellValue("A1", "10")
	require.NoError(t, err)
	assert.Equal(t, "13", engine.Display("B1"))
}

func TestLoadInvalidAddress(t *testing.T) {
	sheet := NewSheet("Bad")
	sheet.Cells["not-an-address"] = "1"
	err := Load(spreadsheet.NewSpreadsheet(), sheet)
	assert.ErrorIs(t, err, spreadsheet.ErrInvalidAddress)

	sheet = NewSheet("Bad")
	sheet.Columns["1"] = spreadsheet.ColumnMeta{}
	_, err = sheet.Snapshot()
	assert.ErrorIs(t, err, spreadsheet.ErrInvalidAddress)
}

func TestFromSnapshot(t *testing.T) {
	engine := spreadsheet.NewSpreadsheet()
	_, err := engine.SetCellValue("A1", "4")
	require.NoError(t, err)
	_, err = engine.SetCellValue("B1", "=SUM(A1)")
	require.NoError(t, err)
	require.NoError(t, engine.SetFormat("C3", spreadsheet.CellFormat{Bold: true}))
	require.NoError(t, engine.SetColumnMeta("C", spreadsheet.ColumnMeta{Width: 44}))

	sheet := FromSnapshot("Out", engine.Snapshot())
	assert.Equal(t, "Out", sheet.Name)
	assert.Equal(t, map[string]string{"A1": "4", "B1": "=SUM(A1)"}, sheet.Cells)
	assert.Equal(t, map[string]spreadsheet.CellFormat{"C3": {Bold: true}}, sheet.Formats)
	assert.Equal(t, map[string]spreadsheet.ColumnMeta{"C": {Width: 44}}, sheet.Columns)
}

func TestFormatOf(t *testing.T) {
	format, err := FormatOf("report.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = FormatOf("/tmp/book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)

	_, err = FormatOf("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenAndSave(t *testing.T) {
	engine := spreadsheet.NewSpreadsheet()
	_, err := engine.SetCellValue("A1", "3")
	require.NoError(t, err)
	_, err = engine.SetCellValue("B1", "=SUM(A1, A1)")
	require.NoError(t, err)

	dir := t.TempDir()

	t.Run("CSV", func(t *testing.T) {
		path := filepath.Join(dir, "out.csv")
		require.NoError(t, Save(engine.Snapshot(), path, ""))

		sheet, err := Open(path, "")
		require.NoError(t, err)
		assert.Equal(t, "out", sheet.Name)
		assert.Equal(t, map[string]string{"A1": "3", "B1": "6"}, sheet.Cells)
	})

	t.Run("XLSX", func(t *testing.T) {
		path := filepath.Join(dir, "out.xlsx")
		require.NoError(t, Save(engine.Snapshot(), path, "Calc"))

		sheet, err := Open(path, "Calc")
		require.NoError(t, err)
		assert.Equal(t, "Calc", sheet.Name)
		assert.Equal(t, map[string]string{"A1": "3", "B1": "=SUM(A1, A1)"}, sheet.Cells)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "out.ods"), "")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		err = Save(engine.Snapshot(), filepath.Join(dir, "out.json"), "")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
