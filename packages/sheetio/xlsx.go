package sheetio

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

// defaultSheetName is the sheet a new excelize workbook starts with
const defaultSheetName = "Sheet1"

// ImportXLSX reads one sheet of a workbook. an empty sheetName selects the
// first sheet. formula cells are imported as their formula text, all other
// cells as their unformatted stored value.
func ImportXLSX(path string, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, sheetName)
}

// ReadXLSX is ImportXLSX over an in-memory workbook
func ReadXLSX(r io.Reader, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, sheetName)
}

func readWorkbook(f *excelize.File, sheetName string) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if sheetName == "" {
		sheetName = sheets[0]
	} else if !slices.Contains(sheets, sheetName) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	// raw values keep number formats out of the imported text
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	sheet := NewSheet(sheetName)
	width := 0
	for rowIdx, row := range rows {
		width = max(width, len(row))
		for colIdx, value := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}

			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("failed to read formula %s: %w", cellName, err)
			}
			switch {
			case formula != "":
				sheet.Cells[cellName] = "=" + formula
			case value != "":
				sheet.Cells[cellName] = value
			}

			format, err := readFormat(f, sheetName, cellName)
			if err != nil {
				return nil, err
			}
			if format != (spreadsheet.CellFormat{}) {
				sheet.Formats[cellName] = format
			}
		}
	}

	if err := readRowMeta(f, sheet, len(rows)); err != nil {
		return nil, err
	}
	if err := readColumnMeta(f, sheet, width); err != nil {
		return nil, err
	}
	return sheet, nil
}

// readRowMeta records rows that are hidden or differ from the sheet default
// height. the row just past the data reports the default.
func readRowMeta(f *excelize.File, sheet *Sheet, rows int) error {
	baseline, err := f.GetRowHeight(sheet.Name, rows+1)
	if err != nil {
		return fmt.Errorf("failed to read row height: %w", err)
	}
	for row := 1; row <= rows; row++ {
		height, err := f.GetRowHeight(sheet.Name, row)
		if err != nil {
			return fmt.Errorf("failed to read row height: %w", err)
		}
		visible, err := f.GetRowVisible(sheet.Name, row)
		if err != nil {
			return fmt.Errorf("failed to read row visibility: %w", err)
		}
		if height != baseline || !visible {
			sheet.Rows[row] = spreadsheet.RowMeta{Height: height, Hidden: !visible}
		}
	}
	return nil
}

// readColumnMeta records columns that are hidden or differ from the sheet
// default width
func readColumnMeta(f *excelize.File, sheet *Sheet, columns int) error {
	baseline, err := f.GetColWidth(sheet.Name, spreadsheet.LettersFromIndex(columns))
	if err != nil {
		return fmt.Errorf("failed to read column width: %w", err)
	}
	for col := 0; col < columns; col++ {
		letters := spreadsheet.LettersFromIndex(col)
		width, err := f.GetColWidth(sheet.Name, letters)
		if err != nil {
			return fmt.Errorf("failed to read column width: %w", err)
		}
		visible, err := f.GetColVisible(sheet.Name, letters)
		if err != nil {
			return fmt.Errorf("failed to read column visibility: %w", err)
		}
		if width != baseline || !visible {
			sheet.Columns[letters] = spreadsheet.ColumnMeta{Width: width, Hidden: !visible}
		}
	}
	return nil
}

func readFormat(f *excelize.File, sheetName, cellName string) (spreadsheet.CellFormat, error) {
	styleID, err := f.GetCellStyle(sheetName, cellName)
	if err != nil {
		return spreadsheet.CellFormat{}, fmt.Errorf("failed to read style %s: %w", cellName, err)
	}
	if styleID == 0 {
		return spreadsheet.CellFormat{}, nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return spreadsheet.CellFormat{}, fmt.Errorf("failed to read style %s: %w", cellName, err)
	}

	var format spreadsheet.CellFormat
	if style.Font != nil {
		format.Bold = style.Font.Bold
		format.Italic = style.Font.Italic
		format.Color = style.Font.Color
	}
	if style.Alignment != nil {
		format.Alignment = style.Alignment.Horizontal
	}
	if style.Fill.Type == "pattern" && len(style.Fill.Color) > 0 {
		format.Background = style.Fill.Color[0]
	}
	if style.CustomNumFmt != nil {
		format.NumberFormat = *style.CustomNumFmt
	}
	return format, nil
}

// ExportXLSX writes snap to a new workbook at path. formula cells keep their
// expression with the computed display value cached next to it.
func ExportXLSX(snap spreadsheet.Snapshot, path string, sheetName string) error {
	f, err := buildWorkbook(snap, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteXLSX is ExportXLSX into a writer
func WriteXLSX(snap spreadsheet.Snapshot, w io.Writer, sheetName string) error {
	f, err := buildWorkbook(snap, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(snap spreadsheet.Snapshot, sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if sheetName != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	for _, address := range snap.Addresses() {
		if err := writeCell(f, sheetName, address, snap.Cells[address]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write %s: %w", address, err)
		}
	}

	for row, meta := range snap.Rows {
		if meta.Height > 0 {
			if err := f.SetRowHeight(sheetName, row, meta.Height); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		if meta.Hidden {
			if err := f.SetRowVisible(sheetName, row, false); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	for col, meta := range snap.Columns {
		letters := spreadsheet.LettersFromIndex(col)
		if meta.Width > 0 {
			if err := f.SetColWidth(sheetName, letters, letters, meta.Width); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write column %s: %w", letters, err)
			}
		}
		if meta.Hidden {
			if err := f.SetColVisible(sheetName, letters, false); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write column %s: %w", letters, err)
			}
		}
	}
	return f, nil
}

func writeCell(f *excelize.File, sheetName, address string, cell *spreadsheet.Cell) error {
	if cell.Type == spreadsheet.CellTypeNumber {
		if num, err := strconv.ParseFloat(cell.DisplayValue, 64); err == nil {
			if err := f.SetCellValue(sheetName, address, num); err != nil {
				return err
			}
		}
	} else if cell.DisplayValue != "" {
		if err := f.SetCellStr(sheetName, address, cell.DisplayValue); err != nil {
			return err
		}
	}

	if cell.Formula != nil {
		expression := strings.TrimPrefix(cell.Formula.Expression, "=")
		if err := f.SetCellFormula(sheetName, address, expression); err != nil {
			return err
		}
	}

	if cell.Format == (spreadsheet.CellFormat{}) {
		return nil
	}
	styleID, err := f.NewStyle(styleOf(cell.Format))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, address, address, styleID)
}

func styleOf(format spreadsheet.CellFormat) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:   format.Bold,
			Italic: format.Italic,
			Color:  format.Color,
		},
	}
	if format.Alignment != "" {
		style.Alignment = &excelize.Alignment{Horizontal: format.Alignment}
	}
	if format.Background != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{format.Background}}
	}
	if format.NumberFormat != "" {
		numFmt := format.NumberFormat
		style.CustomNumFmt = &numFmt
	}
	return style
}
