package sheetio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/csimplestring/go-csv/detector"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

// delimiters the sniffer may pick; anything else falls back to a comma
var knownDelimiters = map[string]rune{
	",":  ',',
	";":  ';',
	"\t": '\t',
	"|":  '|',
}

// ImportCSV reads delimited text into a sheet. the delimiter is sniffed from
// the first lines. every non-empty field becomes a cell, the first record
// being row 1 and the first field column A.
func ImportCSV(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	// normalize line endings
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	sheet := NewSheet("")
	for r, record := range records {
		for c, field := range record {
			if field == "" {
				continue
			}
			sheet.Cells[spreadsheet.CellAddress{Column: c, Row: r + 1}.String()] = field
		}
	}
	return sheet, nil
}

// ImportCSVFile reads a delimited text file into a sheet named after the
// file
func ImportCSVFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := ImportCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sheet.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return sheet, nil
}

func sniffDelimiter(text string) rune {
	candidates := detector.New().DetectDelimiter(strings.NewReader(text), '"')
	for _, candidate := range candidates {
		if delimiter, known := knownDelimiters[candidate]; known {
			return delimiter
		}
	}
	return ','
}

// ExportCSV writes the display values of snap as comma separated text. the
// output starts at A1 and ends at the bottom-right corner of the used range
// so that re-importing puts every value back at its address.
func ExportCSV(snap spreadsheet.Snapshot, w io.Writer) error {
	used, ok := snap.UsedRange()
	if !ok {
		return nil
	}
	bounds := used.Normalize()

	writer := csv.NewWriter(w)
	for row := 1; row <= bounds.End.Row; row++ {
		record := make([]string, bounds.End.Column+1)
		for col := range record {
			if cell, exists := snap.Cells[spreadsheet.CellAddress{Column: col, Row: row}.String()]; exists {
				record[col] = cell.DisplayValue
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSVFile writes the display values of snap to path
func ExportCSVFile(snap spreadsheet.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportCSV(snap, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
