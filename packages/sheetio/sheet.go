// Package sheetio moves spreadsheet contents between files and the
// calculation engine. raw cell input is carried verbatim; evaluation is
// always left to the engine.
package sheetio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .csv
	// and .xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrSheetNotFound is returned when a workbook has no sheet of the
	// requested name
	ErrSheetNotFound = errors.New("sheet not found")
)

// Sheet is one imported grid of raw cell input plus its presentation
// metadata
type Sheet struct {
	Name    string
	Cells   map[string]string                 // address -> raw input, formulas keep their "="
	Formats map[string]spreadsheet.CellFormat // address -> presentation attributes
	Rows    map[int]spreadsheet.RowMeta       // one-based row -> metadata
	Columns map[string]spreadsheet.ColumnMeta // column letters -> metadata
}

// NewSheet creates an empty sheet
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:    name,
		Cells:   make(map[string]string),
		Formats: make(map[string]spreadsheet.CellFormat),
		Rows:    make(map[int]spreadsheet.RowMeta),
		Columns: make(map[string]spreadsheet.ColumnMeta),
	}
}

// Snapshot converts the sheet into an engine snapshot. formula cells are
// left unevaluated.
func (s *Sheet) Snapshot() (spreadsheet.Snapshot, error) {
	snap := spreadsheet.NewSnapshot()
	for address, raw := range s.Cells {
		normalized, err := spreadsheet.NormalizeAddress(address)
		if err != nil {
			return spreadsheet.Snapshot{}, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		snap.Cells[normalized] = spreadsheet.NewCell(raw)
	}
	for address, format := range s.Formats {
		normalized, err := spreadsheet.NormalizeAddress(address)
		if err != nil {
			return spreadsheet.Snapshot{}, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		cell, exists := snap.Cells[normalized]
		if !exists {
			cell = spreadsheet.NewCell("")
			snap.Cells[normalized] = cell
		}
		cell.Format = format
	}
	for row, meta := range s.Rows {
		snap.Rows[row] = meta
	}
	for letters, meta := range s.Columns {
		col, err := spreadsheet.IndexFromLetters(letters)
		if err != nil {
			return spreadsheet.Snapshot{}, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		snap.Columns[col] = meta
	}
	return snap, nil
}

// Load replaces the engine state with the sheet contents and evaluates every
// formula
func Load(engine *spreadsheet.Spreadsheet, sheet *Sheet) error {
	snap, err := sheet.Snapshot()
	if err != nil {
		return err
	}
	engine.Load(snap)
	return nil
}

// FromSnapshot captures the raw input and metadata held by snap
func FromSnapshot(name string, snap spreadsheet.Snapshot) *Sheet {
	sheet := NewSheet(name)
	for address, cell := range snap.Cells {
		raw := cell.Value
		if cell.Formula != nil {
			raw = cell.Formula.Expression
		}
		if raw != "" {
			sheet.Cells[address] = raw
		}
		if cell.Format != (spreadsheet.CellFormat{}) {
			sheet.Formats[address] = cell.Format
		}
	}
	for row, meta := range snap.Rows {
		sheet.Rows[row] = meta
	}
	for col, meta := range snap.Columns {
		sheet.Columns[spreadsheet.LettersFromIndex(col)] = meta
	}
	return sheet
}

// Format identifies a file format by extension
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Open imports a sheet from path. sheetName only applies to workbooks; empty
// selects the first sheet.
func Open(path string, sheetName string) (*Sheet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ImportXLSX(path, sheetName)
	}
	return ImportCSVFile(path)
}

// Save exports snap to path in the format its extension names
func Save(snap spreadsheet.Snapshot, path string, sheetName string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		return ExportXLSX(snap, path, sheetName)
	}
	return ExportCSVFile(snap, path)
}
