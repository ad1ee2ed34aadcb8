package spreadsheet

import (
	"fmt"
	"strings"
)

// keySeparator joins the checked display values of a row into one key
const keySeparator = "\x1f"

// DedupeResult is the outcome of RemoveDuplicateRows
type DedupeResult struct {
	Snapshot Snapshot
	Removed  int // number of duplicate rows dropped
	Kept     int // number of data rows kept, header excluded
}

// RemoveDuplicateRows keeps the first row for every distinct combination of
// display values in columnsToCheck and packs the kept rows together at the
// top of the range. with hasHeaderRow the first row of the range is never
// compared and stays where it is. an empty columnsToCheck compares every
// column of the range.
func (c *Calculator) RemoveDuplicateRows(snap Snapshot, rangeText string, columnsToCheck []string, hasHeaderRow bool) (*DedupeResult, error) {
	r, err := ParseRange(rangeText)
	if err != nil {
		return nil, wrapApplicationError(InvalidArgument, err)
	}
	bounds := r.Normalize()

	checked, err := checkedColumns(bounds, columnsToCheck)
	if err != nil {
		return nil, err
	}

	firstDataRow := bounds.Start.Row
	if hasHeaderRow {
		firstDataRow++
	}

	// walk rows in order; the first row seen for a key wins
	seen := make(map[string]struct{})
	var kept []int
	for row := firstDataRow; row <= bounds.End.Row; row++ {
		parts := make([]string, len(checked))
		for i, col := range checked {
			if cell, exists := snap.Cells[CellAddress{Column: col, Row: row}.String()]; exists {
				parts[i] = cell.DisplayValue
			}
		}
		key := strings.Join(parts, keySeparator)
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	next := snap.Clone()
	removed := (bounds.End.Row - firstDataRow + 1) - len(kept)
	if removed == 0 {
		return &DedupeResult{Snapshot: next, Kept: len(kept)}, nil
	}

	// clear the full range; existing cells stay in the store
	for addr := range bounds.Cells() {
		if cell, exists := next.Cells[addr.String()]; exists {
			cell.clear()
		}
	}

	// header first, then survivors contiguously below it
	targets := kept
	if hasHeaderRow {
		targets = append([]int{bounds.Start.Row}, kept...)
	}
	for i, sourceRow := range targets {
		targetRow := bounds.Start.Row + i
		for col := bounds.Start.Column; col <= bounds.End.Column; col++ {
			target := CellAddress{Column: col, Row: targetRow}.String()
			original, exists := snap.Cells[CellAddress{Column: col, Row: sourceRow}.String()]
			if !exists {
				// nothing of the previous occupant survives, format included
				if cell, occupied := next.Cells[target]; occupied {
					cell.Format = CellFormat{}
				}
				continue
			}
			next.Cells[target] = cloneCell(original)
		}
	}

	c.rebuild(next)
	c.logger.Debug("removed duplicate rows", "range", bounds.String(), "removed", removed)

	return &DedupeResult{Snapshot: next, Removed: removed, Kept: len(kept)}, nil
}

// checkedColumns resolves column letters to indexes inside bounds. no letters
// means every column of bounds.
func checkedColumns(bounds RangeAddress, letters []string) ([]int, error) {
	if len(letters) == 0 {
		result := make([]int, 0, bounds.Columns())
		for col := bounds.Start.Column; col <= bounds.End.Column; col++ {
			result = append(result, col)
		}
		return result, nil
	}

	result := make([]int, 0, len(letters))
	for _, l := range letters {
		col, err := IndexFromLetters(strings.TrimSpace(l))
		if err != nil {
			return nil, wrapApplicationError(InvalidArgument, err)
		}
		if col < bounds.Start.Column || col > bounds.End.Column {
			return nil, NewApplicationError(OutOfRange, fmt.Sprintf("Column %s is outside %s", l, bounds.String()))
		}
		result = append(result, col)
	}
	return result, nil
}

// RemoveDuplicateRows removes duplicate rows using default calculator
// settings
func RemoveDuplicateRows(snap Snapshot, rangeText string, columnsToCheck []string, hasHeaderRow bool) (*DedupeResult, error) {
	return NewCalculator().RemoveDuplicateRows(snap, rangeText, columnsToCheck, hasHeaderRow)
}

// RemoveDuplicateRows removes duplicate rows inside rangeText and installs
// the result
func (s *Spreadsheet) RemoveDuplicateRows(rangeText string, columnsToCheck []string, hasHeaderRow bool) (*DedupeResult, error) {
	result, err := s.calc.RemoveDuplicateRows(s.snapshot, rangeText, columnsToCheck, hasHeaderRow)
	if err != nil {
		return nil, err
	}
	s.swap(result.Snapshot, "remove duplicate rows", "range", rangeText, "removed", result.Removed)
	result.Snapshot = s.Snapshot()
	return result, nil
}
