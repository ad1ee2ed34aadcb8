package spreadsheet

import (
	"fmt"
)

type axis int

const (
	axisRow axis = iota
	axisColumn
)

// shiftPosition maps a position on the edited axis to its new position. ok
// is false when the position is removed.
func shiftPosition(pos, at int, insert bool) (int, bool) {
	switch {
	case pos < at:
		return pos, true
	case insert:
		return pos + 1, true
	case pos == at:
		return 0, false
	default:
		return pos - 1, true
	}
}

// shift re-keys cells and metadata around a row or column edit and rebuilds
// the graph over the result. formula expressions are kept verbatim.
func (c *Calculator) shift(snap Snapshot, ax axis, at int, insert bool) Snapshot {
	next := NewSnapshot()

	for address, cell := range snap.Cells {
		addr, err := ParseAddress(address)
		if err != nil {
			next.Cells[address] = cloneCell(cell)
			continue
		}

		pos := addr.Row
		if ax == axisColumn {
			pos = addr.Column
		}
		moved, ok := shiftPosition(pos, at, insert)
		if !ok {
			continue
		}
		if ax == axisColumn {
			addr.Column = moved
		} else {
			addr.Row = moved
		}
		next.Cells[addr.String()] = cloneCell(cell)
	}

	if ax == axisRow {
		for row, meta := range snap.Rows {
			if moved, ok := shiftPosition(row, at, insert); ok {
				next.Rows[moved] = meta
			}
		}
		for col, meta := range snap.Columns {
			next.Columns[col] = meta
		}
	} else {
		for col, meta := range snap.Columns {
			if moved, ok := shiftPosition(col, at, insert); ok {
				next.Columns[moved] = meta
			}
		}
		for row, meta := range snap.Rows {
			next.Rows[row] = meta
		}
	}

	c.rebuild(next)
	return next
}

// InsertRow returns a snapshot with an empty row inserted at the one-based
// row. cells at or below it move down by one.
func (c *Calculator) InsertRow(snap Snapshot, row int) (Snapshot, error) {
	if row < 1 {
		return Snapshot{}, NewApplicationError(OutOfRange, fmt.Sprintf("Row %d is out of range", row))
	}
	return c.shift(snap, axisRow, row, true), nil
}

// DeleteRow returns a snapshot without the one-based row. cells below it
// move up by one.
func (c *Calculator) DeleteRow(snap Snapshot, row int) (Snapshot, error) {
	if row < 1 {
		return Snapshot{}, NewApplicationError(OutOfRange, fmt.Sprintf("Row %d is out of range", row))
	}
	return c.shift(snap, axisRow, row, false), nil
}

// InsertColumn returns a snapshot with an empty column inserted at letters.
// cells at or right of it move right by one.
func (c *Calculator) InsertColumn(snap Snapshot, letters string) (Snapshot, error) {
	col, err := IndexFromLetters(letters)
	if err != nil {
		return Snapshot{}, wrapApplicationError(InvalidArgument, err)
	}
	return c.shift(snap, axisColumn, col, true), nil
}

// DeleteColumn returns a snapshot without the column at letters. cells right
// of it move left by one.
func (c *Calculator) DeleteColumn(snap Snapshot, letters string) (Snapshot, error) {
	col, err := IndexFromLetters(letters)
	if err != nil {
		return Snapshot{}, wrapApplicationError(InvalidArgument, err)
	}
	return c.shift(snap, axisColumn, col, false), nil
}

// InsertRow inserts a row using default calculator settings
func InsertRow(snap Snapshot, row int) (Snapshot, error) {
	return NewCalculator().InsertRow(snap, row)
}

// DeleteRow deletes a row using default calculator settings
func DeleteRow(snap Snapshot, row int) (Snapshot, error) {
	return NewCalculator().DeleteRow(snap, row)
}

// InsertColumn inserts a column using default calculator settings
func InsertColumn(snap Snapshot, letters string) (Snapshot, error) {
	return NewCalculator().InsertColumn(snap, letters)
}

// DeleteColumn deletes a column using default calculator settings
func DeleteColumn(snap Snapshot, letters string) (Snapshot, error) {
	return NewCalculator().DeleteColumn(snap, letters)
}

// InsertRow inserts an empty row at the one-based row and returns the new
// state
func (s *Spreadsheet) InsertRow(row int) (Snapshot, error) {
	next, err := s.calc.InsertRow(s.snapshot, row)
	if err != nil {
		return Snapshot{}, err
	}
	s.swap(next, "insert row", "row", row)
	return s.Snapshot(), nil
}

// DeleteRow removes the one-based row and returns the new state
func (s *Spreadsheet) DeleteRow(row int) (Snapshot, error) {
	next, err := s.calc.DeleteRow(s.snapshot, row)
	if err != nil {
		return Snapshot{}, err
	}
	s.swap(next, "delete row", "row", row)
	return s.Snapshot(), nil
}

// InsertColumn inserts an empty column at letters and returns the new state
func (s *Spreadsheet) InsertColumn(letters string) (Snapshot, error) {
	next, err := s.calc.InsertColumn(s.snapshot, letters)
	if err != nil {
		return Snapshot{}, err
	}
	s.swap(next, "insert column", "column", letters)
	return s.Snapshot(), nil
}

// DeleteColumn removes the column at letters and returns the new state
func (s *Spreadsheet) DeleteColumn(letters string) (Snapshot, error) {
	next, err := s.calc.DeleteColumn(s.snapshot, letters)
	if err != nil {
		return Snapshot{}, err
	}
	s.swap(next, "delete column", "column", letters)
	return s.Snapshot(), nil
}
