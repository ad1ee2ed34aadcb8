package spreadsheet

import (
	"slices"

	"github.com/tiendc/go-deepcopy"
)

// Snapshot holds the complete state of one spreadsheet: the cell store, the
// row and column metadata, and the dependency graph built over the cells.
// structural operations take a snapshot and return a new one; the input is
// never modified.
type Snapshot struct {
	Cells   CellStore
	Rows    map[int]RowMeta    // keyed by one-based row number
	Columns map[int]ColumnMeta // keyed by zero-based column index
	Graph   *DependencyGraph
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() Snapshot {
	return Snapshot{
		Cells:   make(CellStore),
		Rows:    make(map[int]RowMeta),
		Columns: make(map[int]ColumnMeta),
		Graph:   NewDependencyGraph(),
	}
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	clone := NewSnapshot()
	if s.Cells != nil {
		if err := deepcopy.Copy(&clone.Cells, &s.Cells); err != nil {
			clone.Cells = copyCells(s.Cells)
		}
	}
	for row, meta := range s.Rows {
		clone.Rows[row] = meta
	}
	for col, meta := range s.Columns {
		clone.Columns[col] = meta
	}
	if s.Graph != nil {
		clone.Graph = s.Graph.Clone()
	}
	return clone
}

// Addresses returns the cell store keys in row-major order
func (s Snapshot) Addresses() []string {
	result := make([]string, 0, len(s.Cells))
	for address := range s.Cells {
		result = append(result, address)
	}
	slices.SortFunc(result, compareAddresses)
	return result
}

// UsedRange returns the smallest range covering every non-empty cell. ok is
// false when the store holds no values.
func (s Snapshot) UsedRange() (RangeAddress, bool) {
	var used RangeAddress
	found := false
	for address, cell := range s.Cells {
		if cell.IsEmpty() {
			continue
		}
		addr, err := ParseAddress(address)
		if err != nil {
			continue
		}
		if !found {
			used = RangeAddress{Start: addr, End: addr}
			found = true
			continue
		}
		used.Start.Column = min(used.Start.Column, addr.Column)
		used.Start.Row = min(used.Start.Row, addr.Row)
		used.End.Column = max(used.End.Column, addr.Column)
		used.End.Row = max(used.End.Row, addr.Row)
	}
	return used, found
}

func copyCells(cells CellStore) CellStore {
	result := make(CellStore, len(cells))
	for address, cell := range cells {
		result[address] = cloneCell(cell)
	}
	return result
}

func cloneCell(cell *Cell) *Cell {
	if cell == nil {
		return nil
	}
	c := *cell
	if cell.Formula != nil {
		f := *cell.Formula
		f.Dependencies = slices.Clone(cell.Formula.Dependencies)
		c.Formula = &f
	}
	return &c
}
