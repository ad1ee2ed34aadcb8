package spreadsheet

import (
	"fmt"
	"iter"
	"strings"
)

// RangeAddress represents a rectangle of cells between two corners. the
// corners may be given in any order.
type RangeAddress struct {
	Start CellAddress
	End   CellAddress
}

// ParseRange parses "A1:B2" or a single address "A1" (a one cell range)
func ParseRange(text string) (RangeAddress, error) {
	startText, endText, found := strings.Cut(strings.TrimSpace(text), ":")
	if !found {
		addr, err := ParseAddress(startText)
		if err != nil {
			return RangeAddress{}, err
		}
		return RangeAddress{Start: addr, End: addr}, nil
	}

	start, err := ParseAddress(strings.TrimSpace(startText))
	if err != nil {
		return RangeAddress{}, fmt.Errorf("range %q: %w", text, err)
	}
	end, err := ParseAddress(strings.TrimSpace(endText))
	if err != nil {
		return RangeAddress{}, fmt.Errorf("range %q: %w", text, err)
	}
	return RangeAddress{Start: start, End: end}, nil
}

// Normalize returns the range with Start at the top-left and End at the
// bottom-right
func (r RangeAddress) Normalize() RangeAddress {
	return RangeAddress{
		Start: CellAddress{Column: min(r.Start.Column, r.End.Column), Row: min(r.Start.Row, r.End.Row)},
		End:   CellAddress{Column: max(r.Start.Column, r.End.Column), Row: max(r.Start.Row, r.End.Row)},
	}
}

// String returns the normalized "A1:B2" form
func (r RangeAddress) String() string {
	n := r.Normalize()
	return n.Start.String() + ":" + n.End.String()
}

// Contains checks if an address lies inside the range, inclusive
func (r RangeAddress) Contains(addr CellAddress) bool {
	n := r.Normalize()
	return addr.Column >= n.Start.Column && addr.Column <= n.End.Column &&
		addr.Row >= n.Start.Row && addr.Row <= n.End.Row
}

// Rows returns the number of rows spanned
func (r RangeAddress) Rows() int {
	n := r.Normalize()
	return n.End.Row - n.Start.Row + 1
}

// Columns returns the number of columns spanned
func (r RangeAddress) Columns() int {
	n := r.Normalize()
	return n.End.Column - n.Start.Column + 1
}

// Cells returns an iterator over every address in row-major order: rows
// ascending in the outer loop, columns ascending in the inner loop
func (r RangeAddress) Cells() iter.Seq[CellAddress] {
	n := r.Normalize()
	return func(yield func(CellAddress) bool) {
		for row := n.Start.Row; row <= n.End.Row; row++ {
			for col := n.Start.Column; col <= n.End.Column; col++ {
				if !yield(CellAddress{Column: col, Row: row}) {
					return
				}
			}
		}
	}
}

// ExpandRange returns every address covered by a range or single address, in
// row-major order
func ExpandRange(text string) ([]string, error) {
	r, err := ParseRange(text)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, r.Rows()*r.Columns())
	for addr := range r.Cells() {
		result = append(result, addr.String())
	}
	return result, nil
}

// IsWithin checks whether address lies inside rangeText, inclusive
func IsWithin(address string, rangeText string) (bool, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return false, err
	}
	r, err := ParseRange(rangeText)
	if err != nil {
		return false, err
	}
	return r.Contains(addr), nil
}
