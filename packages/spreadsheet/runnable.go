package spreadsheet

import (
	"fmt"
)

// RunnableSpreadsheet provides a chainable interface for
// spreadsheet operations. wraps the standard Spreadsheet and tracks
// errors internally
type RunnableSpreadsheet struct {
	spreadsheet *Spreadsheet
	err         error
	printLn     func(string)
}

// NewRunnableSpreadsheet creates a new RunnableSpreadsheet. printLn is
// required and will be used for all logging operations (Log, CheckError)
func NewRunnableSpreadsheet(printLn func(string), opts ...Option) *RunnableSpreadsheet {
	return &RunnableSpreadsheet{
		spreadsheet: NewSpreadsheet(opts...),
		err:         nil,
		printLn:     printLn,
	}
}

// Set sets a cell value (chainable)
func (r *RunnableSpreadsheet) Set(address string, raw string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	_, r.err = r.spreadsheet.SetCellValue(address, raw)
	return r
}

// SetBatch sets cells in the given order (chainable)
func (r *RunnableSpreadsheet) SetBatch(pairs ...[2]string) *RunnableSpreadsheet {
	for _, pair := range pairs {
		if r.Set(pair[0], pair[1]).err != nil {
			return r
		}
	}
	return r
}

// InsertRow inserts a row (chainable)
func (r *RunnableSpreadsheet) InsertRow(row int) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.InsertRow(row)
	return r
}

// DeleteRow deletes a row (chainable)
func (r *RunnableSpreadsheet) DeleteRow(row int) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.DeleteRow(row)
	return r
}

// InsertColumn inserts a column (chainable)
func (r *RunnableSpreadsheet) InsertColumn(letters string) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.InsertColumn(letters)
	return r
}

// DeleteColumn deletes a column (chainable)
func (r *RunnableSpreadsheet) DeleteColumn(letters string) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.DeleteColumn(letters)
	return r
}

// RemoveDuplicateRows removes duplicate rows (chainable)
func (r *RunnableSpreadsheet) RemoveDuplicateRows(rangeText string, columns []string, hasHeaderRow bool) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.RemoveDuplicateRows(rangeText, columns, hasHeaderRow)
	return r
}

// FindAndReplace replaces text (chainable)
func (r *RunnableSpreadsheet) FindAndReplace(opts FindReplaceOptions) *RunnableSpreadsheet {
	if r.err != nil {
		return r
	}
	_, r.err = r.spreadsheet.FindAndReplace(opts)
	return r
}

// Run returns the spreadsheet and any error. typically the last method in
// the chain
func (r *RunnableSpreadsheet) Run() (*Spreadsheet, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.spreadsheet, nil
}

// RunOrPanic returns the spreadsheet and panics if there's an error. useful
// for examples and tests where you want to fail fast
func (r *RunnableSpreadsheet) RunOrPanic() *Spreadsheet {
	spreadsheet, err := r.Run()
	if err != nil {
		panic(err)
	}
	return spreadsheet
}

// Error returns the current error state
func (r *RunnableSpreadsheet) Error() error {
	return r.err
}

// CheckError logs the current error using the PrintLn function (chainable)
func (r *RunnableSpreadsheet) CheckError() *RunnableSpreadsheet {
	if r.err != nil {
		r.printLn(fmt.Sprintf("ERROR: %v", r.err))
	} else {
		r.printLn("No errors")
	}
	return r
}

// Spreadsheet returns the underlying spreadsheet. use with caution as it
// bypasses error tracking.
func (r *RunnableSpreadsheet) Spreadsheet() *Spreadsheet {
	return r.spreadsheet
}

// Reset clears the error state (chainable)
func (r *RunnableSpreadsheet) Reset() *RunnableSpreadsheet {
	r.err = nil
	return r
}

// Then allows conditional execution based on current error state
func (r *RunnableSpreadsheet) Then(fn func(*RunnableSpreadsheet) *RunnableSpreadsheet) *RunnableSpreadsheet {
	if r.err != nil {
		return r // skip if there's an error
	}
	return fn(r)
}

// OnError allows error handling in the chain
func (r *RunnableSpreadsheet) OnError(fn func(error) error) *RunnableSpreadsheet {
	if r.err != nil {
		r.err = fn(r.err)
	}
	return r
}

// Must panics if there's an error (chainable)
func (r *RunnableSpreadsheet) Must() *RunnableSpreadsheet {
	if r.err != nil {
		panic(r.err)
	}
	return r
}

// Value returns the display value of a cell.
// example: NewRunnableSpreadsheet(fn).Set("A1", "10").Set("A2", "=SUM(A1)").Value("A2")
func (r *RunnableSpreadsheet) Value(address string) string {
	if r.err != nil {
		return ""
	}
	return r.spreadsheet.Display(address)
}

// Values returns the display values of several cells
func (r *RunnableSpreadsheet) Values(addresses ...string) []string {
	if r.err != nil {
		return nil
	}
	values := make([]string, len(addresses))
	for i, address := range addresses {
		values[i] = r.spreadsheet.Display(address)
	}
	return values
}

// Log logs the value of a cell using the provided PrintLn function (chainable)
func (r *RunnableSpreadsheet) Log(address string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}

	cell, exists := r.spreadsheet.Get(address)

	// fmt the output
	var output string
	if !exists || cell.IsEmpty() {
		output = fmt.Sprintf("%s: <empty>", address)
	} else {
		output = fmt.Sprintf("%s: %s", address, cell.DisplayValue)
	}

	r.printLn(output)
	return r
}
