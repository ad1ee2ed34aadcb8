package spreadsheet

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// AppErrorCode represents gRPC-style error codes for application-level errors.
// note that we are skipping error codes that don't make sense for our use-case,
// like unauthenticated, or permission denied.
type AppErrorCode int

const (
	// OK indicates the operation completed successfully.
	OK AppErrorCode = 0

	// InvalidArgument indicates client specified an invalid argument.
	InvalidArgument AppErrorCode = 3

	// NotFound means some requested entity (e.g., a cell) was not found.
	NotFound AppErrorCode = 5

	// OutOfRange means operation was attempted past the valid range.
	OutOfRange AppErrorCode = 11
)

// AppError represents errors at the application level (not
// spreadsheet formula errors)
type AppError struct {
	Code    AppErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewApplicationError creates a new application error
func NewApplicationError(code AppErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wrapApplicationError creates an application error that unwraps to err
func wrapApplicationError(code AppErrorCode, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// SetResult is what SetCellValue reports back to the view layer
type SetResult struct {
	Cell         *Cell    // copy of the edited cell after evaluation
	Recalculated []string // other cells re-evaluated as a side effect, in order
}

// Spreadsheet is the engine that owns one cell store and its dependency
// graph. it is single-threaded: every operation runs to completion before it
// returns and the type is not safe for concurrent use.
type Spreadsheet struct {
	id       string
	options  Options
	calc     *Calculator
	snapshot Snapshot
	logger   *slog.Logger
}

// NewSpreadsheet creates a new spreadsheet instance
func NewSpreadsheet(opts ...Option) *Spreadsheet {
	o := buildOptions(opts)
	id := uuid.NewString()
	o.Logger = o.Logger.With("spreadsheet", id)

	return &Spreadsheet{
		id:       id,
		options:  o,
		calc:     newCalculator(o),
		snapshot: NewSnapshot(),
		logger:   o.Logger,
	}
}

// ID returns the instance identifier used in log records
func (s *Spreadsheet) ID() string {
	return s.id
}

// SetCellValue writes raw text to a cell and recalculates everything that
// depends on it
func (s *Spreadsheet) SetCellValue(cellID string, raw string) (*SetResult, error) {
	address, err := NormalizeAddress(cellID)
	if err != nil {
		return nil, wrapApplicationError(InvalidArgument, err)
	}

	cell := s.calc.apply(s.snapshot, address, raw)
	recalculated := s.calc.recalculate(s.snapshot, address)

	s.logger.Debug("set cell", "cell", address, "type", cell.Type, "recalculated", len(recalculated))
	return &SetResult{
		Cell:         cloneCell(cell),
		Recalculated: recalculated,
	}, nil
}

// Clear empties a cell. the cell stays in the store.
func (s *Spreadsheet) Clear(cellID string) (*SetResult, error) {
	return s.SetCellValue(cellID, "")
}

// Get returns a copy of the cell at cellID
func (s *Spreadsheet) Get(cellID string) (*Cell, bool) {
	address, err := NormalizeAddress(cellID)
	if err != nil {
		return nil, false
	}
	cell, exists := s.snapshot.Cells[address]
	if !exists {
		return nil, false
	}
	return cloneCell(cell), true
}

// Display returns the display value of a cell, empty for missing cells
func (s *Spreadsheet) Display(cellID string) string {
	cell, exists := s.Get(cellID)
	if !exists {
		return ""
	}
	return cell.DisplayValue
}

// Evaluate computes formula text against the current cells without storing
// anything
func (s *Spreadsheet) Evaluate(formulaText string) Primitive {
	return s.calc.evaluator.Evaluate(formulaText, s.snapshot.Cells, nil)
}

// EvaluateSnapshot computes formula text against a read-only cell store
func EvaluateSnapshot(formulaText string, cells CellStore) Primitive {
	return NewEvaluator().Evaluate(formulaText, cells, nil)
}

// ExpandRange returns the addresses covered by rangeText in row-major order
func (s *Spreadsheet) ExpandRange(rangeText string) ([]string, error) {
	addresses, err := ExpandRange(rangeText)
	if err != nil {
		return nil, wrapApplicationError(InvalidArgument, err)
	}
	return addresses, nil
}

// Snapshot returns a deep copy of the current state
func (s *Spreadsheet) Snapshot() Snapshot {
	return s.snapshot.Clone()
}

// Load replaces the current state with a copy of snap and rebuilds the
// dependency graph from its formula cells
func (s *Spreadsheet) Load(snap Snapshot) {
	next := snap.Clone()
	s.calc.rebuild(next)
	s.snapshot = next
	s.logger.Info("loaded snapshot", "cells", len(next.Cells))
}

// SetRowMeta stores metadata for a one-based row
func (s *Spreadsheet) SetRowMeta(row int, meta RowMeta) error {
	if row < 1 {
		return NewApplicationError(OutOfRange, fmt.Sprintf("Row %d is out of range", row))
	}
	s.snapshot.Rows[row] = meta
	return nil
}

// RowMeta returns the metadata of a row, or the defaults when none is set
func (s *Spreadsheet) RowMeta(row int) RowMeta {
	if meta, exists := s.snapshot.Rows[row]; exists {
		return meta
	}
	return RowMeta{Height: s.options.DefaultRowHeight}
}

// SetColumnMeta stores metadata for a column given by letters
func (s *Spreadsheet) SetColumnMeta(letters string, meta ColumnMeta) error {
	col, err := IndexFromLetters(letters)
	if err != nil {
		return wrapApplicationError(InvalidArgument, err)
	}
	s.snapshot.Columns[col] = meta
	return nil
}

// ColumnMeta returns the metadata of a column, or the defaults when none is
// set
func (s *Spreadsheet) ColumnMeta(letters string) ColumnMeta {
	col, err := IndexFromLetters(letters)
	if err == nil {
		if meta, exists := s.snapshot.Columns[col]; exists {
			return meta
		}
	}
	return ColumnMeta{Width: s.options.DefaultColumnWidth}
}

// SetFormat replaces the presentation attributes of a cell, creating an
// empty cell when needed
func (s *Spreadsheet) SetFormat(cellID string, format CellFormat) error {
	address, err := NormalizeAddress(cellID)
	if err != nil {
		return wrapApplicationError(InvalidArgument, err)
	}
	cell, exists := s.snapshot.Cells[address]
	if !exists {
		cell = &Cell{Type: CellTypeText}
		s.snapshot.Cells[address] = cell
	}
	cell.Format = format
	return nil
}

// CircularCells returns every formula cell currently on a dependency cycle
func (s *Spreadsheet) CircularCells() []string {
	var result []string
	for _, address := range s.snapshot.Addresses() {
		if s.snapshot.Cells[address].Type == CellTypeFormula && s.snapshot.Graph.InCycle(address) {
			result = append(result, address)
		}
	}
	return result
}

// GetDependencyGraph returns the dependency graph for diagnostic purposes
func (s *Spreadsheet) GetDependencyGraph() *DependencyGraph {
	return s.snapshot.Graph
}

// Addresses returns every address in the cell store in row-major order
func (s *Spreadsheet) Addresses() []string {
	return s.snapshot.Addresses()
}

// swap installs the result of a structural operation
func (s *Spreadsheet) swap(next Snapshot, operation string, attrs ...any) {
	s.snapshot = next
	s.logger.Info(operation, append(attrs, "cells", len(next.Cells))...)
}
