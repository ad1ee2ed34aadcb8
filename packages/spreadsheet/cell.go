package spreadsheet

import (
	"strconv"
	"strings"
	"time"
)

// Primitive represents an evaluated formula value.
// types:
//   - float64: numeric values
//   - string: text values
//   - nil: empty/missing cells
//   - *SpreadsheetError: error values (#DIV/0!, #NAME?, etc.)
type Primitive any

// ErrorCode represents the spreadsheet error codes a cell can display
type ErrorCode uint8

const (
	ErrorCodeDiv0     ErrorCode = 1 // #DIV/0! - average over an empty set
	ErrorCodeValue    ErrorCode = 2 // #VALUE! - wrong type of argument
	ErrorCodeRef      ErrorCode = 3 // #REF! - invalid cell reference
	ErrorCodeName     ErrorCode = 4 // #NAME? - unrecognized function name
	ErrorCodeNA       ErrorCode = 5 // #N/A - value not available
	ErrorCodeCircular ErrorCode = 6 // #CIRCULAR! - formula reaches itself
	ErrorCodeOther    ErrorCode = 7 // #ERROR! - all other errors
)

// ErrorMapper maps error code numbers to their string representations
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeDiv0:     "#DIV/0!",
	ErrorCodeValue:    "#VALUE!",
	ErrorCodeRef:      "#REF!",
	ErrorCodeName:     "#NAME?",
	ErrorCodeNA:       "#N/A",
	ErrorCodeCircular: "#CIRCULAR!",
	ErrorCodeOther:    "#ERROR!",
}

// SpreadsheetError preserves error code for display in cells
type SpreadsheetError struct {
	ErrorCode ErrorCode
	Message   string
}

func (e *SpreadsheetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorMapper[e.ErrorCode]
}

// Code returns the display string of the error, e.g. "#NAME?"
func (e *SpreadsheetError) Code() string {
	return ErrorMapper[e.ErrorCode]
}

func NewSpreadsheetError(code ErrorCode, message string) *SpreadsheetError {
	if message == "" {
		message = ErrorMapper[code]
	}
	return &SpreadsheetError{
		ErrorCode: code,
		Message:   message,
	}
}

// errorCodeFromDisplay returns the error for a display string that is one of
// the known error codes
func errorCodeFromDisplay(s string) (*SpreadsheetError, bool) {
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	for code, text := range ErrorMapper {
		if text == s {
			return NewSpreadsheetError(code, ""), true
		}
	}
	return nil, false
}

// CellType tags how a cell's raw value was interpreted
type CellType string

const (
	CellTypeText    CellType = "text"
	CellTypeNumber  CellType = "number"
	CellTypeFormula CellType = "formula"
	CellTypeDate    CellType = "date"
	CellTypeError   CellType = "error"
)

// FormulaData is the parsed form of a formula cell
type FormulaData struct {
	Expression   string   // full formula text, including the leading =
	FunctionName string   // upper-cased function name, empty when malformed
	Dependencies []string // addresses read during the last evaluation, in order
}

// CellFormat holds presentation attributes. they never take part in
// computation.
type CellFormat struct {
	Bold         bool
	Italic       bool
	Alignment    string
	NumberFormat string
	Color        string
	Background   string
}

// Cell represents a spreadsheet cell with its data and metadata
type Cell struct {
	Value        string       // raw input text
	DisplayValue string       // computed text shown to the user
	Type         CellType     // interpretation of Value
	Formula      *FormulaData // nil unless Type is CellTypeFormula
	Format       CellFormat
}

// NewCell builds an unevaluated cell from raw input. formula cells only
// carry their expression until a Spreadsheet loads them.
func NewCell(raw string) *Cell {
	if IsFormula(raw) {
		return &Cell{
			Value:   raw,
			Type:    CellTypeFormula,
			Formula: &FormulaData{Expression: raw},
		}
	}
	return &Cell{Value: raw, DisplayValue: raw, Type: inferType(raw)}
}

// IsEmpty reports whether the cell carries no value
func (c *Cell) IsEmpty() bool {
	return c == nil || (c.Value == "" && c.Formula == nil)
}

// clear resets the cell to the cleared state. the format is kept.
func (c *Cell) clear() {
	c.Value = ""
	c.DisplayValue = ""
	c.Type = CellTypeText
	c.Formula = nil
}

// RowMeta holds per-row presentation metadata
type RowMeta struct {
	Height float64
	Hidden bool
}

// ColumnMeta holds per-column presentation metadata
type ColumnMeta struct {
	Width  float64
	Hidden bool
}

// CellStore maps address strings to cells. keys are unique, order is not
// meaningful.
type CellStore map[string]*Cell

// Lookup implements CellLookup
func (cs CellStore) Lookup(address string) (*Cell, bool) {
	cell, exists := cs[address]
	return cell, exists
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// inferType classifies non-formula input text
func inferType(text string) CellType {
	if text == "" {
		return CellTypeText
	}
	if _, ok := parseNumber(text); ok {
		return CellTypeNumber
	}
	if _, ok := errorCodeFromDisplay(text); ok {
		return CellTypeError
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
			return CellTypeDate
		}
	}
	return CellTypeText
}

// parseNumber parses decimal text. NaN and infinities are not numbers here.
func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") || strings.HasPrefix(lower, "0x") {
		return 0, false
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
