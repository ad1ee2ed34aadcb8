package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuiltInFunctions contains the supported spreadsheet functions. each
// function receives its arguments already resolved: one []Primitive per
// argument, holding a single value for literals and cell references and
// every value of the rectangle for ranges.
type BuiltInFunctions struct {
	upper cases.Caser
	lower cases.Caser
}

// NewDefaultBuiltInFunctions creates a BuiltInFunctions with default
// implementations
func NewDefaultBuiltInFunctions() *BuiltInFunctions {
	return &BuiltInFunctions{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// Names lists the supported function names
func (bf *BuiltInFunctions) Names() []string {
	return []string{"AVERAGE", "COUNT", "LOWER", "MAX", "MIN", "SUM", "TRIM", "UPPER"}
}

// Has reports whether name is a supported function
func (bf *BuiltInFunctions) Has(name string) bool {
	upper := strings.ToUpper(name)
	for _, n := range bf.Names() {
		if n == upper {
			return true
		}
	}
	return false
}

// Call invokes a built-in function by name with the given arguments
func (bf *BuiltInFunctions) Call(name string, args ...[]Primitive) Primitive {
	switch strings.ToUpper(name) {
	case "SUM":
		return bf.SUM(args...)
	case "AVERAGE":
		return bf.AVERAGE(args...)
	case "COUNT":
		return bf.COUNT(args...)
	case "MAX":
		return bf.MAX(args...)
	case "MIN":
		return bf.MIN(args...)
	case "UPPER":
		return bf.UPPER(args...)
	case "LOWER":
		return bf.LOWER(args...)
	case "TRIM":
		return bf.TRIM(args...)
	default:
		return NewSpreadsheetError(ErrorCodeName, fmt.Sprintf("Unknown function: %s", name))
	}
}

// numbers flattens the arguments into their numeric values. the first error
// value found is returned instead.
func numbers(args [][]Primitive) ([]float64, *SpreadsheetError) {
	var result []float64
	for _, arg := range args {
		for _, value := range arg {
			if err := checkForError(value); err != nil {
				return nil, err
			}
			if num, ok := toNumber(value); ok {
				result = append(result, num)
			}
		}
	}
	return result, nil
}

func (bf *BuiltInFunctions) SUM(args ...[]Primitive) Primitive {
	nums, err := numbers(args)
	if err != nil {
		return err
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return roundFloat(sum)
}

func (bf *BuiltInFunctions) AVERAGE(args ...[]Primitive) Primitive {
	nums, err := numbers(args)
	if err != nil {
		return err
	}
	if len(nums) == 0 {
		return NewSpreadsheetError(ErrorCodeDiv0, "Division by zero")
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return roundFloat(sum / float64(len(nums)))
}

func (bf *BuiltInFunctions) COUNT(args ...[]Primitive) Primitive {
	nums, err := numbers(args)
	if err != nil {
		return err
	}
	return float64(len(nums))
}

// MAX returns 0 for an empty set, unlike AVERAGE
func (bf *BuiltInFunctions) MAX(args ...[]Primitive) Primitive {
	nums, err := numbers(args)
	if err != nil {
		return err
	}
	if len(nums) == 0 {
		return 0.0
	}
	result := math.Inf(-1)
	for _, num := range nums {
		result = math.Max(result, num)
	}
	return result
}

// MIN returns 0 for an empty set, unlike AVERAGE
func (bf *BuiltInFunctions) MIN(args ...[]Primitive) Primitive {
	nums, err := numbers(args)
	if err != nil {
		return err
	}
	if len(nums) == 0 {
		return 0.0
	}
	result := math.Inf(1)
	for _, num := range nums {
		result = math.Min(result, num)
	}
	return result
}

func (bf *BuiltInFunctions) UPPER(args ...[]Primitive) Primitive {
	value, err := singleText(args)
	if err != nil {
		return err
	}
	return bf.upper.String(value)
}

func (bf *BuiltInFunctions) LOWER(args ...[]Primitive) Primitive {
	value, err := singleText(args)
	if err != nil {
		return err
	}
	return bf.lower.String(value)
}

func (bf *BuiltInFunctions) TRIM(args ...[]Primitive) Primitive {
	value, err := singleText(args)
	if err != nil {
		return err
	}
	return strings.TrimSpace(value)
}

// singleText requires exactly one argument resolving to exactly one value.
// an error value is returned as the error.
func singleText(args [][]Primitive) (string, *SpreadsheetError) {
	if len(args) != 1 || len(args[0]) != 1 {
		return "", NewSpreadsheetError(ErrorCodeOther, "Function expects exactly one value")
	}
	if err := checkForError(args[0][0]); err != nil {
		return "", err
	}
	return toString(args[0][0]), nil
}

// checkForError returns the error if value is a *SpreadsheetError or the
// display text of one, nil otherwise
func checkForError(value Primitive) *SpreadsheetError {
	switch v := value.(type) {
	case *SpreadsheetError:
		return v
	case string:
		if err, ok := errorCodeFromDisplay(v); ok {
			return err
		}
	}
	return nil
}

// toNumber converts a resolved value to a number. nil (a missing cell) and
// non-numeric text are not numbers.
func toNumber(value Primitive) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int:
		return float64(v), true
	case string:
		return parseNumber(v)
	default:
		return 0, false
	}
}

// toString converts a resolved value to its display text
func toString(value Primitive) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case *SpreadsheetError:
		return v.Code()
	default:
		return fmt.Sprint(v)
	}
}

// roundFloat drops binary representation noise past 15 decimal places
func roundFloat(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	rounded, err := strconv.ParseFloat(fmt.Sprintf("%.15f", v), 64)
	if err != nil {
		return v
	}
	return rounded
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
