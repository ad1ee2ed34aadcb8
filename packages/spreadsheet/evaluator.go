package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// CellLookup gives the evaluator read access to cells
type CellLookup interface {
	Lookup(address string) (*Cell, bool)
}

// DependencyRecorder accumulates the addresses a formula reads
type DependencyRecorder interface {
	Record(address string)
}

// DependencyList records addresses in first-seen order without duplicates
type DependencyList struct {
	order []string
	seen  map[string]struct{}
}

// NewDependencyList creates an empty DependencyList
func NewDependencyList() *DependencyList {
	return &DependencyList{seen: make(map[string]struct{})}
}

// Record implements DependencyRecorder
func (dl *DependencyList) Record(address string) {
	if _, exists := dl.seen[address]; exists {
		return
	}
	dl.seen[address] = struct{}{}
	dl.order = append(dl.order, address)
}

// Addresses returns the recorded addresses in first-seen order
func (dl *DependencyList) Addresses() []string {
	result := make([]string, len(dl.order))
	copy(result, dl.order)
	return result
}

type discardRecorder struct{}

func (discardRecorder) Record(string) {}

// Evaluator turns formula text into a value using a function table
type Evaluator struct {
	functions *BuiltInFunctions
}

// NewEvaluator creates an Evaluator over the default functions
func NewEvaluator() *Evaluator {
	return &Evaluator{functions: NewDefaultBuiltInFunctions()}
}

// Functions returns the function table used for dispatch
func (e *Evaluator) Functions() *BuiltInFunctions {
	return e.functions
}

// Evaluate computes the value of text. literals are returned unchanged, a
// formula yields a float64, a string or a *SpreadsheetError. every address
// read is passed to deps, including addresses of empty cells. Evaluate
// never panics.
func (e *Evaluator) Evaluate(text string, lookup CellLookup, deps DependencyRecorder) (result Primitive) {
	if deps == nil {
		deps = discardRecorder{}
	}

	defer func() {
		if r := recover(); r != nil {
			result = NewSpreadsheetError(ErrorCodeOther, fmt.Sprintf("Evaluation failed: %v", r))
		}
	}()

	parsed, err := ParseFormula(text)
	if errors.Is(err, ErrNotFormula) {
		return text
	}
	if err != nil {
		return NewSpreadsheetError(ErrorCodeOther, err.Error())
	}

	args := make([][]Primitive, 0, len(parsed.Args))
	for _, arg := range parsed.Args {
		values, err := e.resolveArgument(arg, lookup, deps)
		if err != nil {
			return NewSpreadsheetError(ErrorCodeOther, err.Error())
		}
		args = append(args, values)
	}

	return e.functions.Call(parsed.Name, args...)
}

// resolveArgument expands references into looked-up values and converts
// everything else into a literal
func (e *Evaluator) resolveArgument(arg string, lookup CellLookup, deps DependencyRecorder) ([]Primitive, error) {
	if IsCellReference(arg) || IsRangeReference(arg) {
		addresses, err := ExpandRange(arg)
		if err != nil {
			return nil, err
		}
		values := make([]Primitive, 0, len(addresses))
		for _, address := range addresses {
			deps.Record(address)
			values = append(values, cellValue(lookup, address))
		}
		return values, nil
	}

	// a token that looks like a reference but does not parse is a fault,
	// not a literal
	if strings.Contains(arg, ":") && !strings.HasPrefix(arg, `"`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, arg)
	}

	if num, ok := parseNumber(arg); ok {
		return []Primitive{num}, nil
	}
	return []Primitive{unquote(arg)}, nil
}

// cellValue resolves a single address: number cells become float64, other
// cells their display text, and missing cells nil
func cellValue(lookup CellLookup, address string) Primitive {
	if lookup == nil {
		return nil
	}
	cell, exists := lookup.Lookup(address)
	if !exists || cell == nil {
		return nil
	}
	if cell.Type == CellTypeNumber {
		if num, ok := parseNumber(cell.DisplayValue); ok {
			return num
		}
	}
	return cell.DisplayValue
}

// Display renders an evaluated value as cell display text
func Display(value Primitive) string {
	return toString(value)
}
