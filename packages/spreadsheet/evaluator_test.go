package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store builds a cell store from raw literal values
func store(values map[string]string) CellStore {
	cells := make(CellStore, len(values))
	for address, raw := range values {
		cells[address] = &Cell{Value: raw, DisplayValue: raw, Type: inferType(raw)}
	}
	return cells
}

func assertSpreadsheetError(t *testing.T, value Primitive, code ErrorCode) {
	t.Helper()
	err, ok := value.(*SpreadsheetError)
	if assert.True(t, ok, "want %s, got %v (%T)", ErrorMapper[code], value, value) {
		assert.Equal(t, code, err.ErrorCode)
	}
}

func TestEvaluateLiterals(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, "hello", e.Evaluate("hello", nil, nil))
	assert.Equal(t, "42", e.Evaluate("42", nil, nil))
	assert.Equal(t, "", e.Evaluate("", nil, nil))
}

func TestEvaluateMalformed(t *testing.T) {
	e := NewEvaluator()
	for _, text := range []string{"=", "=SUM(", "=1+2", "=SUM(A1:)", "=SUM(A1:B)"} {
		assertSpreadsheetError(t, e.Evaluate(text, CellStore{}, nil), ErrorCodeOther)
	}
}

func TestEvaluateSum(t *testing.T) {
	e := NewEvaluator()
	cells := store(map[string]string{"A1": "1", "A2": "2"})

	deps := NewDependencyList()
	result := e.Evaluate("=SUM(A1:A3)", cells, deps)
	assert.Equal(t, 3.0, result)
	assert.Equal(t, []string{"A1", "A2", "A3"}, deps.Addresses())

	assert.Equal(t, 0.3, e.Evaluate("=SUM(0.1, 0.2)", nil, nil))
	assert.Equal(t, 0.0, e.Evaluate("=SUM()", nil, nil))
	assert.Equal(t, 6.0, e.Evaluate("=sum(1, 2, 3)", nil, nil))
}

func TestEvaluateDependencies(t *testing.T) {
	e := NewEvaluator()
	cells := store(map[string]string{"A1": "1"})

	deps := NewDependencyList()
	e.Evaluate("=SUM(A1, A1:B1, B1, C9)", cells, deps)
	assert.Equal(t, []string{"A1", "B1", "C9"}, deps.Addresses())

	// literals record nothing
	deps = NewDependencyList()
	e.Evaluate(`=UPPER("A1")`, cells, deps)
	assert.Empty(t, deps.Addresses())
}

func TestEvaluateAggregates(t *testing.T) {
	e := NewEvaluator()
	cells := store(map[string]string{
		"A1": "4",
		"A2": "text",
		"A3": "8",
		"B1": "-3",
	})

	assert.Equal(t, 6.0, e.Evaluate("=AVERAGE(A1:A4)", cells, nil))
	assert.Equal(t, 2.0, e.Evaluate("=COUNT(A1:A4)", cells, nil))
	assert.Equal(t, 8.0, e.Evaluate("=MAX(A1:B3)", cells, nil))
	assert.Equal(t, -3.0, e.Evaluate("=MIN(A1:B3)", cells, nil))

	t.Run("EmptySet", func(t *testing.T) {
		assertSpreadsheetError(t, e.Evaluate("=AVERAGE()", nil, nil), ErrorCodeDiv0)
		assertSpreadsheetError(t, e.Evaluate("=AVERAGE(C1:C5)", cells, nil), ErrorCodeDiv0)
		assert.Equal(t, 0.0, e.Evaluate("=MAX()", nil, nil))
		assert.Equal(t, 0.0, e.Evaluate("=MIN(C1:C5)", cells, nil))
		assert.Equal(t, 0.0, e.Evaluate("=COUNT(C1:C5)", cells, nil))
		assert.Equal(t, 0.0, e.Evaluate("=SUM(C1:C5)", cells, nil))
	})

	t.Run("Rounding", func(t *testing.T) {
		assert.Equal(t, 0.15, e.Evaluate("=AVERAGE(0.1, 0.2)", nil, nil))
		assert.Equal(t, "0.15", Display(e.Evaluate("=AVERAGE(0.1, 0.2)", nil, nil)))
		assert.Equal(t, "0.3", Display(e.Evaluate("=SUM(0.1, 0.2)", nil, nil)))
	})
}

func TestEvaluateTextFunctions(t *testing.T) {
	e := NewEvaluator()
	cells := store(map[string]string{"A1": "MiXeD", "A2": "  padded  "})

	assert.Equal(t, "HELLO", e.Evaluate(`=UPPER("hello")`, nil, nil))
	assert.Equal(t, "mixed", e.Evaluate("=LOWER(A1)", cells, nil))
	assert.Equal(t, "padded", e.Evaluate("=TRIM(A2)", cells, nil))
	assert.Equal(t, "hi", e.Evaluate(`=TRIM("  hi  ")`, nil, nil))
	assert.Equal(t, "", e.Evaluate("=UPPER(Z99)", cells, nil))

	t.Run("Arity", func(t *testing.T) {
		assertSpreadsheetError(t, e.Evaluate(`=UPPER("a", "b")`, nil, nil), ErrorCodeOther)
		assertSpreadsheetError(t, e.Evaluate("=LOWER()", nil, nil), ErrorCodeOther)
		assertSpreadsheetError(t, e.Evaluate("=TRIM(A1:A2)", cells, nil), ErrorCodeOther)
	})

	t.Run("ErrorInput", func(t *testing.T) {
		errs := store(map[string]string{"A1": "#NAME?", "A2": "#DIV/0!"})
		assertSpreadsheetError(t, e.Evaluate("=LOWER(A1)", errs, nil), ErrorCodeName)
		assertSpreadsheetError(t, e.Evaluate("=UPPER(A2)", errs, nil), ErrorCodeDiv0)
		assertSpreadsheetError(t, e.Evaluate("=TRIM(A1)", errs, nil), ErrorCodeName)
		assert.Equal(t, "#NAME?", Display(e.Evaluate("=LOWER(A1)", errs, nil)))
	})
}

func TestEvaluateUnknownFunction(t *testing.T) {
	e := NewEvaluator()
	result := e.Evaluate("=FOO(1)", nil, nil)
	assertSpreadsheetError(t, result, ErrorCodeName)
	assert.Equal(t, "#NAME?", Display(result))
}

func TestEvaluateErrorPropagation(t *testing.T) {
	e := NewEvaluator()
	cells := store(map[string]string{"A1": "1", "A2": "#REF!", "A3": "#DIV/0!"})

	assertSpreadsheetError(t, e.Evaluate("=SUM(A1:A3)", cells, nil), ErrorCodeRef)
	assertSpreadsheetError(t, e.Evaluate("=MAX(A3, A2)", cells, nil), ErrorCodeDiv0)
	assertSpreadsheetError(t, e.Evaluate("=COUNT(A2)", cells, nil), ErrorCodeRef)
}

func TestEvaluateFormulaCellValues(t *testing.T) {
	e := NewEvaluator()
	cells := CellStore{
		"A1": {Value: "=SUM(1, 2)", DisplayValue: "3", Type: CellTypeFormula},
		"A2": {Value: "2", DisplayValue: "2", Type: CellTypeNumber},
	}
	assert.Equal(t, 5.0, e.Evaluate("=SUM(A1:A2)", cells, nil))
}

func TestEvaluateSnapshot(t *testing.T) {
	cells := store(map[string]string{"A1": "10", "A2": "20"})
	assert.Equal(t, 15.0, EvaluateSnapshot("=AVERAGE(A1:A2)", cells))
	require.Len(t, cells, 2)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "", Display(nil))
	assert.Equal(t, "3", Display(3.0))
	assert.Equal(t, "0.5", Display(0.5))
	assert.Equal(t, "-2.25", Display(-2.25))
	assert.Equal(t, "text", Display("text"))
	assert.Equal(t, "#DIV/0!", Display(NewSpreadsheetError(ErrorCodeDiv0, "")))
}

func TestBuiltInFunctionsHas(t *testing.T) {
	bf := NewDefaultBuiltInFunctions()
	assert.True(t, bf.Has("sum"))
	assert.True(t, bf.Has("TRIM"))
	assert.False(t, bf.Has("VLOOKUP"))
	assert.Len(t, bf.Names(), 8)
}

func TestInferType(t *testing.T) {
	cases := map[string]CellType{
		"":           CellTypeText,
		"42":         CellTypeNumber,
		"-1.5":       CellTypeNumber,
		"1e3":        CellTypeNumber,
		"NaN":        CellTypeText,
		"Inf":        CellTypeText,
		"0x1F":       CellTypeText,
		"#N/A":       CellTypeError,
		"#CIRCULAR!": CellTypeError,
		"#hashtag":   CellTypeText,
		"2024-01-15": CellTypeDate,
		"1/15/2024":  CellTypeDate,
		"hello":      CellTypeText,
	}
	for raw, want := range cases {
		assert.Equal(t, want, inferType(raw), raw)
	}
}
