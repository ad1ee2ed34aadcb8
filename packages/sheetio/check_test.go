package sheetio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFormulaValid(t *testing.T) {
	for _, raw := range []string{
		"=SUM(A1, B2)",
		"=AVERAGE(A1:B3)",
		"=upper(\"hi, there\")",
		"=SUM(-1, 2)",
		"=COUNT()",
	} {
		assert.Empty(t, CheckFormula(raw), raw)
	}
}

func TestCheckFormulaLiteral(t *testing.T) {
	assert.Nil(t, CheckFormula("42"))
	assert.Nil(t, CheckFormula("SUM(A1)"))
}

func TestCheckFormulaUnsupported(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		kind  DiagnosticKind
		token string
	}{
		{"NestedCall", "=SUM(A1, MAX(B1, B2))", DiagnosticNestedCall, "MAX("},
		{"Operator", "=SUM(A1)+1", DiagnosticOperator, "+"},
		{"CrossSheet", "=SUM(Sheet2!A1)", DiagnosticCrossSheet, "Sheet2!A1"},
		{"Malformed", "=A1", DiagnosticMalformed, "=A1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			diagnostics := CheckFormula(c.raw)
			require.Len(t, diagnostics, 1)
			assert.Equal(t, c.kind, diagnostics[0].Kind)
			assert.Contains(t, diagnostics[0].Token, trimParen(c.token))
		})
	}
}

func trimParen(token string) string {
	if n := len(token); n > 0 && token[n-1] == '(' {
		return token[:n-1]
	}
	return token
}

func TestCheckFormulaUnknownFunction(t *testing.T) {
	cases := []struct {
		raw        string
		suggestion string
	}{
		{"=SUMM(A1)", "SUM"},
		{"=AVG(A1, A2)", "AVERAGE"},
		{"=uper(A1)", "UPPER"},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			diagnostics := CheckFormula(c.raw)
			require.Len(t, diagnostics, 1)
			assert.Equal(t, DiagnosticUnknownFunction, diagnostics[0].Kind)
			assert.Equal(t, c.suggestion, diagnostics[0].Suggestion)
			assert.Contains(t, diagnostics[0].String(), "did you mean "+c.suggestion)
		})
	}

	diagnostics := CheckFormula("=ZZZZZZZZ(A1)")
	require.Len(t, diagnostics, 1)
	assert.Empty(t, diagnostics[0].Suggestion)
	assert.NotContains(t, diagnostics[0].String(), "did you mean")
}

func TestCheckSheet(t *testing.T) {
	sheet := NewSheet("Data")
	sheet.Cells["A1"] = "1"
	sheet.Cells["A2"] = "=SUM(A1)"
	sheet.Cells["A3"] = "=SUM(A1)*2"
	sheet.Cells["A4"] = "=MEDIAN(A1)"

	result := CheckSheet(sheet)
	require.Len(t, result, 2)
	assert.Equal(t, DiagnosticOperator, result["A3"][0].Kind)
	assert.Equal(t, DiagnosticUnknownFunction, result["A4"][0].Kind)
}
