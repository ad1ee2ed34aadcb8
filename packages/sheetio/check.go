package sheetio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/xuri/efp"

	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

// DiagnosticKind names the reason a formula is outside the supported grammar
type DiagnosticKind string

const (
	DiagnosticNestedCall      DiagnosticKind = "nested-call"
	DiagnosticOperator        DiagnosticKind = "operator"
	DiagnosticCrossSheet      DiagnosticKind = "cross-sheet"
	DiagnosticUnknownFunction DiagnosticKind = "unknown-function"
	DiagnosticMalformed       DiagnosticKind = "malformed"
)

// maxSuggestionDistance bounds the edit distance of a suggested function name
const maxSuggestionDistance = 2

// Diagnostic describes one problem found in a formula
type Diagnostic struct {
	Kind       DiagnosticKind
	Token      string
	Message    string
	Suggestion string // closest supported function name, unknown functions only
}

func (d Diagnostic) String() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %s?)", d.Kind, d.Message, d.Suggestion)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Checker inspects formula text with a full Excel tokenizer and reports the
// constructs the engine's flat NAME(ARGS) grammar cannot evaluate
type Checker struct {
	functions *spreadsheet.BuiltInFunctions
}

// NewChecker creates a Checker for the default function set
func NewChecker() *Checker {
	return &Checker{functions: spreadsheet.NewDefaultBuiltInFunctions()}
}

// CheckFormula checks raw input using the default function set. literals
// yield no diagnostics.
func CheckFormula(raw string) []Diagnostic {
	return NewChecker().Check(raw)
}

// Check returns the diagnostics for raw, nil when the engine can evaluate it
func (c *Checker) Check(raw string) []Diagnostic {
	if !spreadsheet.IsFormula(raw) {
		return nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimPrefix(raw, "="))

	var diagnostics []Diagnostic
	depth := 0
	for i, token := range tokens {
		switch token.TType {
		case efp.TokenTypeFunction:
			if token.TSubType == efp.TokenSubTypeStop {
				depth--
				continue
			}
			if token.TSubType != efp.TokenSubTypeStart {
				continue
			}
			if depth > 0 {
				diagnostics = append(diagnostics, Diagnostic{
					Kind:    DiagnosticNestedCall,
					Token:   token.TValue,
					Message: fmt.Sprintf("%s is called inside another function", token.TValue),
				})
			}
			depth++
			if !c.functions.Has(token.TValue) {
				diagnostics = append(diagnostics, c.unknownFunction(token.TValue))
			}

		case efp.TokenTypeOperatorInfix, efp.TokenTypeOperatorPrefix, efp.TokenTypeOperatorPostfix:
			// a signed number literal is still a single argument
			if token.TType == efp.TokenTypeOperatorPrefix && signsNumber(tokens, i) {
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticOperator,
				Token:   token.TValue,
				Message: fmt.Sprintf("operator %q is not supported", token.TValue),
			})

		case efp.TokenTypeOperand:
			if token.TSubType == efp.TokenSubTypeRange && strings.Contains(token.TValue, "!") {
				diagnostics = append(diagnostics, Diagnostic{
					Kind:    DiagnosticCrossSheet,
					Token:   token.TValue,
					Message: fmt.Sprintf("%s refers to another sheet", token.TValue),
				})
			}
		}
	}

	// anything the flat parser still rejects
	if len(diagnostics) == 0 {
		if _, err := spreadsheet.ParseFormula(raw); err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticMalformed,
				Token:   raw,
				Message: "expected a single NAME(ARGS) call",
			})
		}
	}
	return diagnostics
}

func signsNumber(tokens []efp.Token, i int) bool {
	if i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1]
	return next.TType == efp.TokenTypeOperand && next.TSubType == efp.TokenSubTypeNumber
}

func (c *Checker) unknownFunction(name string) Diagnostic {
	return Diagnostic{
		Kind:       DiagnosticUnknownFunction,
		Token:      name,
		Message:    fmt.Sprintf("%s is not a supported function", name),
		Suggestion: c.suggest(name),
	}
}

// suggest finds the closest supported function name. subsequence matches
// come first, then names within a small edit distance.
func (c *Checker) suggest(name string) string {
	candidates := c.functions.Names()

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		distance := fuzzy.LevenshteinDistance(strings.ToUpper(name), candidate)
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// CheckSheet checks every formula cell of a sheet. the result is keyed by
// address and omits cells without problems.
func CheckSheet(sheet *Sheet) map[string][]Diagnostic {
	checker := NewChecker()
	result := make(map[string][]Diagnostic)
	for address, raw := range sheet.Cells {
		if diagnostics := checker.Check(raw); len(diagnostics) > 0 {
			result[address] = diagnostics
		}
	}
	return result
}
