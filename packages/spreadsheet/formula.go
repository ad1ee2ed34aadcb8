package spreadsheet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFormula means the text does not start with "=" and is a literal
	ErrNotFormula = errors.New("not a formula")

	// ErrMalformedFormula means the text starts with "=" but is not a
	// NAME(ARGS) call
	ErrMalformedFormula = errors.New("malformed formula")
)

// callPattern matches the flat NAME(ARGS) grammar. nested calls and
// operators are not part of it.
var callPattern = regexp.MustCompile(`(?s)^([A-Za-z]+)\((.*)\)$`)

// ParsedFormula is a formula split into its function name and raw argument
// tokens
type ParsedFormula struct {
	Name string   // function name, upper-cased
	Args []string // trimmed argument text, quotes preserved
}

// IsFormula reports whether text should be treated as a formula
func IsFormula(text string) bool {
	return strings.HasPrefix(text, "=")
}

// ParseFormula splits "=NAME(a, b, ...)" into a name and argument tokens.
// commas inside double-quoted strings do not split arguments.
func ParseFormula(text string) (*ParsedFormula, error) {
	if !IsFormula(text) {
		return nil, ErrNotFormula
	}

	body := strings.TrimSpace(text[1:])
	match := callPattern.FindStringSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedFormula, text)
	}

	return &ParsedFormula{
		Name: strings.ToUpper(match[1]),
		Args: splitArguments(match[2]),
	}, nil
}

// splitArguments splits on commas outside of quoted runs. a quote preceded
// by a backslash does not toggle the quoted state.
func splitArguments(args string) []string {
	if strings.TrimSpace(args) == "" {
		return []string{}
	}

	var result []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(args); i++ {
		ch := args[i]
		switch {
		case ch == '"' && (i == 0 || args[i-1] != '\\'):
			inString = !inString
			current.WriteByte(ch)
		case ch == ',' && !inString:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}

// unquote strips surrounding double quotes from a literal argument and
// resolves escaped quotes
func unquote(arg string) string {
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return strings.ReplaceAll(arg[1:len(arg)-1], `\"`, `"`)
	}
	return arg
}
