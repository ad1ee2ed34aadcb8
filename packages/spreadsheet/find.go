package spreadsheet

import (
	"regexp"
	"strings"
)

// FindReplaceOptions configures FindAndReplace
type FindReplaceOptions struct {
	Find            string
	Replace         string
	Range           string // optional; empty searches every cell
	MatchCase       bool
	MatchEntireCell bool
}

// FindReplaceResult is the outcome of FindAndReplace
type FindReplaceResult struct {
	Snapshot     Snapshot
	Replaced     []string // cells whose value changed, row-major
	Recalculated []string // formula cells re-evaluated afterwards
}

// FindAndReplace replaces text in non-formula cells. formula cells are
// never searched or changed. replaced cells are re-typed from their new text
// and their dependents recalculated.
func (c *Calculator) FindAndReplace(snap Snapshot, opts FindReplaceOptions) (*FindReplaceResult, error) {
	next := snap.Clone()
	if opts.Find == "" {
		return &FindReplaceResult{Snapshot: next, Replaced: []string{}, Recalculated: []string{}}, nil
	}

	candidates, err := findCandidates(next, opts.Range)
	if err != nil {
		return nil, err
	}

	pattern := regexp.QuoteMeta(opts.Find)
	if !opts.MatchCase {
		pattern = "(?i)" + pattern
	}
	matcher := regexp.MustCompile(pattern)

	replaced := []string{}
	for _, address := range candidates {
		cell := next.Cells[address]

		var updated string
		if opts.MatchEntireCell {
			if !sameText(cell.Value, opts.Find, opts.MatchCase) {
				continue
			}
			updated = opts.Replace
		} else {
			if !matcher.MatchString(cell.Value) {
				continue
			}
			updated = matcher.ReplaceAllLiteralString(cell.Value, opts.Replace)
		}

		cell.Value = updated
		cell.DisplayValue = updated
		cell.Type = inferType(updated)
		cell.Formula = nil
		replaced = append(replaced, address)
	}

	recalculated := c.recalculate(next, replaced...)
	c.logger.Debug("find and replace", "replaced", len(replaced), "recalculated", len(recalculated))

	return &FindReplaceResult{Snapshot: next, Replaced: replaced, Recalculated: recalculated}, nil
}

// findCandidates lists the existing non-formula cells to search, row-major
func findCandidates(snap Snapshot, rangeText string) ([]string, error) {
	var addresses []string
	if strings.TrimSpace(rangeText) == "" {
		addresses = snap.Addresses()
	} else {
		expanded, err := ExpandRange(rangeText)
		if err != nil {
			return nil, wrapApplicationError(InvalidArgument, err)
		}
		addresses = expanded
	}

	result := make([]string, 0, len(addresses))
	for _, address := range addresses {
		cell, exists := snap.Cells[address]
		if !exists || cell.Type == CellTypeFormula {
			continue
		}
		result = append(result, address)
	}
	return result, nil
}

func sameText(a, b string, matchCase bool) bool {
	if matchCase {
		return a == b
	}
	return strings.ToLower(a) == strings.ToLower(b)
}

// FindAndReplace replaces text using default calculator settings
func FindAndReplace(snap Snapshot, opts FindReplaceOptions) (*FindReplaceResult, error) {
	return NewCalculator().FindAndReplace(snap, opts)
}

// FindAndReplace replaces text in the current cells and installs the result
func (s *Spreadsheet) FindAndReplace(opts FindReplaceOptions) (*FindReplaceResult, error) {
	result, err := s.calc.FindAndReplace(s.snapshot, opts)
	if err != nil {
		return nil, err
	}
	s.swap(result.Snapshot, "find and replace", "find", opts.Find, "replaced", len(result.Replaced))
	result.Snapshot = s.Snapshot()
	return result, nil
}
