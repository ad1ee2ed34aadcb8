package spreadsheet

import (
	"log/slog"
)

// Calculator applies edits to a snapshot and propagates them through its
// dependency graph. it holds configuration only; all state lives in the
// snapshot passed to each call.
type Calculator struct {
	evaluator *Evaluator
	policy    CircularPolicy
	logger    *slog.Logger
}

// NewCalculator creates a Calculator
func NewCalculator(opts ...Option) *Calculator {
	o := buildOptions(opts)
	return newCalculator(o)
}

func newCalculator(o Options) *Calculator {
	return &Calculator{
		evaluator: NewEvaluator(),
		policy:    o.CircularReferences,
		logger:    o.Logger,
	}
}

// apply writes raw text into the cell at address, creating the cell when
// needed, and updates the graph edges that start at it
func (c *Calculator) apply(snap Snapshot, address string, raw string) *Cell {
	cell, exists := snap.Cells[address]
	if !exists {
		cell = &Cell{Type: CellTypeText}
		snap.Cells[address] = cell
	}

	if IsFormula(raw) {
		cell.Value = raw
		c.evaluateCell(snap, address, cell)
		return cell
	}

	cell.Value = raw
	cell.DisplayValue = raw
	cell.Type = inferType(raw)
	cell.Formula = nil
	snap.Graph.RemoveCell(address)
	return cell
}

// evaluateCell recomputes a formula cell and installs its new dependency set
func (c *Calculator) evaluateCell(snap Snapshot, address string, cell *Cell) {
	deps := NewDependencyList()
	value := c.evaluator.Evaluate(cell.Value, snap.Cells, deps)

	name := ""
	if parsed, err := ParseFormula(cell.Value); err == nil {
		name = parsed.Name
	}

	addresses := deps.Addresses()
	snap.Graph.UpdateDependencies(address, addresses)

	cell.Type = CellTypeFormula
	cell.Formula = &FormulaData{
		Expression:   cell.Value,
		FunctionName: name,
		Dependencies: addresses,
	}
	cell.DisplayValue = Display(value)

	if c.policy == CircularReport {
		if cycle := snap.Graph.FindCycle(address); cycle != nil {
			c.logger.Warn("circular reference", "cell", address, "path", cycle)
			cell.DisplayValue = ErrorMapper[ErrorCodeCircular]
		}
	}
}

// recalculate re-evaluates every formula cell reachable from the seeds
// through the dependents relation, once each, in dependency order. the
// seeds themselves are not re-evaluated. returns the recalculated
// addresses in evaluation order.
func (c *Calculator) recalculate(snap Snapshot, seeds ...string) []string {
	skip := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		skip[seed] = struct{}{}
	}

	recalculated := []string{}
	for _, address := range snap.Graph.TopologicalOrder(seeds...) {
		if _, isSeed := skip[address]; isSeed {
			continue
		}
		cell, exists := snap.Cells[address]
		if !exists || cell.Type != CellTypeFormula {
			continue
		}
		c.evaluateCell(snap, address, cell)
		recalculated = append(recalculated, address)
	}

	c.logger.Debug("recalculated", "seeds", len(seeds), "cells", len(recalculated))
	return recalculated
}

// rebuild clears the graph and registers every formula cell again from its
// stored expression, then recalculates all formulas in dependency order
func (c *Calculator) rebuild(snap Snapshot) {
	snap.Graph.Clear()

	var formulas []string
	for _, address := range snap.Addresses() {
		cell := snap.Cells[address]
		if cell.Type != CellTypeFormula || cell.Formula == nil {
			continue
		}
		// the expression is the source of truth for a formula cell
		cell.Value = cell.Formula.Expression
		c.evaluateCell(snap, address, cell)
		formulas = append(formulas, address)
	}

	// first pass registered edges, second pass computes values in order
	for _, address := range snap.Graph.TopologicalOrder(formulas...) {
		cell, exists := snap.Cells[address]
		if !exists || cell.Type != CellTypeFormula {
			continue
		}
		c.evaluateCell(snap, address, cell)
	}

	c.logger.Debug("rebuilt dependency graph", "formulas", len(formulas), "edges", snap.Graph.EdgeCount())
}
