package spreadsheet

import (
	"slices"
	"strings"
)

// addressSet is a set of cell address strings
type addressSet map[string]struct{}

func (s addressSet) sorted() []string {
	result := make([]string, 0, len(s))
	for addr := range s {
		result = append(result, addr)
	}
	slices.SortFunc(result, compareAddresses)
	return result
}

// DependencyGraph manages cell dependencies and calculation order. dependsOn
// and dependents are kept as exact inverses of each other.
type DependencyGraph struct {
	dependsOn  map[string]addressSet // cell -> cells it reads
	dependents map[string]addressSet // cell -> cells that read it
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependsOn:  make(map[string]addressSet),
		dependents: make(map[string]addressSet),
	}
}

// UpdateDependencies replaces the dependencies of a cell. the new edge set
// is built completely before it is installed, so no half-applied state is
// observable.
func (dg *DependencyGraph) UpdateDependencies(cell string, deps []string) {
	next := make(addressSet, len(deps))
	for _, dep := range deps {
		next[dep] = struct{}{}
	}

	// remove this cell from all its old precedents' dependent sets
	for dep := range dg.dependsOn[cell] {
		if _, kept := next[dep]; kept {
			continue
		}
		if observers, exists := dg.dependents[dep]; exists {
			delete(observers, cell)
			if len(observers) == 0 {
				delete(dg.dependents, dep)
			}
		}
	}

	if len(next) == 0 {
		delete(dg.dependsOn, cell)
		return
	}

	dg.dependsOn[cell] = next
	for dep := range next {
		if dg.dependents[dep] == nil {
			dg.dependents[dep] = make(addressSet)
		}
		dg.dependents[dep][cell] = struct{}{}
	}
}

// RemoveCell drops every edge that starts at cell
func (dg *DependencyGraph) RemoveCell(cell string) {
	dg.UpdateDependencies(cell, nil)
}

// GetDependents returns cells directly depending on this cell
func (dg *DependencyGraph) GetDependents(cell string) []string {
	return dg.dependents[cell].sorted()
}

// GetDependencies returns cells this cell directly depends on
func (dg *DependencyGraph) GetDependencies(cell string) []string {
	return dg.dependsOn[cell].sorted()
}

// TopologicalOrder returns the seeds and everything reachable from them
// through the dependents relation, ordered so that a cell comes after every
// cell it reads. the traversal is a depth-first post-order that is reversed
// at the end. a node already on the active path is a cycle; descent stops
// there without reporting it.
func (dg *DependencyGraph) TopologicalOrder(seeds ...string) []string {
	// three states: unvisited (not in map), visiting (false), visited (true)
	state := make(map[string]bool)
	var postOrder []string

	var visit func(cell string)
	visit = func(cell string) {
		if _, seen := state[cell]; seen {
			return
		}

		// mark as visiting
		state[cell] = false

		// sorted for deterministic order
		for _, dependent := range dg.dependents[cell].sorted() {
			visit(dependent)
		}

		// mark as visited
		state[cell] = true
		postOrder = append(postOrder, cell)
	}

	for _, seed := range seeds {
		visit(seed)
	}

	slices.Reverse(postOrder)
	return postOrder
}

// FindCycle returns a dependency path that starts and ends at cell, or nil
// when cell does not reach itself
func (dg *DependencyGraph) FindCycle(cell string) []string {
	visited := make(map[string]struct{})
	path := []string{cell}

	var walk func(current string) bool
	walk = func(current string) bool {
		for _, dep := range dg.dependsOn[current].sorted() {
			if dep == cell {
				path = append(path, dep)
				return true
			}
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			path = append(path, dep)
			if walk(dep) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}

	if walk(cell) {
		return path
	}
	return nil
}

// InCycle reports whether cell reaches itself through its dependencies
func (dg *DependencyGraph) InCycle(cell string) bool {
	return dg.FindCycle(cell) != nil
}

// Size returns the number of cells that have dependencies
func (dg *DependencyGraph) Size() int {
	return len(dg.dependsOn)
}

// EdgeCount returns the number of dependency edges
func (dg *DependencyGraph) EdgeCount() int {
	total := 0
	for _, deps := range dg.dependsOn {
		total += len(deps)
	}
	return total
}

// Clear removes all dependencies from the graph
func (dg *DependencyGraph) Clear() {
	dg.dependsOn = make(map[string]addressSet)
	dg.dependents = make(map[string]addressSet)
}

// Clone returns an independent copy of the graph
func (dg *DependencyGraph) Clone() *DependencyGraph {
	clone := NewDependencyGraph()
	for cell, deps := range dg.dependsOn {
		clone.UpdateDependencies(cell, deps.sorted())
	}
	return clone
}

// consistent checks that both adjacency maps are exact inverses
func (dg *DependencyGraph) consistent() bool {
	for cell, deps := range dg.dependsOn {
		for dep := range deps {
			if _, ok := dg.dependents[dep][cell]; !ok {
				return false
			}
		}
	}
	for dep, observers := range dg.dependents {
		for cell := range observers {
			if _, ok := dg.dependsOn[cell][dep]; !ok {
				return false
			}
		}
	}
	return true
}

// compareAddresses orders addresses by row, then column. unparsable text
// sorts after valid addresses, lexically.
func compareAddresses(a, b string) int {
	aa, aErr := ParseAddress(a)
	bb, bErr := ParseAddress(b)
	switch {
	case aErr != nil && bErr != nil:
		return strings.Compare(a, b)
	case aErr != nil:
		return 1
	case bErr != nil:
		return -1
	}
	if aa.Row != bb.Row {
		return aa.Row - bb.Row
	}
	return aa.Column - bb.Column
}
