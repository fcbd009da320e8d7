// Package search generates candidate markings with a pseudo-Boolean
// solver. A Model holds one binary decision variable per place plus a
// growing set of linear constraints; the hybrid orchestrator asks it for
// optimal or feasible assignments and carves rejected candidates out of
// the feasible region with no-good cuts.
//
// The model is rebuilt from its constraint list on every Solve call, and
// constraints are always emitted in sorted place/transition order, so a
// given constraint set always produces the same problem and the same
// answer. That determinism is what makes refinement runs reproducible.
package search

import (
	"github.com/crillab/gophersat/solver"

	"github.com/petrikit/go-petrikit/petri"
)

// Model is an integer program over one binary variable per place.
type Model struct {
	net    *petri.Net
	places []string       // sorted, defines the variable numbering
	index  map[string]int // place id -> 0-based variable index

	constrs []solver.PBConstr
	weights map[string]int // objective weights, nil until an objective is set

	// excludedAll flags the degenerate no-places case after its single
	// candidate (the empty marking) has been excluded.
	excludedAll bool
}

// NewModel creates a search model for the net with no constraints beyond
// variable declarations and no objective (pure feasibility).
func NewModel(net *petri.Net) *Model {
	m := &Model{
		net:    net,
		places: net.SortedPlaceIDs(),
	}
	m.index = make(map[string]int, len(m.places))
	all := make([]int, len(m.places))
	for i, id := range m.places {
		m.index[id] = i
		all[i] = m.lit(i, true)
	}
	if len(all) > 0 {
		// Trivially satisfied, but registers every decision variable
		// with the solver even when no other constraint mentions it.
		m.constrs = append(m.constrs, solver.AtLeast(all, 0))
	}
	return m
}

// lit returns the solver literal for the i'th place variable, positive
// or negated. Solver variables are 1-based.
func (m *Model) lit(i int, positive bool) int {
	if positive {
		return i + 1
	}
	return -(i + 1)
}

// AddDeadlockConstraints adds, for every transition with a non-empty
// preset, the constraint that at least one preset place is unmarked,
// which disables the transition. A transition with an empty preset
// cannot be disabled by any assignment; it is skipped here and handled
// by the orchestrator.
func (m *Model) AddDeadlockConstraints() {
	for _, tid := range m.net.SortedTransitionIDs() {
		pre := m.net.Preset(tid)
		if len(pre) == 0 {
			continue
		}
		lits := make([]int, len(pre))
		for i, pid := range pre {
			lits[i] = m.lit(m.index[pid], true)
		}
		m.constrs = append(m.constrs, solver.AtMost(lits, len(pre)-1))
	}
}

// SetObjective configures the model to maximize the weighted sum of
// decision variables. Weights for unknown place identifiers are ignored;
// zero weights contribute nothing.
func (m *Model) SetObjective(weights map[string]int) {
	m.weights = make(map[string]int, len(weights))
	for _, pid := range m.places {
		if w := weights[pid]; w != 0 {
			m.weights[pid] = w
		}
	}
}

// HasObjective reports whether the model carries any effective weight.
// Weights naming only unknown places filter down to nothing, leaving the
// model in pure-feasibility mode.
func (m *Model) HasObjective() bool {
	return len(m.weights) > 0
}

// MaximizeTokens configures the unweighted maximize-sum objective,
// biasing the search toward densely marked candidates.
func (m *Model) MaximizeTokens() {
	weights := make(map[string]int, len(m.places))
	for _, pid := range m.places {
		weights[pid] = 1
	}
	m.SetObjective(weights)
}

// Exclude adds a no-good cut removing exactly the given assignment from
// the feasible region: of the |P| literals satisfied by the assignment,
// at most |P|-1 may be satisfied by any future solution. Every other
// assignment falsifies at least one of those literals, so nothing else
// is cut.
func (m *Model) Exclude(assignment petri.Marking) {
	if len(m.places) == 0 {
		m.excludedAll = true
		return
	}
	lits := make([]int, len(m.places))
	for i, pid := range m.places {
		lits[i] = m.lit(i, assignment[pid])
	}
	m.constrs = append(m.constrs, solver.AtMost(lits, len(m.places)-1))
}

// ObjectiveValue returns the weighted sum of the marking under the
// current objective (0 when no objective is set).
func (m *Model) ObjectiveValue(assignment petri.Marking) int {
	total := 0
	for pid, w := range m.weights {
		if assignment[pid] {
			total += w
		}
	}
	return total
}

// Solve invokes the solver over the current constraint set. It returns
// the optimal assignment and its objective value, or ok=false when the
// constraints are infeasible. With no objective set it returns any
// feasible assignment. Given the same constraint set, Solve always
// returns the same answer.
func (m *Model) Solve() (assignment petri.Marking, objective int, ok bool) {
	if len(m.places) == 0 {
		if m.excludedAll {
			return nil, 0, false
		}
		return petri.Marking{}, 0, true
	}

	pb := solver.ParsePBConstrs(m.constrs)

	optimize := false
	if m.weights != nil {
		var lits []solver.Lit
		var costs []int
		for _, pid := range m.places {
			w := m.weights[pid]
			if w > 0 {
				// Maximizing w*x is minimizing w*(1-x): charge w
				// whenever x is false.
				lits = append(lits, solver.IntToLit(int32(m.lit(m.index[pid], false))))
				costs = append(costs, w)
			} else if w < 0 {
				lits = append(lits, solver.IntToLit(int32(m.lit(m.index[pid], true))))
				costs = append(costs, -w)
			}
		}
		if len(lits) > 0 {
			pb.SetCostFunc(lits, costs)
			optimize = true
		}
	}

	s := solver.New(pb)
	if optimize {
		if cost := s.Minimize(); cost < 0 {
			return nil, 0, false
		}
	} else if s.Solve() != solver.Sat {
		return nil, 0, false
	}

	model := s.Model()
	assignment = make(petri.Marking, len(m.places))
	for i, pid := range m.places {
		if i < len(model) && model[i] {
			assignment[pid] = true
		}
	}
	return assignment, m.ObjectiveValue(assignment), true
}
