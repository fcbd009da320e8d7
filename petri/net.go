// Package petri implements the core Petri net data structures.
// A Petri net is a bipartite graph of Places (token holders) and
// Transitions (events) connected by Arcs. The analysis packages in this
// module work on the boolean (safe-net) view of a net: a place is either
// marked or unmarked, and initial token counts greater than one are
// binarized to "marked".
package petri

import (
	"fmt"
	"sort"
	"strings"
)

// Place represents a node that can hold tokens.
type Place struct {
	ID      string
	Name    string // optional display name
	Initial int    // initial token count, >= 0
}

// Transition represents an event that consumes tokens from its preset
// places and produces tokens in its postset places.
type Transition struct {
	ID   string
	Name string // optional display name
}

// Arc is a directed connection between a place and a transition.
// Exactly one endpoint must be a place and the other a transition.
type Arc struct {
	ID     string
	Source string
	Target string
}

// Net is an immutable structural representation of a Petri net.
// Build it with NewNet/AddPlace/AddTransition/AddArc (or the fluent
// Builder), call Validate once, and treat it as read-only afterwards.
type Net struct {
	Places      map[string]*Place
	Transitions map[string]*Transition
	Arcs        []*Arc

	// presets/postsets are derived from Arcs on first use and never
	// recomputed, matching the write-once lifecycle of the net.
	presets  map[string][]string
	postsets map[string][]string
}

// NewNet creates an empty Petri net.
func NewNet() *Net {
	return &Net{
		Places:      make(map[string]*Place),
		Transitions: make(map[string]*Transition),
		Arcs:        make([]*Arc, 0),
	}
}

// AddPlace adds a place to the net and returns it.
func (n *Net) AddPlace(id, name string, initial int) *Place {
	p := &Place{ID: id, Name: name, Initial: initial}
	n.Places[id] = p
	return p
}

// AddTransition adds a transition to the net and returns it.
func (n *Net) AddTransition(id, name string) *Transition {
	t := &Transition{ID: id, Name: name}
	n.Transitions[id] = t
	return t
}

// AddArc adds an arc to the net and returns it.
func (n *Net) AddArc(id, source, target string) *Arc {
	a := &Arc{ID: id, Source: source, Target: target}
	n.Arcs = append(n.Arcs, a)
	return a
}

// SortedPlaceIDs returns all place identifiers sorted lexicographically.
// This is the canonical iteration order used by the symbolic and search
// engines; it is part of their reproducibility contract.
func (n *Net) SortedPlaceIDs() []string {
	ids := make([]string, 0, len(n.Places))
	for id := range n.Places {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedTransitionIDs returns all transition identifiers sorted
// lexicographically.
func (n *Net) SortedTransitionIDs() []string {
	ids := make([]string, 0, len(n.Transitions))
	for id := range n.Transitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// deriveFlows builds the preset/postset maps from the arc list. Arcs with
// endpoints that are not a place/transition pair are skipped; Validate
// reports them.
func (n *Net) deriveFlows() {
	if n.presets != nil {
		return
	}
	n.presets = make(map[string][]string, len(n.Transitions))
	n.postsets = make(map[string][]string, len(n.Transitions))
	for _, arc := range n.Arcs {
		if _, ok := n.Places[arc.Source]; ok {
			if _, ok := n.Transitions[arc.Target]; ok {
				n.presets[arc.Target] = append(n.presets[arc.Target], arc.Source)
			}
		} else if _, ok := n.Transitions[arc.Source]; ok {
			if _, ok := n.Places[arc.Target]; ok {
				n.postsets[arc.Source] = append(n.postsets[arc.Source], arc.Target)
			}
		}
	}
	for _, set := range n.presets {
		sort.Strings(set)
	}
	for _, set := range n.postsets {
		sort.Strings(set)
	}
}

// Preset returns the places with an arc into the given transition,
// sorted by identifier. The result must not be modified.
func (n *Net) Preset(transition string) []string {
	n.deriveFlows()
	return n.presets[transition]
}

// Postset returns the places with an arc out of the given transition,
// sorted by identifier. The result must not be modified.
func (n *Net) Postset(transition string) []string {
	n.deriveFlows()
	return n.postsets[transition]
}

// HasAlwaysEnabledTransition reports whether some transition has an empty
// preset. Such a transition is enabled in every marking, so the net can
// never reach a dead marking.
func (n *Net) HasAlwaysEnabledTransition() bool {
	n.deriveFlows()
	for id := range n.Transitions {
		if len(n.presets[id]) == 0 {
			return true
		}
	}
	return false
}

// InitialMarking returns the boolean initial marking: a place is marked
// iff its initial token count is positive.
func (n *Net) InitialMarking() Marking {
	m := make(Marking, len(n.Places))
	for id, p := range n.Places {
		if p.Initial > 0 {
			m[id] = true
		}
	}
	return m
}

// Enabled reports whether the transition is enabled in the given marking,
// i.e. every place in its preset is marked. A transition with an empty
// preset is enabled in every marking.
func (n *Net) Enabled(m Marking, transition string) bool {
	for _, p := range n.Preset(transition) {
		if !m[p] {
			return false
		}
	}
	return true
}

// Fire returns the marking obtained by firing the transition: preset
// places are unmarked, postset places marked, everything else unchanged.
// The caller is responsible for checking Enabled first.
func (n *Net) Fire(m Marking, transition string) Marking {
	next := m.Copy()
	for _, p := range n.Preset(transition) {
		delete(next, p)
	}
	for _, p := range n.Postset(transition) {
		next[p] = true
	}
	return next
}

// ValidationError aggregates every structural problem found in a net.
// Validation never stops at the first violation, so callers see the full
// list at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid net: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the structural invariants of the net: place and
// transition identifiers must be disjoint, arc endpoints must exist, each
// arc must connect a place and a transition, and the net must have at
// least one place and one transition. It returns a *ValidationError
// listing every violation, or nil.
func (n *Net) Validate() error {
	var problems []string

	if len(n.Places) == 0 {
		problems = append(problems, "the net has no places")
	}
	if len(n.Transitions) == 0 {
		problems = append(problems, "the net has no transitions")
	}

	kind := make(map[string]string, len(n.Places)+len(n.Transitions))
	for _, id := range n.SortedPlaceIDs() {
		kind[id] = "place"
	}
	for _, id := range n.SortedTransitionIDs() {
		if _, dup := kind[id]; dup {
			problems = append(problems, fmt.Sprintf("duplicate id between place and transition: %s", id))
			continue
		}
		kind[id] = "transition"
	}

	for _, arc := range n.Arcs {
		srcKind, srcOK := kind[arc.Source]
		tgtKind, tgtOK := kind[arc.Target]
		if !srcOK {
			problems = append(problems, fmt.Sprintf("arc %s refers to non-existing source node %q", arc.ID, arc.Source))
		}
		if !tgtOK {
			problems = append(problems, fmt.Sprintf("arc %s refers to non-existing target node %q", arc.ID, arc.Target))
		}
		if srcOK && tgtOK && srcKind == tgtKind {
			problems = append(problems, fmt.Sprintf("arc %s connects two %ss (%s -> %s), which is not valid in a Petri net",
				arc.ID, srcKind, arc.Source, arc.Target))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
