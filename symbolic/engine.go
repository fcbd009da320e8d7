// Package symbolic computes the exact reachable state space of a Petri
// net as a canonical Boolean formula, using Binary Decision Diagrams.
//
// An Engine owns one BDD with two variables per place: the current-state
// variable for place i at level 2i and the next-state variable at level
// 2i+1, where i is the position of the place in the lexicographic order
// of place identifiers. This interleaved, sorted order is fixed at
// construction and is part of the engine's reproducibility contract:
// BDD size and fixed-point iteration counts depend on it.
//
// The BDD is canonical (one node per distinct Boolean function), so
// structural node equality is semantic set equality. That is what makes
// the fixed-point termination test correct.
package symbolic

import (
	"fmt"
	"math/big"

	"github.com/dalzilio/rudd"

	"github.com/petrikit/go-petrikit/petri"
)

// Config carries the BDD sizing knobs. Zero values select defaults.
type Config struct {
	NodeSize  int // initial node table size
	CacheSize int // operation cache size
}

const (
	defaultNodeSize  = 10000
	defaultCacheSize = 3000
)

// Engine computes and caches the symbolic reachable set of one net.
// It is not safe for concurrent use: the underlying BDD node table is
// mutated by every formula operation.
type Engine struct {
	net    *petri.Net
	places []string       // sorted place ids, fixed variable order
	index  map[string]int // place id -> position in places
	bdd    *rudd.BDD

	// trivial is set for a net with no places: the only marking is the
	// empty one and no BDD is allocated.
	trivial bool

	currset  rudd.Node     // cube of all current-state variables
	renamer  rudd.Replacer // next-state -> current-state
	relation rudd.Node     // cached transition relation

	reachable  rudd.Node // cached fixed point, write-once
	iterations int
}

// NewEngine creates a symbolic engine for the given net. The net must
// already be validated and is never mutated.
func NewEngine(net *petri.Net, cfg Config) (*Engine, error) {
	e := &Engine{
		net:    net,
		places: net.SortedPlaceIDs(),
	}
	e.index = make(map[string]int, len(e.places))
	for i, id := range e.places {
		e.index[id] = i
	}

	if len(e.places) == 0 {
		e.trivial = true
		return e, nil
	}

	if cfg.NodeSize <= 0 {
		cfg.NodeSize = defaultNodeSize
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	bdd, err := rudd.New(2*len(e.places), rudd.Nodesize(cfg.NodeSize), rudd.Cachesize(cfg.CacheSize))
	if err != nil {
		return nil, fmt.Errorf("initialize bdd: %w", err)
	}
	e.bdd = bdd

	curr := make([]int, len(e.places))
	next := make([]int, len(e.places))
	for i := range e.places {
		curr[i] = e.currVar(i)
		next[i] = e.nextVar(i)
	}
	e.currset = e.bdd.Makeset(curr)
	renamer, err := e.bdd.NewReplacer(next, curr)
	if err != nil {
		return nil, fmt.Errorf("build variable renamer: %w", err)
	}
	e.renamer = renamer

	return e, nil
}

// currVar returns the BDD level of the current-state variable of the
// i'th place; nextVar its next-state companion.
func (e *Engine) currVar(i int) int { return 2 * i }
func (e *Engine) nextVar(i int) int { return 2*i + 1 }

// Places returns the place identifiers in the engine's variable order.
func (e *Engine) Places() []string { return e.places }

// EncodeInitial returns the formula whose single satisfying assignment
// is the initial marking: the conjunction over all places of the
// current-state variable if the place is initially marked, else its
// negation.
func (e *Engine) EncodeInitial() rudd.Node {
	return e.MarkingNode(e.net.InitialMarking())
}

// MarkingNode returns the singleton formula for a concrete marking: a
// full cube over the current-state variables.
func (e *Engine) MarkingNode(m petri.Marking) rudd.Node {
	if e.trivial {
		return nil
	}
	cube := make([]rudd.Node, 0, len(e.places))
	for i, id := range e.places {
		if m[id] {
			cube = append(cube, e.bdd.Ithvar(e.currVar(i)))
		} else {
			cube = append(cube, e.bdd.NIthvar(e.currVar(i)))
		}
	}
	return e.bdd.And(cube...)
}

// TransitionRelation returns the global one-step relation
// T(current, next): the disjunction over all transitions of the
// transition's enabling condition and the frame-rule constraints on the
// next-state variables. The relation is built once and cached.
func (e *Engine) TransitionRelation() rudd.Node {
	if e.trivial {
		return nil
	}
	if e.relation != nil {
		return e.relation
	}

	rel := e.bdd.False()
	for _, tid := range e.net.SortedTransitionIDs() {
		pre := make(map[string]bool)
		for _, p := range e.net.Preset(tid) {
			pre[p] = true
		}
		post := make(map[string]bool)
		for _, p := range e.net.Postset(tid) {
			post[p] = true
		}

		// Enabling condition: all preset places marked. A transition
		// with an empty preset is unconditionally enabled.
		conj := make([]rudd.Node, 0, 2*len(e.places))
		for _, p := range e.net.Preset(tid) {
			conj = append(conj, e.bdd.Ithvar(e.currVar(e.index[p])))
		}

		for i, pid := range e.places {
			switch {
			case pre[pid] && !post[pid]:
				// consumed
				conj = append(conj, e.bdd.NIthvar(e.nextVar(i)))
			case post[pid]:
				// produced, or consumed and produced (passes through)
				conj = append(conj, e.bdd.Ithvar(e.nextVar(i)))
			default:
				// frame axiom: unaffected places keep their value
				conj = append(conj, e.bdd.Equiv(
					e.bdd.Ithvar(e.currVar(i)),
					e.bdd.Ithvar(e.nextVar(i))))
			}
		}

		rel = e.bdd.Or(rel, e.bdd.And(conj...))
	}

	e.relation = rel
	return rel
}

// Reachable computes the set of all reachable markings as the least
// fixed point of the one-step image, starting from the initial marking.
// The result is cached on the engine; subsequent calls return it.
//
// The iterate sequence is monotone increasing under set inclusion and
// bounded by the full assignment space, so it converges. Equality of
// successive iterates is tested on canonical nodes.
func (e *Engine) Reachable() (rudd.Node, error) {
	if e.trivial {
		return nil, nil
	}
	if e.reachable != nil {
		return e.reachable, nil
	}

	reached := e.EncodeInitial()
	relation := e.TransitionRelation()

	// The loop adds at least one marking per iteration, so 2^|places|
	// steps is a hard bound. Exceeding it means the BDD backend failed.
	bound := maxIterations(len(e.places))
	for iter := 0; ; iter++ {
		if iter > bound {
			return nil, fmt.Errorf("fixed point did not converge after %d iterations: %s", iter, e.bdd.Error())
		}
		image := e.bdd.Replace(e.bdd.AndExist(e.currset, reached, relation), e.renamer)
		next := e.bdd.Or(reached, image)
		if e.bdd.Equal(next, reached) {
			e.iterations = iter
			break
		}
		reached = next
	}

	if msg := e.bdd.Error(); msg != "" {
		return nil, fmt.Errorf("bdd error during fixed point: %s", msg)
	}
	e.reachable = reached
	return reached, nil
}

// Iterations returns the number of image steps the fixed point needed.
// Valid after Reachable has been called.
func (e *Engine) Iterations() int { return e.iterations }

// Count returns the number of satisfying assignments of the formula over
// the place variables, i.e. the number of distinct markings it contains.
// Satcount ranges over both current- and next-state variables, and the
// formula constrains only current-state ones, so the raw count is scaled
// down by 2^|places|.
func (e *Engine) Count(n rudd.Node) *big.Int {
	if e.trivial {
		return big.NewInt(1)
	}
	return new(big.Int).Rsh(e.bdd.Satcount(n), uint(len(e.places)))
}

// CountReachable returns the number of distinct reachable markings.
func (e *Engine) CountReachable() (*big.Int, error) {
	if e.trivial {
		return big.NewInt(1), nil
	}
	r, err := e.Reachable()
	if err != nil {
		return nil, err
	}
	return e.Count(r), nil
}

// Intersects reports whether the conjunction of two formulas is
// non-empty.
func (e *Engine) Intersects(a, b rudd.Node) bool {
	if e.trivial {
		return true
	}
	return !e.bdd.Equal(e.bdd.And(a, b), e.bdd.False())
}

// Holds reports whether the marking is in the reachable set.
func (e *Engine) Holds(m petri.Marking) (bool, error) {
	if e.trivial {
		return m.Count() == 0, nil
	}
	r, err := e.Reachable()
	if err != nil {
		return false, err
	}
	return e.Intersects(e.MarkingNode(m), r), nil
}

// maxIterations returns the 2^n convergence bound, saturating for nets
// too large to represent the bound in an int.
func maxIterations(n int) int {
	if n >= 62 {
		return int(^uint(0) >> 1)
	}
	return 1 << uint(n)
}
