// Package explicit enumerates the reachable markings of a Petri net by
// breadth-first search over concrete states. It exists as a correctness
// oracle for the symbolic engine on small nets and backs the
// cross-validation tests; the production search path never uses it.
package explicit

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/petrikit/go-petrikit/petri"
)

// ErrTooManyPlaces is returned for nets whose boolean markings do not
// fit in the 256-bit bitmask encoding.
var ErrTooManyPlaces = errors.New("explicit: net has more than 256 places")

// Result holds the enumerated state space.
type Result struct {
	// Count is the number of distinct reachable markings.
	Count int
	// Markings lists every reachable marking, in discovery (BFS) order.
	Markings []petri.Marking
	// Deadlocks lists the reachable markings with no enabled transition.
	Deadlocks []petri.Marking
}

// Contains reports whether the marking was enumerated.
func (r *Result) Contains(m petri.Marking) bool {
	for _, known := range r.Markings {
		if known.Equals(m) {
			return true
		}
	}
	return false
}

// flow is a transition compiled to bitmasks over the place ordering.
type flow struct {
	id     string
	pre    uint256.Int
	notPre uint256.Int // complement of pre, for token removal
	post   uint256.Int
}

// Enumerate explores all markings reachable from the net's initial
// marking. Markings are encoded as 256-bit masks with bit i standing
// for the i'th place in sorted-identifier order, so the visited set is
// a plain map keyed by value.
func Enumerate(net *petri.Net) (*Result, error) {
	places := net.SortedPlaceIDs()
	if len(places) > 256 {
		return nil, fmt.Errorf("%w (%d)", ErrTooManyPlaces, len(places))
	}
	index := make(map[string]int, len(places))
	for i, id := range places {
		index[id] = i
	}

	bit := func(i int) *uint256.Int {
		return new(uint256.Int).Lsh(uint256.NewInt(1), uint(i))
	}

	flows := make([]flow, 0, len(net.Transitions))
	for _, tid := range net.SortedTransitionIDs() {
		var f flow
		f.id = tid
		for _, pid := range net.Preset(tid) {
			f.pre.Or(&f.pre, bit(index[pid]))
		}
		for _, pid := range net.Postset(tid) {
			f.post.Or(&f.post, bit(index[pid]))
		}
		f.notPre.Not(&f.pre)
		flows = append(flows, f)
	}

	var initial uint256.Int
	for pid, marked := range net.InitialMarking() {
		if marked {
			initial.Or(&initial, bit(index[pid]))
		}
	}

	visited := map[uint256.Int]bool{initial: true}
	queue := []uint256.Int{initial}
	result := &Result{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		decoded := decode(&current, places)
		result.Markings = append(result.Markings, decoded)

		enabled := false
		for i := range flows {
			f := &flows[i]
			var have uint256.Int
			have.And(&current, &f.pre)
			if !have.Eq(&f.pre) {
				continue
			}
			enabled = true

			// fire: (current &^ pre) | post
			var next uint256.Int
			next.And(&current, &f.notPre)
			next.Or(&next, &f.post)

			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
		if !enabled {
			result.Deadlocks = append(result.Deadlocks, decoded)
		}
	}

	result.Count = len(result.Markings)
	return result, nil
}

// decode expands a bitmask back into a marking over place identifiers.
func decode(mask *uint256.Int, places []string) petri.Marking {
	m := make(petri.Marking)
	for i, pid := range places {
		var probe uint256.Int
		probe.Lsh(uint256.NewInt(1), uint(i))
		probe.And(&probe, mask)
		if !probe.IsZero() {
			m[pid] = true
		}
	}
	return m
}
