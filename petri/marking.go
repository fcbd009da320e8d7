package petri

import (
	"sort"
	"strings"
)

// Marking is a boolean state of the net: the set of marked places.
// Absent keys and explicit false entries are equivalent.
type Marking map[string]bool

// Copy creates an independent copy of the marking. Only marked places are
// retained, so copies of equal markings are structurally identical.
func (m Marking) Copy() Marking {
	result := make(Marking, len(m))
	for place, marked := range m {
		if marked {
			result[place] = true
		}
	}
	return result
}

// Equals reports whether two markings mark exactly the same places.
func (m Marking) Equals(other Marking) bool {
	for place, marked := range m {
		if marked && !other[place] {
			return false
		}
	}
	for place, marked := range other {
		if marked && !m[place] {
			return false
		}
	}
	return true
}

// MarkedPlaces returns the marked places sorted by identifier.
func (m Marking) MarkedPlaces() []string {
	var places []string
	for place, marked := range m {
		if marked {
			places = append(places, place)
		}
	}
	sort.Strings(places)
	return places
}

// Count returns the number of marked places.
func (m Marking) Count() int {
	count := 0
	for _, marked := range m {
		if marked {
			count++
		}
	}
	return count
}

// String returns a human-readable representation such as "p0, p2",
// or "(empty)" when no place is marked.
func (m Marking) String() string {
	places := m.MarkedPlaces()
	if len(places) == 0 {
		return "(empty)"
	}
	return strings.Join(places, ", ")
}
