package petri

import "fmt"

// Builder provides a fluent API for constructing Petri nets.
// It is mostly a convenience for tests and examples; arcs receive
// generated identifiers a1, a2, ...
//
// Example:
//
//	net := petri.Build().
//	    Place("p0", 1).
//	    Place("p1", 0).
//	    Transition("t0").
//	    Arc("p0", "t0").
//	    Arc("t0", "p1").
//	    Done()
type Builder struct {
	net     *Net
	nextArc int
}

// Build creates a new Builder for constructing a Petri net.
func Build() *Builder {
	return &Builder{net: NewNet()}
}

// Place adds a place with the given id and initial token count.
func (b *Builder) Place(id string, initial int) *Builder {
	b.net.AddPlace(id, "", initial)
	return b
}

// NamedPlace adds a place with a display name.
func (b *Builder) NamedPlace(id, name string, initial int) *Builder {
	b.net.AddPlace(id, name, initial)
	return b
}

// Transition adds a transition with the given id.
func (b *Builder) Transition(id string) *Builder {
	b.net.AddTransition(id, "")
	return b
}

// Arc adds an arc from source to target with a generated identifier.
func (b *Builder) Arc(source, target string) *Builder {
	b.nextArc++
	b.net.AddArc(fmt.Sprintf("a%d", b.nextArc), source, target)
	return b
}

// Flow adds the common place -> transition -> place pattern.
func (b *Builder) Flow(fromPlace, transition, toPlace string) *Builder {
	return b.Arc(fromPlace, transition).Arc(transition, toPlace)
}

// Done returns the constructed net.
func (b *Builder) Done() *Net {
	return b.net
}
