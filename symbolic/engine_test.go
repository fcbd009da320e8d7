package symbolic

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/petrikit/go-petrikit/explicit"
	"github.com/petrikit/go-petrikit/petri"
)

func createSimpleNet() *petri.Net {
	return petri.Build().
		Place("p0", 1).
		Place("p1", 0).
		Transition("t0").
		Arc("p0", "t0").
		Arc("t0", "p1").
		Done()
}

func TestReachableSimpleNet(t *testing.T) {
	engine, err := NewEngine(createSimpleNet(), Config{})
	if err != nil {
		t.Fatal(err)
	}

	count, err := engine.CountReachable()
	if err != nil {
		t.Fatal(err)
	}
	if count.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected 2 reachable markings, got %s", count)
	}

	for _, tc := range []struct {
		marking petri.Marking
		want    bool
	}{
		{petri.Marking{"p0": true}, true},
		{petri.Marking{"p1": true}, true},
		{petri.Marking{}, false},
		{petri.Marking{"p0": true, "p1": true}, false},
	} {
		got, err := engine.Holds(tc.marking)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Holds(%s) = %v, want %v", tc.marking, got, tc.want)
		}
	}
}

func TestReachableCached(t *testing.T) {
	engine, err := NewEngine(createSimpleNet(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	first, err := engine.Reachable()
	if err != nil {
		t.Fatal(err)
	}
	again, err := engine.Reachable()
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Error("Reachable should return the cached fixed point")
	}
	if engine.Iterations() < 1 {
		t.Errorf("expected at least one image step, got %d", engine.Iterations())
	}
}

func TestReachableNoTransitionsBeyondInitial(t *testing.T) {
	// No transition is ever enabled, so only the initial marking exists.
	net := petri.Build().
		Place("p0", 1).
		Place("p1", 0).
		Transition("t0").
		Arc("p1", "t0").
		Arc("t0", "p0").
		Done()

	engine, err := NewEngine(net, Config{})
	if err != nil {
		t.Fatal(err)
	}
	count, err := engine.CountReachable()
	if err != nil {
		t.Fatal(err)
	}
	if count.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("expected 1 reachable marking, got %s", count)
	}
}

func TestReachableEmptyPresetSaturates(t *testing.T) {
	// spawn has no inputs: it can mark p0 from anywhere, and t0 moves the
	// token on. All four markings over {p0, p1} become reachable.
	net := petri.Build().
		Place("p0", 0).
		Place("p1", 0).
		Transition("spawn").
		Transition("t0").
		Arc("spawn", "p0").
		Arc("p0", "t0").
		Arc("t0", "p1").
		Done()

	engine, err := NewEngine(net, Config{})
	if err != nil {
		t.Fatal(err)
	}
	count, err := engine.CountReachable()
	if err != nil {
		t.Fatal(err)
	}
	if count.Cmp(big.NewInt(4)) != 0 {
		t.Errorf("expected all 4 markings reachable, got %s", count)
	}
}

func TestTrivialNetWithoutPlaces(t *testing.T) {
	net := petri.NewNet()
	net.AddTransition("t0", "")

	engine, err := NewEngine(net, Config{})
	if err != nil {
		t.Fatal(err)
	}
	count, err := engine.CountReachable()
	if err != nil {
		t.Fatal(err)
	}
	if count.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("expected the single empty marking, got %s", count)
	}
	ok, err := engine.Holds(petri.Marking{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("empty marking should hold in the place-free net")
	}
}

// TestAgainstExplicitOracle cross-validates the symbolic fixed point
// against brute-force enumeration on a family of small nets: the counts
// must agree and membership must agree on every enumerated marking.
func TestAgainstExplicitOracle(t *testing.T) {
	nets := map[string]*petri.Net{
		"simple": createSimpleNet(),
		"cycle": petri.Build().
			Place("idle", 1).
			Place("working", 0).
			Transition("start").
			Transition("finish").
			Flow("idle", "start", "working").
			Flow("working", "finish", "idle").
			Done(),
		"conflict": petri.Build().
			Place("a", 1).
			Place("b", 1).
			Place("c", 1).
			Place("d", 0).
			Place("e", 0).
			Transition("t1").
			Transition("t2").
			Arc("a", "t1").
			Arc("b", "t1").
			Arc("t1", "d").
			Arc("b", "t2").
			Arc("c", "t2").
			Arc("t2", "e").
			Done(),
		"chain": petri.Build().
			Place("s0", 1).
			Place("s1", 0).
			Place("s2", 0).
			Place("s3", 0).
			Transition("t1").
			Transition("t2").
			Transition("t3").
			Flow("s0", "t1", "s1").
			Flow("s1", "t2", "s2").
			Flow("s2", "t3", "s3").
			Done(),
		"fork-join": petri.Build().
			Place("in", 1).
			Place("l", 0).
			Place("r", 0).
			Place("out", 0).
			Transition("fork").
			Transition("join").
			Arc("in", "fork").
			Arc("fork", "l").
			Arc("fork", "r").
			Arc("l", "join").
			Arc("r", "join").
			Arc("join", "out").
			Done(),
	}

	for name, net := range nets {
		t.Run(name, func(t *testing.T) {
			oracle, err := explicit.Enumerate(net)
			if err != nil {
				t.Fatal(err)
			}
			engine, err := NewEngine(net, Config{})
			if err != nil {
				t.Fatal(err)
			}
			count, err := engine.CountReachable()
			if err != nil {
				t.Fatal(err)
			}
			if count.Cmp(big.NewInt(int64(oracle.Count))) != 0 {
				t.Errorf("symbolic count %s, explicit count %d", count, oracle.Count)
			}
			for _, m := range oracle.Markings {
				ok, err := engine.Holds(m)
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Errorf("enumerated marking %s not in symbolic set", m)
				}
			}
		})
	}
}

func TestIterationsBounded(t *testing.T) {
	// A linear chain of n places grows the reachable set on exactly n-1
	// image steps before the no-change step detects convergence.
	const n = 6
	b := petri.Build()
	for i := 0; i < n; i++ {
		initial := 0
		if i == 0 {
			initial = 1
		}
		b.Place(fmt.Sprintf("s%d", i), initial)
	}
	for i := 0; i < n-1; i++ {
		b.Transition(fmt.Sprintf("t%d", i)).
			Arc(fmt.Sprintf("s%d", i), fmt.Sprintf("t%d", i)).
			Arc(fmt.Sprintf("t%d", i), fmt.Sprintf("s%d", i+1))
	}

	engine, err := NewEngine(b.Done(), Config{NodeSize: 1000, CacheSize: 500})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Reachable(); err != nil {
		t.Fatal(err)
	}
	if engine.Iterations() != n-1 {
		t.Errorf("expected %d iterations for the chain, got %d", n-1, engine.Iterations())
	}
}
