package hybrid

import (
	"math/big"
	"testing"

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

// Two transitions share place b; firing either one starves the other.
func createConflictNet() *petri.Net {
	return petri.Build().
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
		Done()
}

func TestFindDeadlockSimpleNet(t *testing.T) {
	result, err := New(createSimpleNet()).FindDeadlock()
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected a deadlock")
	}
	if !result.Marking.Equals(petri.Marking{"p1": true}) {
		t.Errorf("expected deadlock {p1}, got %s", result.Marking)
	}
	if result.Stats.ReachableStates.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("expected 2 reachable states, got %s", result.Stats.ReachableStates)
	}
	// The structural optimum {p1} happens to be reachable, so the first
	// attempt succeeds without cuts.
	if result.Stats.Attempts != 1 || result.Stats.Cuts != 0 {
		t.Errorf("expected 1 attempt and 0 cuts, got %d/%d", result.Stats.Attempts, result.Stats.Cuts)
	}
}

func TestFindDeadlockConflictNet(t *testing.T) {
	net := createConflictNet()
	result, err := New(net).FindDeadlock()
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected a deadlock")
	}
	// Both reachable deadlocks have exactly two marked places; either is
	// a correct answer.
	if !result.Marking.Equals(petri.Marking{"c": true, "d": true}) &&
		!result.Marking.Equals(petri.Marking{"a": true, "e": true}) {
		t.Errorf("unexpected deadlock %s", result.Marking)
	}
	// And it must really be dead.
	for _, tid := range net.SortedTransitionIDs() {
		if net.Enabled(result.Marking, tid) {
			t.Errorf("transition %s is enabled in the reported deadlock %s", tid, result.Marking)
		}
	}
	if result.Stats.ReachableStates.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("expected 3 reachable states, got %s", result.Stats.ReachableStates)
	}
}

func TestFindDeadlockCycleNone(t *testing.T) {
	net := petri.Build().
		Place("idle", 1).
		Place("working", 0).
		Transition("start").
		Transition("finish").
		Flow("idle", "start", "working").
		Flow("working", "finish", "idle").
		Done()

	result, err := New(net).FindDeadlock()
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking != nil {
		t.Errorf("cycle has no deadlock, got %s", result.Marking)
	}
	// Every unreachable structural candidate must have been cut.
	if result.Stats.Attempts != result.Stats.Cuts {
		t.Errorf("a no-deadlock run must cut every attempt, got %d attempts / %d cuts",
			result.Stats.Attempts, result.Stats.Cuts)
	}
}

func TestFindDeadlockAlwaysEnabledShortCircuit(t *testing.T) {
	net := petri.Build().
		Place("p0", 0).
		Transition("spawn").
		Transition("t0").
		Arc("spawn", "p0").
		Arc("p0", "t0").
		Done()

	result, err := New(net).FindDeadlock()
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking != nil {
		t.Errorf("net with an always-enabled transition cannot deadlock, got %s", result.Marking)
	}
	if result.Stats.Attempts != 0 {
		t.Errorf("short circuit must not invoke the solver, got %d attempts", result.Stats.Attempts)
	}
}

func TestOptimizeWeighted(t *testing.T) {
	result, err := New(createSimpleNet()).Optimize(map[string]int{"p0": 1, "p1": 5})
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected an optimal marking")
	}
	// {p0,p1} (objective 6) is unreachable and gets cut; {p1} wins.
	if !result.Marking.Equals(petri.Marking{"p1": true}) || result.Objective != 5 {
		t.Errorf("expected {p1} with objective 5, got %s objective %d", result.Marking, result.Objective)
	}
	if result.Stats.Cuts < 1 {
		t.Error("expected at least one cut before reaching the optimum")
	}
}

func TestOptimizeDefaultObjective(t *testing.T) {
	// Empty weights fall back to maximizing the total marked-place count.
	result, err := New(createConflictNet()).Optimize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected an optimal marking")
	}
	if !result.Marking.Equals(petri.Marking{"a": true, "b": true, "c": true}) {
		t.Errorf("expected the initial marking as optimum, got %s", result.Marking)
	}
	if result.Objective != 3 {
		t.Errorf("expected objective 3, got %d", result.Objective)
	}
}

func TestOptimizeIgnoresUnknownPlaces(t *testing.T) {
	result, err := New(createSimpleNet()).Optimize(map[string]int{"ghost": 100, "p0": 1})
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected an optimal marking")
	}
	if !result.Marking["p0"] || result.Objective != 1 {
		t.Errorf("expected {p0} with objective 1, got %s objective %d", result.Marking, result.Objective)
	}
}

func TestOptimizeUnknownOnlyWeightsFallBack(t *testing.T) {
	// Every weight names a place the net does not have; the search must
	// fall back to maximize-sum instead of degrading to feasibility.
	result, err := New(createSimpleNet()).Optimize(map[string]int{"ghost": 100})
	if err != nil {
		t.Fatal(err)
	}
	if result.Marking == nil {
		t.Fatal("expected an optimal marking")
	}
	// {p0,p1} is unreachable, so the optimum marks exactly one place.
	if result.Marking.Count() != 1 || result.Objective != 1 {
		t.Errorf("expected a single-place marking with objective 1, got %s objective %d",
			result.Marking, result.Objective)
	}
}

func TestProgressCallback(t *testing.T) {
	var events []Event
	orch := New(createSimpleNet(), WithProgress(func(e Event) {
		events = append(events, e)
	}))

	result, err := orch.Optimize(map[string]int{"p0": 1, "p1": 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != result.Stats.Attempts {
		t.Fatalf("expected one event per attempt, got %d events for %d attempts",
			len(events), result.Stats.Attempts)
	}
	last := events[len(events)-1]
	if !last.Reachable {
		t.Error("last event must be the accepted candidate")
	}
	for i, e := range events[:len(events)-1] {
		if e.Reachable {
			t.Errorf("event %d should be a rejected candidate", i)
		}
		if e.Attempt != i+1 {
			t.Errorf("expected attempt number %d, got %d", i+1, e.Attempt)
		}
	}
}

func TestEngineReusedAcrossCalls(t *testing.T) {
	orch := New(createConflictNet())
	first, err := orch.FindDeadlock()
	if err != nil {
		t.Fatal(err)
	}
	second, err := orch.Optimize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.ReachableStates.Cmp(second.Stats.ReachableStates) != 0 {
		t.Error("both calls should report the same reachable set size")
	}
}
