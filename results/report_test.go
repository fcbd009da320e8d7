package results

import (
	"path/filepath"
	"testing"

	"github.com/petrikit/go-petrikit/petri"
)

func TestNewReport(t *testing.T) {
	net := petri.Build().
		Place("p0", 1).
		Place("p1", 0).
		Transition("t0").
		Arc("p0", "t0").
		Arc("t0", "p1").
		Done()

	report := NewReport(ModeDeadlock, net, "demo")
	if report.ID == "" {
		t.Error("expected a generated id")
	}
	if report.CreatedAt.IsZero() {
		t.Error("expected a timestamp")
	}
	if report.Net.Name != "demo" || report.Net.Places != 2 || report.Net.Transitions != 1 || report.Net.Arcs != 2 {
		t.Errorf("net summary not filled: %+v", report.Net)
	}
	if report.Found {
		t.Error("fresh report should have no marking")
	}
}

func TestSetMarkingRoundTrip(t *testing.T) {
	report := &Report{}
	report.SetMarking(petri.Marking{"a": true, "b": false})

	if !report.Found {
		t.Error("SetMarking should flag the report as found")
	}
	m := report.MarkingValue()
	if !m.Equals(petri.Marking{"a": true}) {
		t.Errorf("expected marking {a}, got %s", m)
	}
}

func TestWriteReadJSON(t *testing.T) {
	net := petri.Build().
		Place("p0", 1).
		Transition("t0").
		Arc("p0", "t0").
		Done()

	report := NewReport(ModeOptimize, net, "demo")
	report.ReachableStates = "2"
	report.Attempts = 3
	report.Cuts = 2
	report.Objective = 5
	report.SetMarking(petri.Marking{"p0": true})

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON(report, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.ID != report.ID || loaded.Mode != ModeOptimize {
		t.Error("identity fields did not survive the round trip")
	}
	if loaded.ReachableStates != "2" || loaded.Attempts != 3 || loaded.Cuts != 2 || loaded.Objective != 5 {
		t.Errorf("statistics did not survive the round trip: %+v", loaded)
	}
	if !loaded.MarkingValue().Equals(petri.Marking{"p0": true}) {
		t.Error("marking did not survive the round trip")
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
