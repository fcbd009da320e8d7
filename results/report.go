// Package results defines the JSON-serializable record of one analysis
// run, shared by the CLI output files and the run store.
package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/petrikit/go-petrikit/petri"
)

// Analysis modes recorded in reports.
const (
	ModeReachable = "reachable"
	ModeDeadlock  = "deadlock"
	ModeOptimize  = "optimize"
)

// NetSummary captures the shape of the analyzed net.
type NetSummary struct {
	Name        string `json:"name,omitempty"`
	Places      int    `json:"places"`
	Transitions int    `json:"transitions"`
	Arcs        int    `json:"arcs"`
}

// Report is the result record of one analysis run.
type Report struct {
	ID        string     `json:"id"`
	Mode      string     `json:"mode"`
	Net       NetSummary `json:"net"`
	CreatedAt time.Time  `json:"created_at"`

	// ReachableStates is the exact reachable-set size, kept as a
	// decimal string because it can exceed 64 bits.
	ReachableStates    string `json:"reachable_states,omitempty"`
	FixpointIterations int    `json:"fixpoint_iterations,omitempty"`

	// Refinement loop statistics (deadlock/optimize modes).
	Attempts int `json:"attempts,omitempty"`
	Cuts     int `json:"cuts,omitempty"`

	// Found is true when a marking was produced; Marking holds it.
	Found     bool            `json:"found"`
	Marking   map[string]bool `json:"marking,omitempty"`
	Objective int             `json:"objective,omitempty"`

	ComputeSeconds float64 `json:"compute_seconds"`
}

// NewReport creates a report with a fresh id and timestamp.
func NewReport(mode string, net *petri.Net, name string) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
		Net: NetSummary{
			Name:        name,
			Places:      len(net.Places),
			Transitions: len(net.Transitions),
			Arcs:        len(net.Arcs),
		},
	}
}

// SetMarking records a found marking on the report.
func (r *Report) SetMarking(m petri.Marking) {
	r.Found = true
	r.Marking = make(map[string]bool, len(m))
	for place, marked := range m {
		if marked {
			r.Marking[place] = true
		}
	}
}

// MarkingValue returns the recorded marking as a petri.Marking.
func (r *Report) MarkingValue() petri.Marking {
	m := make(petri.Marking, len(r.Marking))
	for place, marked := range r.Marking {
		if marked {
			m[place] = true
		}
	}
	return m
}
