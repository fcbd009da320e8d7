package parser

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/petrikit/go-petrikit/petri"
)

// jsonNet is the compact JSON net format:
//
//	{
//	  "places": {
//	    "p0": {"name": "Start", "initial": 1},
//	    "p1": {"initial": 0}
//	  },
//	  "transitions": {
//	    "t0": {"name": "Step"}
//	  },
//	  "arcs": [
//	    {"id": "a1", "source": "p0", "target": "t0"},
//	    {"id": "a2", "source": "t0", "target": "p1"}
//	  ]
//	}
type jsonNet struct {
	Places      map[string]jsonPlace      `json:"places"`
	Transitions map[string]jsonTransition `json:"transitions"`
	Arcs        []jsonArc                 `json:"arcs"`
}

type jsonPlace struct {
	Name    string `json:"name,omitempty"`
	Initial int    `json:"initial"`
}

type jsonTransition struct {
	Name string `json:"name,omitempty"`
}

type jsonArc struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// FromJSON parses a Petri net from JSON bytes and validates it.
// Arcs without an id receive generated identifiers a1, a2, ...
func FromJSON(data []byte) (*petri.Net, error) {
	var raw jsonNet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}

	net := petri.NewNet()
	for id, p := range raw.Places {
		net.AddPlace(id, p.Name, p.Initial)
	}
	for id, t := range raw.Transitions {
		net.AddTransition(id, t.Name)
	}
	for i, a := range raw.Arcs {
		id := a.ID
		if id == "" {
			id = fmt.Sprintf("a%d", i+1)
		}
		net.AddArc(id, a.Source, a.Target)
	}

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// ToJSON serializes a Petri net to indented JSON bytes.
func ToJSON(net *petri.Net) ([]byte, error) {
	out := jsonNet{
		Places:      make(map[string]jsonPlace, len(net.Places)),
		Transitions: make(map[string]jsonTransition, len(net.Transitions)),
	}
	for id, p := range net.Places {
		out.Places[id] = jsonPlace{Name: p.Name, Initial: p.Initial}
	}
	for id, t := range net.Transitions {
		out.Transitions[id] = jsonTransition{Name: t.Name}
	}
	arcs := make([]jsonArc, 0, len(net.Arcs))
	for _, a := range net.Arcs {
		arcs = append(arcs, jsonArc{ID: a.ID, Source: a.Source, Target: a.Target})
	}
	sort.Slice(arcs, func(i, j int) bool { return arcs[i].ID < arcs[j].ID })
	out.Arcs = arcs

	return json.MarshalIndent(out, "", "  ")
}
