// Package parser builds validated Petri nets from net description files.
// It supports the PNML interchange format and a compact JSON format.
// Parsing and structural validation never stop at the first problem:
// every violation found is collected into a single error so the caller
// sees the complete list at once.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/petrikit/go-petrikit/petri"
)

// ParseError aggregates every problem found while parsing a net
// description, before structural validation even starts.
type ParseError struct {
	Problems []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid net description: %s", strings.Join(e.Problems, "; "))
}

// pnmlText matches the PNML <name>/<initialMarking> annotation shape,
// where the payload lives in a nested <text> element.
type pnmlText struct {
	Text string `xml:"text"`
}

type pnmlPlace struct {
	ID             string    `xml:"id,attr"`
	Name           *pnmlText `xml:"name"`
	InitialMarking *pnmlText `xml:"initialMarking"`
}

type pnmlTransition struct {
	ID   string    `xml:"id,attr"`
	Name *pnmlText `xml:"name"`
}

type pnmlArc struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// FromPNML parses a PNML document into a validated net. The decoder walks
// every element in the document regardless of nesting (nets, pages,
// subpages) and namespace, mirroring tolerant PNML readers: anything
// that looks like a place, transition or arc is taken.
func FromPNML(data []byte) (*petri.Net, error) {
	net := petri.NewNet()
	var problems []string

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Problems: []string{fmt.Sprintf("invalid PNML: %v", err)}}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "place":
			var raw pnmlPlace
			if err := dec.DecodeElement(&raw, &start); err != nil {
				return nil, &ParseError{Problems: []string{fmt.Sprintf("invalid PNML: %v", err)}}
			}
			if raw.ID == "" {
				problems = append(problems, "a place is missing the id attribute")
				continue
			}
			if _, dup := net.Places[raw.ID]; dup {
				problems = append(problems, fmt.Sprintf("duplicate place id: %s", raw.ID))
				continue
			}
			initial := 0
			if raw.InitialMarking != nil {
				text := strings.TrimSpace(raw.InitialMarking.Text)
				if text != "" {
					v, err := strconv.Atoi(text)
					if err != nil {
						problems = append(problems, fmt.Sprintf("initialMarking of place %s is not an integer: %q", raw.ID, text))
						continue
					}
					initial = v
				}
			}
			net.AddPlace(raw.ID, annotation(raw.Name), initial)

		case "transition":
			var raw pnmlTransition
			if err := dec.DecodeElement(&raw, &start); err != nil {
				return nil, &ParseError{Problems: []string{fmt.Sprintf("invalid PNML: %v", err)}}
			}
			if raw.ID == "" {
				problems = append(problems, "a transition is missing the id attribute")
				continue
			}
			if _, dup := net.Transitions[raw.ID]; dup {
				problems = append(problems, fmt.Sprintf("duplicate transition id: %s", raw.ID))
				continue
			}
			net.AddTransition(raw.ID, annotation(raw.Name))

		case "arc":
			var raw pnmlArc
			if err := dec.DecodeElement(&raw, &start); err != nil {
				return nil, &ParseError{Problems: []string{fmt.Sprintf("invalid PNML: %v", err)}}
			}
			if raw.ID == "" || raw.Source == "" || raw.Target == "" {
				problems = append(problems, fmt.Sprintf("arc %q is missing one of the attributes id/source/target", raw.ID))
				continue
			}
			net.AddArc(raw.ID, raw.Source, raw.Target)
		}
	}

	if len(problems) > 0 {
		return nil, &ParseError{Problems: problems}
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// FromFile reads and parses a net description, dispatching on the file
// extension: .pnml and .xml are treated as PNML, everything else as JSON.
func FromFile(path string) (*petri.Net, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read net description: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pnml", ".xml":
		return FromPNML(data)
	default:
		return FromJSON(data)
	}
}

func annotation(t *pnmlText) string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t.Text)
}
