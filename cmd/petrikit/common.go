package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petrikit/go-petrikit/parser"
	"github.com/petrikit/go-petrikit/petri"
	"github.com/petrikit/go-petrikit/results"
	"github.com/petrikit/go-petrikit/store"
)

// loadNet parses and validates a net description file.
func loadNet(path string) (*petri.Net, error) {
	net, err := parser.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return net, nil
}

// netName derives a display name from the description file path.
func netName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// saveReport writes the report to the optional output file and database.
func saveReport(report *results.Report, output, dbPath string) error {
	if output != "" {
		if err := results.WriteJSON(report, output); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveRun(report); err != nil {
			return err
		}
	}
	return nil
}

// parseWeights parses a comma-separated list of place=weight pairs.
func parseWeights(spec string) (map[string]int, error) {
	weights := make(map[string]int)
	if spec == "" {
		return weights, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid weight %q, expected place=integer", pair)
		}
		var w int
		if _, err := fmt.Sscanf(value, "%d", &w); err != nil {
			return nil, fmt.Errorf("invalid weight %q, expected place=integer", pair)
		}
		weights[name] = w
	}
	return weights, nil
}
