package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/petrikit/go-petrikit/parser"
	"github.com/petrikit/go-petrikit/petri"
)

func validateCmd(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: petrikit validate <net file>

Parse a net description and report every structural problem found:
duplicate identifiers, dangling arc endpoints, arcs connecting two
nodes of the same type, and empty nets. All problems are listed in a
single pass rather than failing on the first.

Supported formats: PNML (.pnml, .xml) and JSON (anything else).
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("net file required")
	}

	net, err := loadNet(fs.Arg(0))
	if err != nil {
		var parseErr *parser.ParseError
		var validErr *petri.ValidationError
		if errors.As(err, &parseErr) {
			fmt.Println("Net description is invalid:")
			for _, p := range parseErr.Problems {
				fmt.Printf("  - %s\n", p)
			}
		} else if errors.As(err, &validErr) {
			fmt.Println("Net structure is invalid:")
			for _, p := range validErr.Problems {
				fmt.Printf("  - %s\n", p)
			}
		}
		return err
	}

	fmt.Printf("OK: %d places, %d transitions, %d arcs\n",
		len(net.Places), len(net.Transitions), len(net.Arcs))
	return nil
}
