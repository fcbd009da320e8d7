package main

import (
	"flag"
	"fmt"
	"os"
)

func summaryCmd(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: petrikit summary <net file>

Display the places, transitions and arcs of a net, including initial
markings and the preset/postset of each transition.
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
		return err
	}

	fmt.Printf("Net: %s\n", netName(fs.Arg(0)))
	fmt.Printf("Number of places      : %d\n", len(net.Places))
	fmt.Printf("Number of transitions : %d\n", len(net.Transitions))
	fmt.Printf("Number of arcs        : %d\n\n", len(net.Arcs))

	fmt.Println("Places:")
	for _, id := range net.SortedPlaceIDs() {
		p := net.Places[id]
		fmt.Printf("  - %-12s name=%q initial=%d\n", p.ID, p.Name, p.Initial)
	}
	fmt.Println()

	fmt.Println("Transitions:")
	for _, id := range net.SortedTransitionIDs() {
		t := net.Transitions[id]
		fmt.Printf("  - %-12s name=%q preset=%v postset=%v\n",
			t.ID, t.Name, net.Preset(id), net.Postset(id))
	}
	fmt.Println()

	fmt.Println("Arcs:")
	for _, a := range net.Arcs {
		fmt.Printf("  - %-12s %s -> %s\n", a.ID, a.Source, a.Target)
	}

	fmt.Printf("\nInitial marking: %s\n", net.InitialMarking())
	return nil
}
