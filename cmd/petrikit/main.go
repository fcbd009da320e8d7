package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "validate":
		if err := validateCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summaryCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "reachable":
		if err := reachableCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "deadlock":
		if err := deadlockCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "optimize":
		if err := optimizeCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runsCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("petrikit version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`petrikit - Petri net reachability and deadlock analysis tool

Usage:
  petrikit <command> [options]

Commands:
  validate   Check a net description for structural errors
  summary    Display the structure of a net
  reachable  Count reachable markings with the symbolic engine
  deadlock   Search for a reachable dead marking
  optimize   Find the reachable marking maximizing a weighted objective
  runs       List analysis runs stored in a database
  help       Show this help message
  version    Show version information

Examples:
  # Validate a PNML net
  petrikit validate model.pnml

  # Count the reachable state space
  petrikit reachable model.pnml

  # Hybrid deadlock search, recording the run
  petrikit deadlock model.pnml --db runs.db

  # Maximize tokens in place p5
  petrikit optimize model.pnml p5

For command-specific help, run:
  petrikit <command> --help`)
}
