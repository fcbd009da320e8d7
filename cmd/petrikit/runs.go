package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/petrikit/go-petrikit/store"
)

func runsCmd(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite database of recorded runs")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: petrikit runs [options]

List analysis runs recorded with the --db flag of reachable, deadlock
and optimize.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-9s  %-16s  states=%s  attempts=%d",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Mode, run.Net.Name, run.ReachableStates, run.Attempts)
		if run.Found {
			fmt.Printf("  marking={%s}", run.MarkingValue())
			if run.Mode == "optimize" {
				fmt.Printf("  objective=%d", run.Objective)
			}
		}
		fmt.Printf("  (%.3fs)\n", run.ComputeSeconds)
		fmt.Printf("  id: %s\n", run.ID)
	}
	return nil
}
