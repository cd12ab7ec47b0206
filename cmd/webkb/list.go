package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/webkb/webkb"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawl runs recorded. Run: webkb crawl <url>")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tPAGES\tEDGES\tDUPES\tFAILURES\tSTARTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID, run.SeedURL, run.Pages, run.Edges, run.Duplicates, run.Failures,
			run.StartedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
