package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/webkb/webkb"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	if _, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	pages, err := deps.Runs.FindPages(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages recorded for this run.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tBYTES\tDUPLICATE\tFETCHED")
	for _, page := range pages {
		dup := ""
		if page.Duplicate {
			dup = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			page.URL, page.Length, dup, page.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
