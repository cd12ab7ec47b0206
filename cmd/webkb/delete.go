package main

import (
	"fmt"

	"github.com/webkb/webkb"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	if !c.Force {
		err := webkb.Errorf(webkb.EINVALID, "deleting run %q removes %d page entries; use --force to confirm", run.ID, run.Pages)
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.RunID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webkb.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s.\n", run.ID)
	return nil
}
