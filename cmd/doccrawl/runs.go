package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/doccrawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Main.openRuns(c.DB)
	if err != nil {
		return err
	}

	if c.Delete {
		if c.ID == "" {
			return doccrawl.Errorf(doccrawl.EINVALID, "--delete requires a run ID")
		}
		if err := runs.DeleteRun(deps.Ctx, c.ID); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
		return nil
	}

	if c.ID != "" {
		return c.showRun(deps, runs)
	}

	filter := doccrawl.RunFilter{Limit: c.Limit}
	if c.Seed != "" {
		filter.Seed = &c.Seed
	}
	list, err := runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'doccrawl crawl' to start one.")
		return nil
	}

	for _, r := range list {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %3d docs  %3d failed  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.State, r.Documents, r.Failed, r.Seed)
	}
	return nil
}

func (c *RunsCmd) showRun(deps *Dependencies, runs doccrawl.RunService) error {
	run, err := runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		return err
	}
	docs, err := runs.FindRunDocuments(deps.Ctx, run.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s (%s)\n", run.ID, run.State)
	fmt.Fprintf(deps.Stdout, "  seed:     %s\n", run.Seed)
	fmt.Fprintf(deps.Stdout, "  started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(deps.Stdout, "  duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(deps.Stdout, "  visited %d, documents %d, failed %d\n", run.Visited, run.Documents, run.Failed)
	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%4d. %s  %s  %s\n", d.Position+1, d.Title, d.URL, d.ContentHash)
	}
	return nil
}
