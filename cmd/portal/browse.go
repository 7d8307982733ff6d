package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Browse launches the interactive catalog browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() > 0 {
		return fmt.Errorf("unknown command %q", cmd.Args().First())
	}

	opts := r.options(cmd)
	opts.Query = cmd.String("query")
	if err := r.run(ctx, opts); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
