package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/five82/portal/internal/query"
)

// Encode prints the canonical form of a query string.
func (r *Runner) Encode(_ context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", query.Canonical(cmd.StringArg("query")))
}

func encodeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Print the canonical form of a search query",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Action: r.Encode,
	}
}
