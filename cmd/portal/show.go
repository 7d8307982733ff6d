package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/state"
)

// showOutput is the structured form of one character.
type showOutput struct {
	catalog.Resource `yaml:",inline"`
	Favorite         bool  `json:"favorite" yaml:"favorite"`
	FirstSeen        int   `json:"first_seen,omitempty" yaml:"first_seen,omitempty"`
	Episodes         []int `json:"episodes" yaml:"episodes"`
}

// Show prints one character by id.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("output"))
	if err != nil {
		return err
	}
	raw := cmd.StringArg("id")
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("character id is required")
	}

	env, err := r.openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	_ = env.Favorites.Load(ctx)
	env.Detail.Execute(env.Detail.Load(raw))

	d := env.Store.Detail()
	switch d.Phase {
	case state.Ready:
	case state.Failed:
		return fmt.Errorf("show %s: %w", raw, d.Err)
	default:
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("show %s: no result", raw)
	}

	c := d.Resource
	out := showOutput{
		Resource: c,
		Favorite: env.Favorites.IsFavorite(c.ID),
		Episodes: detail.EpisodeNumbers(c),
	}
	if first, ok := detail.FirstSeen(c); ok {
		out.FirstSeen = first
	}

	if format != formatTable {
		if out.Episodes == nil {
			out.Episodes = []int{}
		}
		return r.writeStructured(format, out)
	}

	tw := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "—"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, value)
	}
	row("ID", strconv.Itoa(c.ID))
	row("Name", c.Name)
	row("Status", c.Status)
	row("Species", c.Species)
	row("Type", c.Type)
	row("Gender", c.Gender)
	row("Origin", c.Origin.Name)
	row("Location", c.Location.Name)
	if out.FirstSeen > 0 {
		row("First seen", fmt.Sprintf("Episode %d", out.FirstSeen))
	}
	row("Episodes", strconv.Itoa(len(c.Episode)))
	if created := c.ParsedCreated(); !created.IsZero() {
		row("Created", created.Format("2006-01-02"))
	}
	favorite := "no"
	if out.Favorite {
		favorite = "yes"
	}
	row("Favorite", favorite)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one character",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags:  []cli.Flag{outputFlag()},
		Action: r.Show,
	}
}
