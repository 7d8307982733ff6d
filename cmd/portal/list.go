package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/five82/portal/internal/app"
	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/query"
	"github.com/five82/portal/internal/state"
)

// listOutput is the structured form of one result page.
type listOutput struct {
	Address string             `json:"address" yaml:"address"`
	Page    int                `json:"page" yaml:"page"`
	Info    catalog.Info       `json:"info" yaml:"info"`
	Results []catalog.Resource `json:"results" yaml:"results"`
}

// List prints one page of characters for a search query.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("output"))
	if err != nil {
		return err
	}

	params := query.Decode(cmd.String("query"))
	if page := cmd.Int("page"); page > 0 {
		params.Page = page
	}
	if cmd.Bool("favorites") {
		params.Favorites = true
	}

	env, err := r.openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	list, err := runSearch(ctx, env, params)
	if err != nil {
		return err
	}
	return r.printList(format, list, env)
}

// runSearch runs one fetch for params after loading favorites, the same
// sequence the TUI follows at startup.
func runSearch(ctx context.Context, env *app.Env, params query.Params) (state.ListSnapshot, error) {
	// Load degrades to an empty set; the error is already logged.
	_ = env.Favorites.Load(ctx)

	env.Search.Navigate(params)
	env.Search.Execute(env.Search.FavoritesLoaded())

	list := env.Store.List()
	switch list.Phase {
	case state.Ready:
		return list, nil
	case state.Failed:
		return list, fmt.Errorf("list characters: %w", list.Err)
	default:
		if err := ctx.Err(); err != nil {
			return list, err
		}
		return list, fmt.Errorf("list characters: no result")
	}
}

func (r *Runner) printList(format string, list state.ListSnapshot, env *app.Env) error {
	if format != formatTable {
		results := list.Page.Results
		if results == nil {
			results = []catalog.Resource{}
		}
		return r.writeStructured(format, listOutput{
			Address: query.ListLocation(list.Params).String(),
			Page:    list.Params.Page,
			Info:    list.Page.Info,
			Results: results,
		})
	}

	if len(list.Page.Results) == 0 {
		if list.Params.Favorites {
			return r.writePlain("No favorites yet.\n")
		}
		return r.writePlain("No characters found.\n")
	}

	tw := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t★\tNAME\tSTATUS\tSPECIES\tGENDER")
	for _, c := range list.Page.Results {
		star := ""
		if env.Favorites.IsFavorite(c.ID) {
			star = "★"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, star, c.Name, c.Status, c.Species, c.Gender)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return r.writePlain("\npage %d of %d · %d results · %s\n",
		list.Params.Page, list.Page.Info.Pages, list.Page.Info.Count,
		query.ListLocation(list.Params).String())
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List characters matching a search query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Search query, e.g. 'name=rick&status=alive&sortBy=name'",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number (overrides the query)",
			},
			&cli.BoolFlag{
				Name:  "favorites",
				Usage: "Only list favorites",
			},
			outputFlag(),
		},
		Action: r.List,
	}
}
