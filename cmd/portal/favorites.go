package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/five82/portal/internal/detail"
	"github.com/five82/portal/internal/query"
)

// FavoritesList prints the favorite characters, filtered and sorted like
// the favorites view of the TUI.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("output"))
	if err != nil {
		return err
	}

	params := query.Decode(cmd.String("query"))
	params.Favorites = true
	if page := cmd.Int("page"); page > 0 {
		params.Page = page
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

// FavoritesToggle adds or removes a character from the favorites.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	id, err := detail.ParseID(raw)
	if err != nil {
		return err
	}

	env, err := r.openEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Favorites.Load(ctx); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	if env.Favorites.Toggle(id) {
		return r.writePlain("★ added %d (%d favorites)\n", id, env.Favorites.Len())
	}
	return r.writePlain("removed %d (%d favorites)\n", id, env.Favorites.Len())
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "List or change favorite characters",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite characters",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Local filters and sort, e.g. 'status=alive&sortBy=name'",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
					},
					outputFlag(),
				},
				Action: r.FavoritesList,
			},
			{
				Name:      "toggle",
				Usage:     "Add a character to the favorites, or remove it",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.FavoritesToggle,
			},
		},
	}
}
