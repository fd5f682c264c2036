package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/uni-navigator/internal/store"
)

var favoriteCmd = &cobra.Command{
	Use:     "favorite",
	Aliases: []string{"favorites", "fav"},
	Short:   "Manage favorite universities",
	RunE:    withDeps(runFavoriteList),
}

var favoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite universities",
	RunE:  withDeps(runFavoriteList),
}

var favoriteAddCmd = &cobra.Command{
	Use:   "add <university-id>",
	Short: "Add a university to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		return changeFavorites(ctx, d, args[0], d.store.AddFavorite)
	}),
}

var favoriteRemoveCmd = &cobra.Command{
	Use:     "remove <university-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a university from favorites",
	Args:    cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		return changeFavorites(ctx, d, args[0], d.store.RemoveFavorite)
	}),
}

var favoriteToggleCmd = &cobra.Command{
	Use:   "toggle <university-id>",
	Short: "Add or remove a university from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		return changeFavorites(ctx, d, args[0], d.store.ToggleFavorite)
	}),
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
	favoriteCmd.AddCommand(favoriteListCmd, favoriteAddCmd, favoriteRemoveCmd, favoriteToggleCmd)
}

func changeFavorites(ctx context.Context, d *deps, id string, mutate func(context.Context, string) (store.Snapshot, error)) error {
	if _, err := d.catalog.University(id); err != nil {
		return err
	}
	snap, err := mutate(ctx, id)
	if err != nil {
		return err
	}
	if snap.IsFavorite(id) {
		fmt.Fprintf(d.out, "%s в избранном\n", id)
	} else {
		fmt.Fprintf(d.out, "%s не в избранном\n", id)
	}
	return nil
}

func runFavoriteList(_ context.Context, d *deps, _ *cobra.Command, _ []string) error {
	snap := d.store.Snapshot()
	universities := d.catalog.ResolveUniversities(snap.Favorites)
	if len(universities) == 0 {
		fmt.Fprintln(d.out, "Избранное пусто")
		return nil
	}

	t := newTable(d.out)
	row(t, "ID", "УНИВЕРСИТЕТ", "ГОРОД", "РЕЙТИНГ")
	for _, u := range universities {
		row(t, u.ID, u.Name, u.City, u.NationalRank)
	}
	return t.Flush()
}
