package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/uni-navigator/internal/store"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare up to three programs side by side",
	RunE:  withDeps(runCompareShow),
}

var compareShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the comparison table",
	RunE:  withDeps(runCompareShow),
}

var compareAddCmd = &cobra.Command{
	Use:   "add <university-program>",
	Short: "Add a program to the comparison list",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		id := args[0]
		if _, _, err := d.catalog.Resolve(id); err != nil {
			return err
		}

		before := d.store.Snapshot()
		snap, err := d.store.AddToComparison(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case before.InComparison(id):
			fmt.Fprintf(d.out, "%s уже в сравнении\n", id)
		case !snap.InComparison(id):
			fmt.Fprintf(d.out, "В сравнении может быть не больше %d программ\n", store.MaxComparison)
		default:
			fmt.Fprintf(d.out, "%s добавлена (%d/%d)\n", id, len(snap.Comparison), store.MaxComparison)
		}
		return nil
	}),
}

var compareRemoveCmd = &cobra.Command{
	Use:     "remove <university-program>",
	Aliases: []string{"rm"},
	Short:   "Remove a program from the comparison list",
	Args:    cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		snap, err := d.store.RemoveFromComparison(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(d.out, "В сравнении %d/%d\n", len(snap.Comparison), store.MaxComparison)
		return nil
	}),
}

var compareClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the comparison list",
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, _ []string) error {
		if _, err := d.store.ClearComparison(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Список сравнения очищен")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.AddCommand(compareShowCmd, compareAddCmd, compareRemoveCmd, compareClearCmd)
}

func runCompareShow(_ context.Context, d *deps, _ *cobra.Command, _ []string) error {
	printComparison(d.out, d.catalog.ResolveEntries(d.store.Snapshot().Comparison))
	return nil
}
