package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [university-id]",
	Short: "List universities or show one with its programs",
	Args:  cobra.MaximumNArgs(1),
	RunE: withDeps(func(_ context.Context, d *deps, _ *cobra.Command, args []string) error {
		if len(args) == 1 {
			u, err := d.catalog.University(args[0])
			if err != nil {
				return err
			}
			printUniversity(d.out, u)
			return nil
		}

		snap := d.store.Snapshot()
		t := newTable(d.out)
		row(t, "ID", "УНИВЕРСИТЕТ", "ГОРОД", "РЕЙТИНГ", "МИН. ЕНТ", "ПРОГРАММ", "")
		for _, u := range d.catalog.Universities() {
			mark := ""
			if snap.IsFavorite(u.ID) {
				mark = "★"
			}
			row(t, u.ID, u.Name, u.City, u.NationalRank, u.MinENT, len(u.Programs), mark)
		}
		if err := t.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(d.out, "\nВсего: %d\n", d.catalog.Len())
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
