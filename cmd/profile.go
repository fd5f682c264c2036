package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or manage the applicant profile",
	RunE:  withDeps(runProfileShow),
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	RunE:  withDeps(runProfileShow),
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the local profile",
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, _ []string) error {
		if _, err := d.store.ClearProfile(ctx); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Профиль удален")
		return nil
	}),
}

var profilePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local profile with the one saved on the server",
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, _ []string) error {
		snap, found, err := d.store.LoadProfileFromServer(ctx)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(d.out, "На сервере нет сохраненного профиля")
			return nil
		}
		printProfile(d.out, *snap.Profile)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileClearCmd, profilePullCmd)
}

func runProfileShow(_ context.Context, d *deps, _ *cobra.Command, _ []string) error {
	p, err := requireProfile(d.store.Snapshot())
	if err != nil {
		return err
	}
	printProfile(d.out, p)
	return nil
}
