package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/uni-navigator/internal/tracker"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Track submitted applications",
	RunE:    withDeps(runApplicationsList),
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	RunE:  withDeps(runApplicationsList),
}

var applicationsAddCmd = &cobra.Command{
	Use:   "add <university-program>",
	Short: "Track a new application as a draft",
	Args:  cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		uni, prog, err := d.catalog.Resolve(args[0])
		if err != nil {
			return err
		}
		created, _, err := d.store.AddApplication(ctx, uni.Name, prog.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.out, "Заявка %s создана (%s)\n", created.ID, created.Status)
		return nil
	}),
}

var applicationsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Update an application status (Draft, Submitted, Interview, Accepted, Rejected)",
	Args:  cobra.ExactArgs(2),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		status, err := tracker.ParseStatus(args[1])
		if err != nil {
			return err
		}
		if _, err := d.store.SetApplicationStatus(ctx, args[0], status); err != nil {
			return err
		}
		fmt.Fprintf(d.out, "Заявка %s: %s\n", args[0], status)
		return nil
	}),
}

var applicationsRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking an application",
	Args:    cobra.ExactArgs(1),
	RunE: withDeps(func(ctx context.Context, d *deps, _ *cobra.Command, args []string) error {
		if _, err := d.store.RemoveApplication(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(d.out, "Заявка %s удалена\n", args[0])
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsListCmd, applicationsAddCmd, applicationsStatusCmd, applicationsRemoveCmd)
}

func runApplicationsList(_ context.Context, d *deps, _ *cobra.Command, _ []string) error {
	apps := d.store.Snapshot().Applications
	if len(apps) == 0 {
		fmt.Fprintln(d.out, "Заявок пока нет")
		return nil
	}

	t := newTable(d.out)
	row(t, "ID", "УНИВЕРСИТЕТ", "ПРОГРАММА", "ДАТА", "СТАТУС")
	for _, a := range apps {
		row(t, a.ID, a.University, a.Program, a.AppliedOn, a.Status)
	}
	return t.Flush()
}
