package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/store"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Admission roadmap stored on the server",
	RunE:  withDeps(runRoadmapShow),
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print roadmap tasks ordered by due date",
	RunE:  withDeps(runRoadmapShow),
}

var roadmapCreateCmd = &cobra.Command{
	Use:   "create <university-program>",
	Short: "Generate a roadmap for a program",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runRoadmapCreate),
}

func init() {
	rootCmd.AddCommand(roadmapCmd)
	roadmapCmd.AddCommand(roadmapShowCmd, roadmapCreateCmd)

	roadmapCreateCmd.Flags().String("start", "", "start date, YYYY-MM-DD (default today)")
	roadmapCreateCmd.Flags().String("deadline", "", "deadline, YYYY-MM-DD (default the university admission deadline)")
}

func requireSession(snap store.Snapshot) error {
	if snap.State != store.Authenticated {
		return fmt.Errorf("%w: run `%s login` first", store.ErrNotAuthenticated, app)
	}
	return nil
}

func runRoadmapShow(ctx context.Context, d *deps, _ *cobra.Command, _ []string) error {
	snap := d.store.Snapshot()
	if err := requireSession(snap); err != nil {
		return err
	}

	items, err := d.client.GetRoadmap(ctx, snap.Token)
	if err != nil {
		return err
	}
	printRoadmap(d.out, items)
	return nil
}

func runRoadmapCreate(ctx context.Context, d *deps, cmd *cobra.Command, args []string) error {
	snap := d.store.Snapshot()
	if err := requireSession(snap); err != nil {
		return err
	}

	uni, prog, err := d.catalog.Resolve(args[0])
	if err != nil {
		return err
	}

	start, err := dateFlag(cmd, "start", time.Now().Format(time.DateOnly))
	if err != nil {
		return err
	}
	deadline, err := dateFlag(cmd, "deadline", uni.AdmissionDeadline)
	if err != nil {
		return err
	}

	req := navigator.RoadmapRequest{
		UniversityID: uni.ID,
		ProgramID:    prog.ID,
		StartDate:    start,
		Deadline:     deadline,
	}
	if snap.User != nil {
		req.UserID = snap.User.ID
	}
	if snap.Profile != nil {
		req.Preferences = map[string]any{
			"interests": snap.Profile.Interests,
			"city":      snap.Profile.PreferredCity,
		}
	}

	items, err := d.client.CreateRoadmap(ctx, snap.Token, req)
	if err != nil {
		return err
	}
	printRoadmap(d.out, items)
	return nil
}

// dateFlag returns nil when neither the flag nor fallback carry a date.
func dateFlag(cmd *cobra.Command, name, fallback string) (*string, error) {
	v, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(v) == "" {
		v = fallback
	}
	if v == "" {
		return nil, nil
	}
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", name, v)
	}
	return &v, nil
}

func printRoadmap(w io.Writer, items []navigator.RoadmapItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Дорожная карта пуста")
		return
	}

	// YYYY-MM-DD sorts lexically; undated items go last.
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b navigator.RoadmapItem) int {
		switch {
		case a.DueDate == b.DueDate:
			return 0
		case a.DueDate == "":
			return 1
		case b.DueDate == "":
			return -1
		default:
			return strings.Compare(a.DueDate, b.DueDate)
		}
	})

	t := newTable(w)
	row(t, "СРОК", "ПРИОРИТЕТ", "ЗАДАЧА", "НАПОМНИТЬ ЗА")
	for _, item := range sorted {
		row(t, dash(item.DueDate), item.Priority, item.Title, fmt.Sprintf("%d дн.", item.NotifyBeforeDays))
		for _, sub := range item.Subtasks {
			row(t, dash(sub.DueDate), "", "  · "+sub.Title, "")
		}
	}
	t.Flush()
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
