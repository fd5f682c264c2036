package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spigell/uni-navigator/internal/ai"
	"github.com/spigell/uni-navigator/internal/match"
)

var explainCmd = &cobra.Command{
	Use:   "explain <university-program>",
	Short: "Explain how a program suits the stored profile",
	Args:  cobra.ExactArgs(1),
	RunE:  withDeps(runExplain),
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().Bool("factors", false, "also print the local score breakdown")
}

func runExplain(ctx context.Context, d *deps, cmd *cobra.Command, args []string) error {
	snap := d.store.Snapshot()
	p, err := requireProfile(snap)
	if err != nil {
		return err
	}

	uni, prog, err := d.catalog.Resolve(args[0])
	if err != nil {
		return err
	}

	exp, err := d.explainer(ctx).Explain(ctx, ai.Request{
		University: uni,
		Program:    prog,
		Profile:    p,
		Token:      snap.Token,
	})
	if err != nil {
		return err
	}

	w := d.out
	fmt.Fprintf(w, "%s / %s (%s)\n", exp.UniversityName, exp.ProgramName, exp.Source)
	fmt.Fprintf(w, "Совпадение: %d%%, интересы: %d%%, шанс: %s\n", exp.ScoreMatch, exp.InterestMatch, match.ChanceFor(prog, &p).Label())
	if exp.Summary != "" {
		fmt.Fprintln(w, exp.Summary)
	}
	printPoints(w, "Сильные стороны", "+", exp.StrongPoints)
	printPoints(w, "Риски", "-", exp.Risks)

	if factors, _ := cmd.Flags().GetBool("factors"); factors {
		b := match.BreakdownFor(uni, p)
		fmt.Fprintln(w, "\nРасчет совпадения:")
		t := newTable(w)
		for _, f := range b.Factors {
			mark := " "
			if f.Met {
				mark = "✓"
			}
			row(t, mark, f.Name, fmt.Sprintf("%.1f / %.0f", f.Points, f.Max))
		}
		row(t, "", "Итого", fmt.Sprintf("%.1f / %.0f (%d%%)", b.Points, b.Max, b.Percent(0)))
		t.Flush()
	}
	return nil
}

func printPoints(w io.Writer, title, bullet string, points []ai.Point) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, p := range points {
		if p.Detail == "" {
			fmt.Fprintf(w, " %s %s\n", bullet, p.Title)
			continue
		}
		fmt.Fprintf(w, " %s %s: %s\n", bullet, p.Title, p.Detail)
	}
}
