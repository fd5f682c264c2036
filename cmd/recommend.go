package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/filtering"
	"github.com/spigell/uni-navigator/internal/match"
	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/recommend"
	"github.com/spigell/uni-navigator/internal/utils"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank universities for the stored profile",
	RunE:  withDeps(runRecommend),
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Rank universities for a what-if profile without changing the stored one",
	RunE:  withDeps(runSimulate),
}

func init() {
	rootCmd.AddCommand(recommendCmd, simulateCmd)

	for _, c := range []*cobra.Command{recommendCmd, simulateCmd} {
		c.Flags().String("source", "", "recommendation source: auto, remote or local")
		c.Flags().String("sort", "", "ordering: match, rank or ent")
		c.Flags().Int("top", 0, "number of results to show")
		c.Flags().Int("min-score", 0, "hide results below this match score")
		c.Flags().Bool("city-only", false, "only universities in the preferred city")
		c.Flags().Bool("affordable-only", false, "only programs within the budget")
		c.Flags().Bool("hide-low-chance", false, "hide programs with a low admission chance")
		c.Flags().Bool("favorites-only", false, "only favorite universities")
	}

	simulateCmd.Flags().Float64("ent", 0, "hypothetical ENT score")
	simulateCmd.Flags().Float64("ielts", 0, "hypothetical IELTS score")
	simulateCmd.Flags().Float64("budget", 0, "hypothetical budget in KZT")
}

func runRecommend(ctx context.Context, d *deps, cmd *cobra.Command, _ []string) error {
	return showRecommendations(ctx, d, cmd, nil, d.config.Recommendations.TopK)
}

func runSimulate(ctx context.Context, d *deps, cmd *cobra.Command, _ []string) error {
	var overrides profile.Overrides
	flags := cmd.Flags()
	if flags.Changed("ent") {
		overrides.ENTScore = profile.Float(mustFloat(cmd, "ent"))
	}
	if flags.Changed("ielts") {
		overrides.IELTSScore = profile.Float(mustFloat(cmd, "ielts"))
	}
	if flags.Changed("budget") {
		overrides.Budget = profile.Float(mustFloat(cmd, "budget"))
	}
	if overrides.IsZero() {
		return fmt.Errorf("nothing to simulate, pass --ent, --ielts or --budget")
	}

	return showRecommendations(ctx, d, cmd, &overrides, d.config.Recommendations.SimulateTopK)
}

func showRecommendations(ctx context.Context, d *deps, cmd *cobra.Command, overrides *profile.Overrides, topK int) error {
	snap := d.store.Snapshot()
	p, err := requireProfile(snap)
	if err != nil {
		return err
	}

	// Flags override configuration for this run only.
	flags := cmd.Flags()
	if flags.Changed("source") {
		d.config.Recommendations.Source, _ = flags.GetString("source")
	}
	if flags.Changed("top") {
		topK, _ = flags.GetInt("top")
	}
	sortFlag := d.config.Recommendations.Sort
	if flags.Changed("sort") {
		sortFlag, _ = flags.GetString("sort")
	}
	key, err := match.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}

	filters := d.config.Filters
	if err := bindFilterFlags(cmd, &filters); err != nil {
		return err
	}

	resolver, err := d.resolver(topK)
	if err != nil {
		return err
	}

	results, source, err := resolver.Resolve(ctx, recommend.Request{
		Token:     snap.Token,
		Profile:   p,
		Overrides: overrides,
		Sort:      key,
	})
	if err != nil {
		return err
	}

	if overrides != nil {
		// Cosmetic pause so a simulation reads as a recalculation.
		if err := utils.WaitFor(ctx, d.config.Recommendations.SimulationDelay); err != nil {
			return err
		}
	}

	effective := p
	if overrides != nil {
		effective = overrides.Apply(p)
	}

	steps := filtering.Default()
	if effective.PreferredCity == profile.AnyCity {
		filtering.DisableByName(steps, "city", "any city accepted")
	}

	results, err = filtering.Run(ctx, &filters, filtering.Deps{
		Logger:    d.logger,
		Profile:   &effective,
		Favorites: snap.Favorites,
	}, steps, results)
	if err != nil {
		return err
	}

	for _, st := range filtering.Describe(steps) {
		d.logger.Debug("filter status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}

	d.logger.Info("recommendations ready",
		zap.String("source", string(source)),
		zap.String("sort", string(key)),
		zap.Int("count", len(results)),
		zap.Bool("simulated", overrides != nil),
	)

	if overrides != nil {
		fmt.Fprintln(d.out, "Симуляция: сохраненный профиль не изменен")
	}
	printResults(d.out, results, snap.IsFavorite)
	return nil
}

func bindFilterFlags(cmd *cobra.Command, cfg *filtering.Config) error {
	flags := cmd.Flags()
	if flags.Changed("min-score") {
		v, err := flags.GetInt("min-score")
		if err != nil {
			return err
		}
		cfg.MinScore = v
	}

	for name, dst := range map[string]*bool{
		"city-only":       &cfg.CityOnly,
		"affordable-only": &cfg.AffordableOnly,
		"hide-low-chance": &cfg.HideLowChance,
		"favorites-only":  &cfg.FavoritesOnly,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}
