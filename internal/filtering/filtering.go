package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/match"
	"github.com/spigell/uni-navigator/internal/profile"
)

// Filter represents a single filtering step applied to match results.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger    *zap.Logger
	Profile   *profile.Profile
	Favorites []string
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinScore       int  `mapstructure:"min-score"`
	CityOnly       bool `mapstructure:"city-only"`
	AffordableOnly bool `mapstructure:"affordable-only"`
	HideLowChance  bool `mapstructure:"hide-low-chance"`
	FavoritesOnly  bool `mapstructure:"favorites-only"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they are applied.
func Default() []Filter {
	return []Filter{
		NewMinScore(),
		NewCity(),
		NewAffordable(),
		NewHideLowChance(),
		NewFavoritesOnly(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns what is left.
// The input slice is never modified.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, results []match.Result) ([]match.Result, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, results)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if info.Dropped > 0 {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		results = next
	}

	return results, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the results accepted by pred and the ids of the dropped ones.
func keep(results []match.Result, pred func(match.Result) bool) ([]match.Result, []string) {
	kept := make([]match.Result, 0, len(results))
	var dropped []string
	for _, r := range results {
		if pred(r) {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.UniversityID)
	}
	return kept, dropped
}

func step(initial int, kept []match.Result) Step {
	return Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
