package filtering

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/match"
)

// toggle is the enable/disable state shared by the filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type minScoreFilter struct {
	toggle
	min int
}

// NewMinScore creates a filter that removes results scoring below filters.min-score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg != nil {
		f.min = cfg.MinScore
	}
	if f.min < 0 || f.min > 100 {
		return fmt.Errorf("minimum score must be within 0..100, got %d", f.min)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error) {
	if f.min == 0 {
		return results, step(len(results), results), nil
	}

	kept, dropped := keep(results, func(r match.Result) bool { return r.Score >= f.min })
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding results below minimum score",
			zap.Int("min_score", f.min),
			zap.Strings("excluded", dropped),
		)
	}
	return kept, step(len(results), kept), nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"min_score": strconv.Itoa(f.min),
	}}
}

type cityFilter struct {
	toggle
	enabled bool
}

// NewCity creates a filter that keeps universities in the preferred city only.
func NewCity() Filter {
	return &cityFilter{}
}

func (f *cityFilter) Name() string { return "city" }

func (f *cityFilter) Validate(cfg *Config) error {
	f.enabled = cfg != nil && cfg.CityOnly
	return nil
}

func (f *cityFilter) Apply(_ context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error) {
	if !f.enabled {
		return results, step(len(results), results), nil
	}
	if deps.Profile == nil {
		return nil, Step{}, fmt.Errorf("profile is required to filter by city")
	}

	kept, dropped := keep(results, func(r match.Result) bool {
		return r.University != nil && deps.Profile.AcceptsCity(r.University.City)
	})
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding results outside preferred city",
			zap.String("city", deps.Profile.PreferredCity),
			zap.Strings("excluded", dropped),
		)
	}
	return kept, step(len(results), kept), nil
}

func (f *cityFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"city_only": strconv.FormatBool(f.enabled),
	}}
}

type affordableFilter struct {
	toggle
	enabled bool
}

// NewAffordable creates a filter that removes programs whose tuition exceeds the budget.
// Grant-funded programs always pass.
func NewAffordable() Filter {
	return &affordableFilter{}
}

func (f *affordableFilter) Name() string { return "affordable" }

func (f *affordableFilter) Validate(cfg *Config) error {
	f.enabled = cfg != nil && cfg.AffordableOnly
	return nil
}

func (f *affordableFilter) Apply(_ context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error) {
	if !f.enabled {
		return results, step(len(results), results), nil
	}
	if deps.Profile == nil {
		return nil, Step{}, fmt.Errorf("profile is required to filter by budget")
	}

	budget := deps.Profile.Budget
	kept, dropped := keep(results, func(r match.Result) bool {
		switch {
		case r.Program != nil:
			return r.Program.Tuition == 0 || r.Program.Tuition <= budget
		case r.University != nil:
			return r.University.TuitionRange.FullyFunded() || r.University.TuitionRange.Min <= budget
		default:
			return false
		}
	})
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding results over budget",
			zap.Float64("budget", budget),
			zap.Strings("excluded", dropped),
		)
	}
	return kept, step(len(results), kept), nil
}

func (f *affordableFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"affordable_only": strconv.FormatBool(f.enabled),
	}}
}

type lowChanceFilter struct {
	toggle
	enabled bool
}

// NewHideLowChance creates a filter that removes programs with a low admission chance.
func NewHideLowChance() Filter {
	return &lowChanceFilter{}
}

func (f *lowChanceFilter) Name() string { return "hide_low_chance" }

func (f *lowChanceFilter) Validate(cfg *Config) error {
	f.enabled = cfg != nil && cfg.HideLowChance
	return nil
}

func (f *lowChanceFilter) Apply(_ context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error) {
	if !f.enabled {
		return results, step(len(results), results), nil
	}

	kept, dropped := keep(results, func(r match.Result) bool { return r.Chance != match.ChanceLow })
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding low chance results", zap.Strings("excluded", dropped))
	}
	return kept, step(len(results), kept), nil
}

func (f *lowChanceFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"hide_low_chance": strconv.FormatBool(f.enabled),
	}}
}

type favoritesFilter struct {
	toggle
	enabled bool
}

// NewFavoritesOnly creates a filter that keeps favorite universities only.
func NewFavoritesOnly() Filter {
	return &favoritesFilter{}
}

func (f *favoritesFilter) Name() string { return "favorites_only" }

func (f *favoritesFilter) Validate(cfg *Config) error {
	f.enabled = cfg != nil && cfg.FavoritesOnly
	return nil
}

func (f *favoritesFilter) Apply(_ context.Context, deps Deps, results []match.Result) ([]match.Result, Step, error) {
	if !f.enabled {
		return results, step(len(results), results), nil
	}

	kept, dropped := keep(results, func(r match.Result) bool { return slices.Contains(deps.Favorites, r.UniversityID) })
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding results not in favorites", zap.Strings("excluded", dropped))
	}
	return kept, step(len(results), kept), nil
}

func (f *favoritesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{
		"favorites_only": strconv.FormatBool(f.enabled),
	}}
}
