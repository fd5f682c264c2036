package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/profile"
)

const PromptDone = "Готово"

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Fill in the applicant profile",
	Long: "Asks for ENT and IELTS scores, profile subjects, interests, budget and city.\n" +
		"Values passed as flags skip the matching question.",
	RunE: withDeps(runQuiz),
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().Float64("ent", 0, "ENT score (50-140)")
	quizCmd.Flags().Float64("ielts", 0, "IELTS score (0-9, 0 if not taken)")
	quizCmd.Flags().StringSlice("subjects", nil, "profile subjects, up to 3")
	quizCmd.Flags().StringSlice("interests", nil, "interest ids, up to 3")
	quizCmd.Flags().Float64("budget", 0, "yearly budget in KZT")
	quizCmd.Flags().String("city", "", "preferred city")
}

func runQuiz(ctx context.Context, d *deps, cmd *cobra.Command, _ []string) error {
	current := profile.Profile{PreferredCity: profile.AnyCity}
	if snap := d.store.Snapshot(); snap.Profile != nil {
		current = snap.Profile.Clone()
	}

	var (
		p   profile.Profile
		err error
	)

	flags := cmd.Flags()
	if p.ENTScore, err = askNumber(flags.Changed("ent"), mustFloat(cmd, "ent"), "Балл ЕНТ", current.ENTScore, validateRange(profile.MinENT, profile.MaxENT, false)); err != nil {
		return err
	}
	if p.IELTSScore, err = askNumber(flags.Changed("ielts"), mustFloat(cmd, "ielts"), "Балл IELTS (0 если не сдавали)", current.IELTSScore, validateRange(0, profile.MaxIELTS, true)); err != nil {
		return err
	}

	if flags.Changed("subjects") {
		p.ProfileSubjects, _ = flags.GetStringSlice("subjects")
	} else if p.ProfileSubjects, err = askMulti("Профильные предметы", profile.Subjects, current.ProfileSubjects, profile.MaxSubjects); err != nil {
		return err
	}

	if flags.Changed("interests") {
		p.Interests, _ = flags.GetStringSlice("interests")
	} else if p.Interests, err = askInterests(current.Interests); err != nil {
		return err
	}

	if p.Budget, err = askNumber(flags.Changed("budget"), mustFloat(cmd, "budget"), "Бюджет на год обучения, тг", current.Budget, validateRange(0, -1, true)); err != nil {
		return err
	}

	if flags.Changed("city") {
		p.PreferredCity, _ = flags.GetString("city")
	} else if p.PreferredCity, err = askCity(current.PreferredCity); err != nil {
		return err
	}

	snap, err := d.store.SetProfile(ctx, p)
	if err != nil {
		return err
	}

	d.logger.Info("profile saved", zap.String("session", snap.State.String()))
	printProfile(d.out, *snap.Profile)
	return nil
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func askNumber(fromFlag bool, flagValue float64, label string, current float64, validate promptui.ValidateFunc) (float64, error) {
	if fromFlag {
		return flagValue, nil
	}

	prompt := promptui.Prompt{Label: label, Validate: validate}
	if current > 0 {
		prompt.Default = strconv.FormatFloat(current, 'f', -1, 64)
	}

	answer, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(answer) == "" {
		return 0, nil
	}
	return parseNumber(answer)
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// validateRange accepts numbers in [lo, hi]. A negative hi means unbounded.
func validateRange(lo, hi float64, allowEmpty bool) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			if allowEmpty {
				return nil
			}
			return errors.New("значение обязательно")
		}
		v, err := parseNumber(input)
		if err != nil {
			return errors.New("нужно число")
		}
		if v < lo || (hi >= 0 && v > hi) {
			if hi < 0 {
				return fmt.Errorf("не меньше %g", lo)
			}
			return fmt.Errorf("от %g до %g", lo, hi)
		}
		return nil
	}
}

// askMulti toggles items until the user picks PromptDone.
func askMulti(label string, items, selected []string, limit int) ([]string, error) {
	selected = slices.Clone(selected)
	for {
		labels := make([]string, 0, len(items)+1)
		for _, item := range items {
			mark := "[ ]"
			if slices.Contains(selected, item) {
				mark = "[x]"
			}
			labels = append(labels, mark+" "+item)
		}
		labels = append(labels, PromptDone)

		sel := promptui.Select{
			Label: fmt.Sprintf("%s (до %d, выбрано %d)", label, limit, len(selected)),
			Items: labels,
			Size:  len(labels),
		}
		idx, _, err := sel.Run()
		if err != nil {
			return nil, err
		}
		if idx == len(items) {
			return selected, nil
		}
		selected = profile.ToggleSelection(selected, items[idx], limit)
	}
}

func askInterests(selected []string) ([]string, error) {
	names := make([]string, len(profile.Interests))
	chosen := make([]string, 0, len(selected))
	for i, interest := range profile.Interests {
		names[i] = interest.Name
		if slices.Contains(selected, interest.ID) {
			chosen = append(chosen, interest.Name)
		}
	}

	picked, err := askMulti("Интересы", names, chosen, profile.MaxInterests)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(picked))
	for _, name := range picked {
		idx := slices.Index(names, name)
		ids = append(ids, profile.Interests[idx].ID)
	}
	return ids, nil
}

func askCity(current string) (string, error) {
	sel := promptui.Select{
		Label:     "Предпочитаемый город",
		Items:     profile.Cities,
		Size:      len(profile.Cities),
		CursorPos: max(0, slices.Index(profile.Cities, current)),
	}
	_, city, err := sel.Run()
	return city, err
}
