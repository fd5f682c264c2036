package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/match"
	"github.com/spigell/uni-navigator/internal/profile"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(w io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func printProfile(w io.Writer, p profile.Profile) {
	t := newTable(w)
	row(t, "ЕНТ", p.ENTScore)
	ielts := "не сдавал"
	if p.IELTSScore > 0 {
		ielts = fmt.Sprint(p.IELTSScore)
	}
	row(t, "IELTS", ielts)
	row(t, "Профильные предметы", joinOrDash(p.ProfileSubjects))
	row(t, "Интересы", joinOrDash(interestNames(p.Interests)))
	row(t, "Бюджет", formatTenge(p.Budget))
	row(t, "Город", p.PreferredCity)
	t.Flush()
}

func printResults(w io.Writer, results []match.Result, favorites func(string) bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "Ничего не найдено")
		return
	}

	t := newTable(w)
	row(t, "#", "ID", "УНИВЕРСИТЕТ", "ПРОГРАММА", "СОВПАДЕНИЕ", "ШАНС", "ГОРОД", "")
	for i, r := range results {
		name, city, prog := r.UniversityID, "", "—"
		if r.University != nil {
			name, city = r.University.Name, r.University.City
		}
		if r.Program != nil {
			prog = r.Program.Name
		}
		mark := ""
		if favorites != nil && favorites(r.UniversityID) {
			mark = "★"
		}
		id := r.CompositeID()
		if id == "" {
			id = r.UniversityID
		}
		row(t, i+1, id, name, prog, fmt.Sprintf("%d%%", r.Score), r.Chance.Label(), city, mark)
	}
	t.Flush()

	for _, r := range results {
		if r.Summary != "" {
			fmt.Fprintf(w, "\n%s: %s", r.CompositeID(), r.Summary)
		}
	}
}

func printUniversity(w io.Writer, u *catalog.University) {
	fmt.Fprintf(w, "%s (%s), %s\n", u.Name, u.ID, u.City)
	if u.Description != "" {
		fmt.Fprintln(w, u.Description)
	}

	t := newTable(w)
	row(t, "Рейтинг в РК", u.NationalRank)
	if u.WorldRank > 0 {
		row(t, "Мировой рейтинг", u.WorldRank)
	}
	row(t, "Мин. ЕНТ", u.MinENT)
	if u.MinIELTS > 0 {
		row(t, "Мин. IELTS", u.MinIELTS)
	}
	tuition := "грант"
	if !u.TuitionRange.FullyFunded() {
		tuition = formatTenge(u.TuitionRange.Min) + " – " + formatTenge(u.TuitionRange.Max)
	}
	row(t, "Стоимость", tuition)
	if u.AdmissionDeadline != "" {
		row(t, "Дедлайн", u.AdmissionDeadline)
	}
	t.Flush()

	if len(u.Programs) > 0 {
		fmt.Fprintln(w)
		t = newTable(w)
		row(t, "ID", "ПРОГРАММА", "ЕНТ", "IELTS", "СТОИМОСТЬ", "ЛЕТ")
		for _, p := range u.Programs {
			row(t, catalog.CompositeID(u.ID, p.ID), p.Name, p.MinENT, p.MinIELTS, formatTenge(p.Tuition), p.Duration)
		}
		t.Flush()
	}
}

func printComparison(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Список сравнения пуст")
		return
	}

	t := newTable(w)
	header := []any{""}
	for _, e := range entries {
		header = append(header, e.University.Name+" / "+e.Program.Name)
	}
	row(t, header...)

	for _, r := range catalog.Compare(entries) {
		cols := []any{r.Metric.Label}
		for _, c := range r.Cells {
			v := c.Formatted
			if c.Best {
				v += " ✓"
			}
			cols = append(cols, v)
		}
		row(t, cols...)
	}
	t.Flush()
}

var printer = message.NewPrinter(language.Russian)

func formatTenge(v float64) string {
	return printer.Sprintf("%.0f тг", v)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "—"
	}
	return strings.Join(values, ", ")
}

func interestNames(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if i, ok := profile.InterestByID(id); ok {
			out = append(out, i.Name)
			continue
		}
		out = append(out, id)
	}
	return out
}
