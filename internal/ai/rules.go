package ai

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rules explains a program with fixed threshold checks. It never fails.
type Rules struct{}

func (Rules) Name() string { return "rules" }

var printer = message.NewPrinter(language.Russian)

func (Rules) Explain(_ context.Context, req Request) (*Explanation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	p, prog := req.Profile, req.Program
	exp := &Explanation{
		ProgramID:      req.CompositeID(),
		ProgramName:    prog.Name,
		UniversityName: req.University.Name,
	}

	if p.ENTScore >= prog.MinENT {
		exp.StrongPoints = append(exp.StrongPoints, Point{"Соответствие по ЕНТ", fmt.Sprintf("ЕНТ %g ≥ минимум %g", p.ENTScore, prog.MinENT)})
	} else {
		exp.Risks = append(exp.Risks, Point{"ЕНТ ниже требования", fmt.Sprintf("ЕНТ %g < %g, рекомендуется подготовка", p.ENTScore, prog.MinENT)})
	}

	if prog.MinIELTS > 0 {
		switch {
		case p.IELTSScore >= prog.MinIELTS:
			exp.StrongPoints = append(exp.StrongPoints, Point{"Языковые требования", fmt.Sprintf("IELTS %g ≥ %g", p.IELTSScore, prog.MinIELTS)})
		case p.IELTSScore > 0:
			exp.Risks = append(exp.Risks, Point{"Разрыв по IELTS", fmt.Sprintf("IELTS %g < %g, нужен план подготовки", p.IELTSScore, prog.MinIELTS)})
		default:
			exp.Risks = append(exp.Risks, Point{"IELTS не указан", "Нужно подтвердить уровень языка"})
		}
	}

	common := intersect(p.Interests, prog.Tags)
	if len(p.Interests) > 0 && len(prog.Tags) > 0 {
		if len(common) > 0 {
			exp.StrongPoints = append(exp.StrongPoints, Point{"Совпадение интересов", "Интересы: " + strings.Join(common, ", ")})
		} else {
			exp.Risks = append(exp.Risks, Point{"Низкое совпадение интересов", "Ваши интересы не совпадают с ключевыми направлениями программы"})
		}
		exp.InterestMatch = len(common) * 100 / len(uniq(prog.Tags))
	}

	if p.Budget >= prog.Tuition {
		exp.StrongPoints = append(exp.StrongPoints, Point{"Финансы", "Бюджет покрывает стоимость обучения"})
	} else {
		exp.Risks = append(exp.Risks, Point{"Финансирование", printer.Sprintf("Недостаток средств: %.0f KZT. Рассмотрите стипендии и кредиты", prog.Tuition-p.Budget)})
	}

	score := 50
	if n := len(exp.StrongPoints); n > 0 {
		score += min(40, n*12)
	}
	if n := len(exp.Risks); n > 0 {
		score -= min(30, n*10)
	}
	exp.ScoreMatch = max(0, min(100, score))

	return exp, nil
}

func intersect(a, b []string) []string {
	var out []string
	for _, v := range uniq(a) {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}

func uniq(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
