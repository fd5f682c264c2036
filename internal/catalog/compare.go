package catalog

import "fmt"

// Entry is a resolved comparison list item.
type Entry struct {
	ID         string
	University *University
	Program    *Program
}

// ResolveEntries resolves composite ids in order. Ids that no longer reference
// catalog data are skipped.
func (c *Catalog) ResolveEntries(ids []string) []Entry {
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		u, p, err := c.Resolve(id)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{ID: id, University: u, Program: p})
	}
	return entries
}

// ResolveUniversities resolves university ids in order, skipping unknown ones.
func (c *Catalog) ResolveUniversities(ids []string) []*University {
	out := make([]*University, 0, len(ids))
	for _, id := range ids {
		if u, ok := c.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Metric is a comparable numeric program attribute.
type Metric struct {
	Key            string
	Label          string
	HigherIsBetter bool
	value          func(*Program) float64
	format         func(float64) string
}

// Metrics lists the rows of the comparison table.
var Metrics = []Metric{
	{
		Key: "minENT", Label: "Мин. ЕНТ",
		value:  func(p *Program) float64 { return p.MinENT },
		format: func(v float64) string { return fmt.Sprintf("%.0f баллов", v) },
	},
	{
		Key: "tuition", Label: "Стоимость",
		value: func(p *Program) float64 { return p.Tuition },
		format: func(v float64) string {
			if v == 0 {
				return "Грант"
			}
			return fmt.Sprintf("%.1fМ тг", v/1_000_000)
		},
	},
	{
		Key: "duration", Label: "Длительность",
		value:  func(p *Program) float64 { return float64(p.Duration) },
		format: func(v float64) string { return fmt.Sprintf("%.0f года", v) },
	},
	{
		Key: "employmentRate", Label: "Трудоустройство", HigherIsBetter: true,
		value:  func(p *Program) float64 { return p.EmploymentRate },
		format: func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	},
	{
		Key: "avgSalary", Label: "Средняя ЗП", HigherIsBetter: true,
		value:  func(p *Program) float64 { return p.AvgSalary },
		format: func(v float64) string { return fmt.Sprintf("%.0fК тг", v/1000) },
	},
}

// Cell is a single formatted value of the comparison table.
type Cell struct {
	Value     float64
	Formatted string
	Best      bool
}

// Row holds one metric across all compared programs.
type Row struct {
	Metric Metric
	Cells  []Cell
}

// Compare builds the comparison table. Best values are marked only when at
// least two programs are compared.
func Compare(entries []Entry) []Row {
	rows := make([]Row, 0, len(Metrics))
	for _, m := range Metrics {
		row := Row{Metric: m, Cells: make([]Cell, len(entries))}
		for i, e := range entries {
			v := m.value(e.Program)
			row.Cells[i] = Cell{Value: v, Formatted: m.format(v)}
		}

		if len(entries) >= 2 {
			best := row.Cells[0].Value
			for _, cell := range row.Cells[1:] {
				if (m.HigherIsBetter && cell.Value > best) || (!m.HigherIsBetter && cell.Value < best) {
					best = cell.Value
				}
			}
			for i := range row.Cells {
				row.Cells[i].Best = row.Cells[i].Value == best
			}
		}

		rows = append(rows, row)
	}
	return rows
}
