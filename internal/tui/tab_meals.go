package tui

import (
	"strings"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/report"
	"github.com/theirongolddev/messmate/internal/tui/components"
	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	markerWidth = 2
	dateWidth   = 12
	cellWidth   = 14
)

// mealsChrome is the card border, title, column header and legend rows
// around the day rows.
const mealsChrome = 6

func (a App) renderMealsTab(cw, contentH int) string {
	t := theme.Active
	days := a.days()
	if len(days) == 0 {
		return components.ContentCard("Meals", "No active cycle.", cw)
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(spaceStyle.Render(strings.Repeat(" ", markerWidth)))
	b.WriteString(headStyle.Width(dateWidth).Render("Date"))
	for _, meal := range model.MealTypes {
		b.WriteString(headStyle.Width(cellWidth).Render(cli.MealLabel(meal)))
	}
	b.WriteString("\n")

	visible := max(contentH-mealsChrome, 3)
	start := windowStart(a.meals.day, visible, len(days))
	end := min(start+visible, len(days))
	for i := start; i < end; i++ {
		b.WriteString(a.renderDayRow(i, days[i]))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(renderLegend())

	c := a.state.Current
	title := "Cycle " + cli.FormatDateShort(c.StartDate) + " → " + cli.FormatDateShort(c.EndDate)
	return components.ContentCard(title, b.String(), cw)
}

func (a App) renderDayRow(i int, day model.Day) string {
	t := theme.Active
	selected := i == a.meals.day

	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dateStyle := lipgloss.NewStyle().Background(t.Surface).Width(dateWidth)
	switch {
	case day.Date == a.today:
		dateStyle = dateStyle.Foreground(t.Accent).Bold(true)
	case day.Date.After(a.today):
		dateStyle = dateStyle.Foreground(t.TextMuted)
	default:
		dateStyle = dateStyle.Foreground(t.TextPrimary)
	}

	marker := "  "
	if selected {
		marker = "› "
	}

	var b strings.Builder
	b.WriteString(markerStyle.Render(marker))
	b.WriteString(dateStyle.Render(cli.FormatDateShort(day.Date)))
	for j, meal := range model.MealTypes {
		b.WriteString(renderCell(day.Slot(meal), selected && j == a.meals.meal))
	}
	return b.String()
}

// renderCell draws one meal slot. Absent slots (Sunday breakfast and dinner)
// render as a dim dash.
func renderCell(slot *model.MealSlot, focused bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().Background(t.Surface).Width(cellWidth)
	if focused {
		style = style.Background(t.SurfaceHover).Bold(true)
	}

	if slot == nil {
		return style.Foreground(t.TextDim).Render(" " + report.SymbolAbsent)
	}
	return style.Foreground(theme.StatusColor(slot.Status)).
		Render(" " + report.Symbol(slot) + " " + cli.StatusLabel(slot.Status))
}

func renderLegend() string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	parts := make([]string, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		sym := lipgloss.NewStyle().Foreground(theme.StatusColor(s)).Background(t.Surface).
			Render(report.Symbol(&model.MealSlot{Status: s}))
		parts = append(parts, sym+label.Render(" "+cli.StatusLabel(s)))
	}
	return label.Render("  ") + strings.Join(parts, label.Render("   ")) +
		label.Render("   enter advance · b/l/d meal · C close cycle")
}
