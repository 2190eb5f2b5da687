package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tui/components"
	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderStatsTab(cw int) string {
	t := theme.Active
	st := a.stats
	p := a.state.Profile
	if p == nil || a.state.Current == nil {
		return components.ContentCard("Stats", "Finish setup to see your statistics.", cw)
	}

	counts := []components.Metric{
		{Label: "Taken", Value: cli.FormatCount(st.Taken), Sub: cli.FormatPercent(st.TakenPercentage) + " of meals", Color: t.Taken},
		{Label: "Missed by you", Value: cli.FormatCount(st.MissedByUser), Sub: cli.FormatPercent(st.MissedPercentage) + " of meals", Color: t.CancelledUser},
		{Label: "Cancelled by owner", Value: cli.FormatCount(st.CancelledByOwner), Color: t.CancelledOwner},
		{Label: "Pending", Value: cli.FormatCount(st.Pending), Sub: "of " + cli.FormatCount(st.TotalMeals) + " meals", Color: t.Pending},
	}

	balance := components.Metric{Label: "Balance", Value: cli.FormatBalance(st, a.currency)}
	if owed, _, ok := st.Balance(); ok {
		balance.Color = t.Saved
		balance.Sub = "net savings"
		if owed {
			balance.Color = t.Owed
			balance.Sub = "for meals taken"
		}
	}
	money := []components.Metric{
		balance,
		{
			Label: "Extension days",
			Value: cli.FormatDays(st.ExtensionDays),
			Sub:   cli.FormatDays(p.ExtensionDays) + " credited",
			Color: t.AccentBright,
		},
		{
			Label: "Cycle",
			Value: cli.FormatDaysRemaining(cycle.DaysRemaining(a.state.Current, a.today)),
			Sub:   "ends " + cli.FormatDateShort(a.state.Current.EndDate),
		},
		{
			Label: "Per-meal rate",
			Value: cli.FormatMoney(p.PerMealRate, a.currency),
			Sub:   cli.FormatMoney(p.MonthlyRate, a.currency) + " monthly",
		},
	}

	var b strings.Builder
	for _, row := range a.metricRows(append(counts, money...)) {
		b.WriteString(components.MetricCardRow(row, cw))
		b.WriteString("\n")
	}

	breakdown := a.renderBreakdown
	profile := a.renderProfileCard
	if a.isCompactLayout() {
		b.WriteString(breakdown(cw))
		b.WriteString("\n")
		b.WriteString(profile(cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{breakdown(widths[0]), profile(widths[1])}))
	}

	return b.String()
}

// metricRows lays metrics out four per row, or two per row when compact.
func (a App) metricRows(metrics []components.Metric) [][]components.Metric {
	perRow := 4
	if a.isCompactLayout() {
		perRow = 2
	}
	var rows [][]components.Metric
	for len(metrics) > 0 {
		n := min(perRow, len(metrics))
		rows = append(rows, metrics[:n])
		metrics = metrics[n:]
	}
	return rows
}

func (a App) renderBreakdown(outerW int) string {
	t := theme.Active
	st := a.stats
	innerW := components.CardInnerWidth(outerW)

	const labelW = 9
	barW := max(innerW-labelW-11, 10)

	var b strings.Builder
	for _, s := range model.Statuses {
		b.WriteString(components.ShareBar(cli.StatusLabel(s), st.Count(s), st.TotalMeals, theme.StatusColor(s), labelW, barW))
		b.WriteString("\n")
	}

	remaining := cycle.DaysRemaining(a.state.Current, a.today)
	elapsed := min(max(model.CycleLength-remaining, 0), model.CycleLength)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString("\n")
	b.WriteString(label.Render(fmt.Sprintf("%-*s ", labelW, "Elapsed")))
	b.WriteString(components.ProgressBar(float64(elapsed)/model.CycleLength, barW))

	return components.ContentCard("Breakdown", b.String(), outerW)
}

func (a App) renderProfileCard(outerW int) string {
	t := theme.Active
	p := a.state.Profile

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := []struct{ k, v string }{
		{"Name", p.Name},
		{"Mess", p.MessName},
		{"Monthly rate", cli.FormatMoney(p.MonthlyRate, a.currency)},
		{"Per-meal rate", cli.FormatMoney(p.PerMealRate, a.currency)},
		{"Started", p.StartDate.String()},
		{"Credit", cli.FormatDays(p.ExtensionDays)},
		{"Closed cycles", cli.FormatCount(len(a.state.History))},
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(label.Render(fmt.Sprintf("%-15s", r.k)))
		b.WriteString(value.Render(r.v))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return components.ContentCard("Profile", b.String(), outerW)
}
