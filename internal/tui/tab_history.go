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

// historyRow is one closed cycle with its statistics.
type historyRow struct {
	cycle model.ArchivedCycle
	stats model.Stats
}

// historyRows returns closed cycles newest first. Money uses the current
// profile's rate, which is the only rate the state keeps.
func (a App) historyRows() []historyRow {
	rows := make([]historyRow, 0, len(a.state.History))
	for i := len(a.state.History) - 1; i >= 0; i-- {
		h := a.state.History[i]
		rows = append(rows, historyRow{cycle: h, stats: cycle.ComputeStats(&h.Cycle, a.state.Profile)})
	}
	return rows
}

func (a App) renderHistoryTab(cw, contentH int) string {
	t := theme.Active
	rows := a.historyRows()
	if len(rows) == 0 {
		return components.ContentCard("History", "No closed cycles yet. Press C to close the current one.", cw)
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	format := "%-26s %6s %7s %6s %6s  %-16s %s"

	var b strings.Builder

	// Taken per cycle, oldest to newest.
	taken := make([]float64, len(rows))
	for i, r := range rows {
		taken[len(rows)-1-i] = float64(r.stats.Taken)
	}
	b.WriteString(dimStyle.Render("Meals taken per cycle  "))
	b.WriteString(components.Sparkline(taken, t.Taken))
	b.WriteString("\n\n")

	b.WriteString(headStyle.Render(fmt.Sprintf(format, "Period", "Taken", "Missed", "Owner", "Ext", "Balance", "Closed")))
	b.WriteString("\n")

	// Card border, title, sparkline and header take 6 rows.
	visible := max(contentH-6, 1)
	start := windowStart(a.history.cursor, visible, len(rows))
	end := min(start+visible, len(rows))
	now := a.tracker.Now()
	for i := start; i < end; i++ {
		r := rows[i]
		line := fmt.Sprintf(format,
			cli.FormatDateShort(r.cycle.StartDate)+" → "+cli.FormatDateShort(r.cycle.EndDate),
			cli.FormatCount(r.stats.Taken),
			cli.FormatCount(r.stats.MissedByUser),
			cli.FormatCount(r.stats.CancelledByOwner),
			fmt.Sprintf("+%d", r.stats.ExtensionDays),
			cli.FormatBalance(r.stats, a.currency),
			cli.FormatAgo(r.cycle.CompletedAt, now),
		)
		if i == a.history.cursor {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	title := fmt.Sprintf("History · %s closed", cli.FormatCount(len(rows)))
	return components.ContentCard(title, b.String(), cw)
}
