package components

import (
	"strings"

	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. flash is a transient
// message shown after an action; right is persistent context.
func RenderStatusBar(width int, flash, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [t]heme  [q]uit"
	if flash != "" {
		left = " " + lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Render(flash)
	}
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	bar := left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding)) + right
	return style.Render(bar)
}
