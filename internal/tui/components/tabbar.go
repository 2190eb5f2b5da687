package components

import (
	"strings"

	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Meals", Key: 'm', KeyPos: 0},
	{Name: "Stats", Key: 's', KeyPos: 0},
	{Name: "History", Key: 'h', KeyPos: 0},
}

// tabLabel renders a tab's label. Inactive tabs show their shortcut in
// brackets, so they are two columns wider than the active one.
func tabLabel(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimKey := lipgloss.NewStyle().Foreground(t.TextDim)

	before := tab.Name[:tab.KeyPos]
	key := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	return inactive.Render(before) +
		dimKey.Render("[") + keyStyle.Render(key) + dimKey.Render("]") +
		inactive.Render(after)
}

// TabVisualWidth returns the rendered width of a tab including its padding.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active)) + 2
}

// RenderTabBar renders the tab bar with the given active index. Tabs are
// padded by one column each side and separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == activeIdx {
			style = style.Background(t.SurfaceHover)
		}
		parts = append(parts, style.Render(tabLabel(tab, i == activeIdx)))
	}

	bar := strings.Join(parts, " ")
	return lipgloss.NewStyle().Width(width).Background(t.Surface).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
