// Package theme defines the dark and light palettes of the dashboard.
package theme

import (
	"github.com/theirongolddev/messmate/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name           model.Theme
	Background     lipgloss.Color // Main app background
	Surface        lipgloss.Color // Card/panel backgrounds
	SurfaceHover   lipgloss.Color // Highlighted surface (active tab, cursor cell)
	Border         lipgloss.Color // Subtle borders
	BorderAccent   lipgloss.Color // Accent-colored borders for focus states
	TextDim        lipgloss.Color // Lowest contrast text (hints, absent meals)
	TextMuted      lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary    lipgloss.Color // Primary content text
	Accent         lipgloss.Color // Primary accent (active tab, cursor)
	AccentBright   lipgloss.Color
	Taken          lipgloss.Color
	CancelledUser  lipgloss.Color
	CancelledOwner lipgloss.Color
	Pending        lipgloss.Color
	Owed           lipgloss.Color
	Saved          lipgloss.Color
}

// Dark is the default theme (Flexoki dark).
var Dark = Theme{
	Name:           model.ThemeDark,
	Background:     lipgloss.Color("#100F0F"),
	Surface:        lipgloss.Color("#1C1B1A"),
	SurfaceHover:   lipgloss.Color("#343331"),
	Border:         lipgloss.Color("#403E3C"),
	BorderAccent:   lipgloss.Color("#3AA99F"),
	TextDim:        lipgloss.Color("#575653"),
	TextMuted:      lipgloss.Color("#878580"),
	TextPrimary:    lipgloss.Color("#FFFCF0"),
	Accent:         lipgloss.Color("#3AA99F"),
	AccentBright:   lipgloss.Color("#5BC8BE"),
	Taken:          lipgloss.Color("#879A39"),
	CancelledUser:  lipgloss.Color("#D14D41"),
	CancelledOwner: lipgloss.Color("#8B7EC8"),
	Pending:        lipgloss.Color("#878580"),
	Owed:           lipgloss.Color("#DA702C"),
	Saved:          lipgloss.Color("#879A39"),
}

// Light is the paper-toned counterpart (Flexoki light).
var Light = Theme{
	Name:           model.ThemeLight,
	Background:     lipgloss.Color("#FFFCF0"),
	Surface:        lipgloss.Color("#F2F0E5"),
	SurfaceHover:   lipgloss.Color("#E6E4D9"),
	Border:         lipgloss.Color("#CECDC3"),
	BorderAccent:   lipgloss.Color("#24837B"),
	TextDim:        lipgloss.Color("#B7B5AC"),
	TextMuted:      lipgloss.Color("#6F6E69"),
	TextPrimary:    lipgloss.Color("#100F0F"),
	Accent:         lipgloss.Color("#24837B"),
	AccentBright:   lipgloss.Color("#1C6C66"),
	Taken:          lipgloss.Color("#66800B"),
	CancelledUser:  lipgloss.Color("#AF3029"),
	CancelledOwner: lipgloss.Color("#5E409D"),
	Pending:        lipgloss.Color("#6F6E69"),
	Owed:           lipgloss.Color("#BC5215"),
	Saved:          lipgloss.Color("#66800B"),
}

// Active is the currently selected theme.
var Active = Dark

// ByName returns the palette for a theme setting, defaulting to Dark.
func ByName(name model.Theme) Theme {
	if name == model.ThemeLight {
		return Light
	}
	return Dark
}

// SetActive sets the active theme.
func SetActive(name model.Theme) {
	Active = ByName(name)
}

// StatusColor returns the color of a meal status in the active theme.
func StatusColor(s model.Status) lipgloss.Color {
	t := Active
	switch s {
	case model.StatusTaken:
		return t.Taken
	case model.StatusCancelledUser:
		return t.CancelledUser
	case model.StatusCancelledOwner:
		return t.CancelledOwner
	}
	return t.Pending
}
