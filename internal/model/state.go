package model

import (
	"fmt"
	"math"
)

// MealsPerMonth is the mess's billing divisor for deriving a per-meal rate
// from the monthly rate when none is given.
const MealsPerMonth = 87

// MissesPerExtensionDay is how many self-missed meals earn one extension day.
const MissesPerExtensionDay = 3

// UserProfile holds the subscriber's details and billing rates.
type UserProfile struct {
	Name          string  `json:"name"`
	MessName      string  `json:"messName"`
	MonthlyRate   float64 `json:"monthlyRate"`
	PerMealRate   float64 `json:"perMealRate"`
	StartDate     Date    `json:"startDate"`
	ExtensionDays int     `json:"extensionDays"` // cumulative, only grows at cycle close
}

// DerivePerMealRate returns monthlyRate / MealsPerMonth rounded to 2 decimals.
func DerivePerMealRate(monthlyRate float64) float64 {
	return Round2(monthlyRate / MealsPerMonth)
}

// Theme is the display theme preference.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Settings holds display preferences.
type Settings struct {
	Theme         Theme `json:"theme"`
	Notifications bool  `json:"notifications"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeDark}
}

// AppState is the whole mutable state of the tracker.
type AppState struct {
	Profile  *UserProfile    `json:"userProfile"`
	Current  *Cycle          `json:"currentCycle"`
	History  []ArchivedCycle `json:"history"`
	Settings Settings        `json:"settings"`
}

// NewAppState returns the empty state before setup.
func NewAppState() AppState {
	return AppState{
		History:  []ArchivedCycle{},
		Settings: DefaultSettings(),
	}
}

// IsSetUp reports whether setup has produced a profile and a current cycle.
func (s AppState) IsSetUp() bool {
	return s.Profile != nil && s.Current != nil
}

// Clone returns a deep copy of s. History is always non-nil in the copy.
func (s AppState) Clone() AppState {
	out := AppState{
		Current:  s.Current.Clone(),
		History:  make([]ArchivedCycle, len(s.History)),
		Settings: s.Settings,
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	for i, h := range s.History {
		out.History[i] = ArchivedCycle{Cycle: *h.Cycle.Clone(), CompletedAt: h.CompletedAt}
	}
	return out
}

// Round2 rounds to 2 decimal places, the precision of money.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place, the precision of percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
