package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 97, 120, 161} {
		for n := 1; n <= 5; n++ {
			widths := LayoutRow(total, n)
			sum := 0
			for _, w := range widths {
				sum += w
			}
			if sum != total {
				t.Errorf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
			if widths[0]-widths[n-1] > 1 {
				t.Errorf("LayoutRow(%d, %d) = %v, uneven", total, n, widths)
			}
		}
	}
	if got := LayoutRow(80, 0); got != nil {
		t.Errorf("LayoutRow(80, 0) = %v, want nil", got)
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive(model.ThemeDark)

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes, padding is unstyled", i)
		}
		if w := lipgloss.Width(lines[i]); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive(model.ThemeDark)

	row := MetricCardRow([]Metric{
		{Label: "Taken", Value: "41", Sub: "50%"},
		{Label: "Missed", Value: "6"},
		{Label: "Pending", Value: "35", Color: theme.Active.Pending},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "Pending") {
		t.Error("row is missing a label")
	}
}

func TestTabVisualWidth(t *testing.T) {
	for _, tab := range Tabs {
		active := TabVisualWidth(tab, true)
		inactive := TabVisualWidth(tab, false)
		if active != len(tab.Name)+2 {
			t.Errorf("%s active width = %d, want %d", tab.Name, active, len(tab.Name)+2)
		}
		if inactive != active+2 {
			t.Errorf("%s inactive width = %d, want %d", tab.Name, inactive, active+2)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	tests := map[rune]int{'m': 0, 's': 1, 'h': 2, 'x': -1}
	for key, want := range tests {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestShareBar(t *testing.T) {
	theme.SetActive(model.ThemeDark)

	bar := ShareBar("Taken", 41, 82, theme.Active.Taken, 9, 20)
	if !strings.Contains(bar, "41") || !strings.Contains(bar, "50%") {
		t.Errorf("ShareBar = %q, want count and percentage", bar)
	}

	empty := ShareBar("Taken", 0, 0, theme.Active.Taken, 9, 20)
	if !strings.Contains(empty, "0%") {
		t.Errorf("ShareBar with no meals = %q, want 0%%", empty)
	}
}

func TestSparklineScalesToPeak(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	if got := Sparkline([]float64{0, 41, 82}, theme.Active.Taken); got != "▁▄█" {
		t.Errorf("Sparkline = %q, want %q", got, "▁▄█")
	}
	if got := Sparkline(nil, theme.Active.Taken); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
}

func TestStatusBarFlash(t *testing.T) {
	bar := RenderStatusBar(80, "", "12 days left")
	if !strings.Contains(bar, "[q]uit") || !strings.Contains(bar, "12 days left") {
		t.Errorf("status bar = %q", bar)
	}
	if lipgloss.Width(bar) != 80 {
		t.Errorf("status bar width = %d, want 80", lipgloss.Width(bar))
	}

	flashed := RenderStatusBar(80, "Lunch marked as Taken ✓", "")
	if strings.Contains(flashed, "[q]uit") || !strings.Contains(flashed, "Lunch marked") {
		t.Errorf("flash did not replace the hints: %q", flashed)
	}
}
