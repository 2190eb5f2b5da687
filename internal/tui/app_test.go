package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tracker"
	"github.com/theirongolddev/messmate/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type memStore struct {
	mu    sync.Mutex
	state model.AppState
	found bool
}

func (m *memStore) Load() (model.AppState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), m.found, nil
}

func (m *memStore) Save(s model.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	m.found = true
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n int }

func (s *seqIDs) NewCycleID() string {
	s.n++
	return "cycle-" + string(rune('0'+s.n))
}

// newTestTracker returns a tracker whose clock reads Friday 2024-01-05.
func newTestTracker(t *testing.T, setUp bool) *tracker.Tracker {
	t.Helper()
	gen := cycle.Generator{
		Clock: fixedClock{t: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)},
		IDs:   &seqIDs{},
	}
	tr, err := tracker.Open(&memStore{}, tracker.WithGenerator(gen), tracker.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if setUp {
		in := tracker.ProfileInput{Name: "Asha", MessName: "Annapurna Mess", MonthlyRate: 2500}
		if err := tr.Setup(in, model.NewDate(2024, time.January, 1)); err != nil {
			t.Fatalf("Setup: %v", err)
		}
	}
	t.Cleanup(func() { theme.SetActive(model.ThemeDark) })
	return tr
}

// runCmd executes cmd, giving up on commands that wait (flash timers).
func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// drain runs the tracker commands produced by an update and feeds their
// results back into the app.
func drain(a App, cmd tea.Cmd) App {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ActionDoneMsg:
			m, _ := a.Update(msg)
			a = m.(App)
		}
	}
	return a
}

func press(a App, keys ...string) App {
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		if k == "enter" {
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		}
		m, cmd := a.Update(msg)
		a = drain(m.(App), cmd)
	}
	return a
}

func sized(a App, w, h int) App {
	m, _ := a.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return m.(App)
}

func TestNewAppWithoutProfileShowsSetup(t *testing.T) {
	a := NewApp(newTestTracker(t, false), "₹")
	if !a.needSetup || a.setupForm == nil {
		t.Fatal("expected the setup form before setup")
	}
	if a.setupVals.StartDate != "2024-01-05" {
		t.Errorf("default start date = %q, want today", a.setupVals.StartDate)
	}
}

func TestNewAppCursorStartsOnToday(t *testing.T) {
	a := NewApp(newTestTracker(t, true), "₹")
	if a.needSetup {
		t.Fatal("set-up tracker should skip the form")
	}
	if a.meals.day != 4 || a.meals.meal != 1 {
		t.Errorf("cursor = %+v, want day 4 lunch", a.meals)
	}
}

func TestEnterAdvancesSelectedMeal(t *testing.T) {
	tr := newTestTracker(t, true)
	a := NewApp(tr, "₹")

	a = press(a, "enter")
	lunch := tr.State().Current.Days[4].Lunch
	if lunch.Status != model.StatusTaken {
		t.Fatalf("lunch = %v, want taken", lunch.Status)
	}
	if a.flash != "Lunch marked as Taken ✓" {
		t.Errorf("flash = %q", a.flash)
	}
	if a.pending != 0 {
		t.Errorf("pending = %d after the action finished", a.pending)
	}
	if a.stats.Taken != 1 {
		t.Errorf("app stats not refreshed: taken = %d", a.stats.Taken)
	}

	a = press(a, "enter", "enter", "enter")
	if got := tr.State().Current.Days[4].Lunch.Status; got != model.StatusPending {
		t.Errorf("after four advances lunch = %v, want pending", got)
	}
}

func TestMealShortcutsAndSundayGaps(t *testing.T) {
	tr := newTestTracker(t, true)
	a := NewApp(tr, "₹")

	// Day 6 is Sunday 2024-01-07.
	a = press(a, "j", "j", "b")
	if a.meals.day != 6 {
		t.Fatalf("cursor day = %d, want 6", a.meals.day)
	}
	if a.flash != "No breakfast on Sunday" {
		t.Errorf("flash = %q", a.flash)
	}

	a = press(a, "k", "d")
	day := tr.State().Current.Days[5]
	if day.Dinner.Status != model.StatusTaken {
		t.Errorf("saturday dinner = %v, want taken", day.Dinner.Status)
	}
	if a.meals.meal != 2 {
		t.Errorf("cursor meal = %d, want dinner", a.meals.meal)
	}

	a = press(a, "G")
	if a.meals.day != model.CycleLength-1 {
		t.Errorf("G moved to %d", a.meals.day)
	}
	a = press(a, "j")
	if a.meals.day != model.CycleLength-1 {
		t.Errorf("cursor moved past the last day: %d", a.meals.day)
	}
	a = press(a, ".")
	if a.meals.day != 4 {
		t.Errorf(". moved to %d, want today", a.meals.day)
	}
}

func TestToggleThemePersists(t *testing.T) {
	tr := newTestTracker(t, true)
	a := NewApp(tr, "₹")

	press(a, "t")
	if got := tr.State().Settings.Theme; got != model.ThemeLight {
		t.Errorf("saved theme = %q, want light", got)
	}
	if theme.Active.Name != model.ThemeLight {
		t.Errorf("active palette = %q, want light", theme.Active.Name)
	}
}

func TestCloseCycleNeedsConfirmation(t *testing.T) {
	tr := newTestTracker(t, true)
	a := NewApp(tr, "₹")

	a = press(a, "C", "n")
	if len(tr.State().History) != 0 {
		t.Fatal("cycle closed without confirmation")
	}
	if a.confirmClose {
		t.Error("confirmation still pending after answering")
	}

	a = press(a, "C", "y")
	st := tr.State()
	if len(st.History) != 1 {
		t.Fatalf("history = %d, want 1", len(st.History))
	}
	if st.Current.StartDate != model.NewDate(2024, time.January, 31) {
		t.Errorf("next cycle starts %s", st.Current.StartDate)
	}
	if !strings.HasPrefix(a.flash, "Cycle closed") {
		t.Errorf("flash = %q", a.flash)
	}
	if a.meals.day != 0 {
		t.Errorf("cursor = %d, want clamped to the new cycle's first day", a.meals.day)
	}
}

func TestTabKeys(t *testing.T) {
	a := NewApp(newTestTracker(t, true), "₹")

	a = press(a, "s")
	if a.activeTab != tabStats {
		t.Errorf("s -> tab %d", a.activeTab)
	}
	a = press(a, "h")
	if a.activeTab != tabHistory {
		t.Errorf("h -> tab %d", a.activeTab)
	}
	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.(App).activeTab != tabMeals {
		t.Errorf("right from the last tab should wrap to meals")
	}
}

func TestViewRendersEachTab(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	a := sized(NewApp(newTestTracker(t, true), "₹"), 130, 45)

	meals := a.View()
	for _, want := range []string{"Breakfast", "Fri 05 Jan", "Asha", "Annapurna Mess", "25 days left"} {
		if !strings.Contains(meals, want) {
			t.Errorf("meals view missing %q", want)
		}
	}
	if got := lipgloss.Height(meals); got != 45 {
		t.Errorf("view height = %d, want 45", got)
	}

	a = press(a, "s")
	stats := a.View()
	for _, want := range []string{"Missed by you", "Per-meal rate", "₹28.74", "Breakdown"} {
		if !strings.Contains(stats, want) {
			t.Errorf("stats view missing %q", want)
		}
	}

	a = press(a, "h")
	if !strings.Contains(a.View(), "No closed cycles yet") {
		t.Error("history view missing the empty message")
	}

	a = press(a, "?")
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not shown")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := sized(NewApp(newTestTracker(t, true), "₹"), 60, 20)
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Error("expected the narrow-terminal message")
	}
}

func TestWindowStart(t *testing.T) {
	tests := []struct {
		cursor, visible, n, want int
	}{
		{0, 10, 30, 0},
		{15, 10, 30, 10},
		{29, 10, 30, 20},
		{5, 40, 30, 0},
	}
	for _, tt := range tests {
		if got := windowStart(tt.cursor, tt.visible, tt.n); got != tt.want {
			t.Errorf("windowStart(%d, %d, %d) = %d, want %d", tt.cursor, tt.visible, tt.n, got, tt.want)
		}
	}
}

func TestSetupValuesToInput(t *testing.T) {
	v := &setupValues{
		Name:        "Asha",
		MessName:    "Annapurna",
		MonthlyRate: "2,500",
		StartDate:   " 2024-01-01 ",
	}
	in, start, err := v.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.MonthlyRate != 2500 || in.PerMealRate != 0 {
		t.Errorf("rates = %v / %v, want 2500 / derived", in.MonthlyRate, in.PerMealRate)
	}
	if start != model.NewDate(2024, time.January, 1) {
		t.Errorf("start = %s", start)
	}

	bad := []*setupValues{
		{MonthlyRate: "", StartDate: "2024-01-01"},
		{MonthlyRate: "-5", StartDate: "2024-01-01"},
		{MonthlyRate: "2500", PerMealRate: "abc", StartDate: "2024-01-01"},
		{MonthlyRate: "2500", StartDate: "01/01/2024"},
	}
	for i, v := range bad {
		if _, _, err := v.toInput(); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}
