// Package tui provides the interactive Bubble Tea dashboard for messmate.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tracker"
	"github.com/theirongolddev/messmate/internal/tui/components"
	"github.com/theirongolddev/messmate/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ActionDoneMsg reports the outcome of a tracker call made off the UI loop.
type ActionDoneMsg struct {
	Flash       string
	Err         error
	ResetCursor bool // the current cycle was replaced
}

type flashClearMsg struct{ seq int }

const (
	tabMeals = iota
	tabStats
	tabHistory
)

// mealsState is the grid cursor: an index into the cycle's days and into
// model.MealTypes.
type mealsState struct {
	day  int
	meal int
}

type historyState struct {
	cursor int // index into history, newest first
}

// App is the root Bubble Tea model.
type App struct {
	tracker  *tracker.Tracker
	currency string

	// Copy of the tracker state, refreshed after every action
	state model.AppState
	stats model.Stats
	today model.Date

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	meals   mealsState
	history historyState

	confirmClose bool

	// In-flight tracker calls drive the status bar spinner
	pending int
	spinner spinner.Model

	flash    string
	flashSeq int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	setupErr  error
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5
	flashDuration    = 3 * time.Second
)

// NewApp creates the dashboard over tr. currency is the display symbol.
func NewApp(tr *tracker.Tracker, currency string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		tracker:  tr,
		currency: currency,
		spinner:  sp,
	}
	a.refresh()
	a.meals = mealsState{day: a.todayIndex(), meal: 1}

	if !a.state.IsSetUp() {
		a.needSetup = true
		a.setupVals = newSetupValues(a.today)
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// refresh re-reads the tracker and keeps the cursors in range.
func (a *App) refresh() {
	a.state = a.tracker.State()
	a.stats = a.tracker.Stats()
	a.today = a.tracker.Today()
	theme.SetActive(a.state.Settings.Theme)

	n := len(a.days())
	a.meals.day = min(max(a.meals.day, 0), max(n-1, 0))
	a.meals.meal = min(max(a.meals.meal, 0), len(model.MealTypes)-1)
	a.history.cursor = min(max(a.history.cursor, 0), max(len(a.state.History)-1, 0))
}

func (a App) days() []model.Day {
	if a.state.Current == nil {
		return nil
	}
	return a.state.Current.Days
}

// todayIndex is the grid row of today, clamped to the cycle.
func (a App) todayIndex() int {
	c := a.state.Current
	if c == nil {
		return 0
	}
	idx := c.StartDate.DaysUntil(a.today)
	return min(max(idx, 0), len(c.Days)-1)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.needSetup || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ActionDoneMsg:
		a.pending = max(a.pending-1, 0)
		a.refresh()
		if msg.ResetCursor {
			a.meals.day = a.todayIndex()
			a.history.cursor = 0
		}
		if msg.Err != nil {
			return a.withFlash("Error: " + msg.Err.Error())
		}
		if msg.Flash != "" {
			return a.withFlash(msg.Flash)
		}
		return a, nil

	case flashClearMsg:
		if msg.seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		if a.pending == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.confirmClose {
		a.confirmClose = false
		if key == "y" || key == "Y" {
			return a.run(closeCycleCmd(a.tracker))
		}
		return a.withFlash("Cycle close cancelled")
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabMeals:
		if m, cmd, handled := a.updateMealsKey(key); handled {
			return m, cmd
		}
	case tabHistory:
		switch key {
		case "j", "down":
			a.moveCursor(1)
			return a, nil
		case "k", "up":
			a.moveCursor(-1)
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "t":
		return a.run(toggleThemeCmd(a.tracker))
	case "C":
		if a.state.Current != nil {
			a.confirmClose = true
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

// updateMealsKey handles the grid keys. handled is false for keys the grid
// does not use.
func (a App) updateMealsKey(key string) (App, tea.Cmd, bool) {
	days := a.days()
	if len(days) == 0 {
		return a, nil, false
	}

	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.meals.day = 0
	case "G", "end":
		a.meals.day = len(days) - 1
	case ".":
		a.meals.day = a.todayIndex()
	case "]":
		a.meals.meal = min(a.meals.meal+1, len(model.MealTypes)-1)
	case "[":
		a.meals.meal = max(a.meals.meal-1, 0)
	case "enter", " ":
		m, cmd := a.advance(model.MealTypes[a.meals.meal])
		return m, cmd, true
	case "b":
		m, cmd := a.advance(model.Breakfast)
		return m, cmd, true
	case "l":
		m, cmd := a.advance(model.Lunch)
		return m, cmd, true
	case "d":
		m, cmd := a.advance(model.Dinner)
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// advance rotates meal on the selected day. Sundays have no breakfast or
// dinner; the tracker reports that as a no-op and the grid says so.
func (a App) advance(meal model.MealType) (App, tea.Cmd) {
	day := a.days()[a.meals.day]
	if day.Slot(meal) == nil {
		m, cmd := a.withFlash(fmt.Sprintf("No %s on %s", meal, day.DayName))
		return m.(App), cmd
	}
	a.meals.meal = mealIndex(meal)
	m, cmd := a.run(advanceCmd(a.tracker, day.ID, meal))
	return m.(App), cmd
}

func mealIndex(meal model.MealType) int {
	for i, m := range model.MealTypes {
		if m == meal {
			return i
		}
	}
	return 0
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabMeals:
		a.meals.day = min(max(a.meals.day+delta, 0), max(len(a.days())-1, 0))
	case tabHistory:
		a.history.cursor = min(max(a.history.cursor+delta, 0), max(len(a.state.History)-1, 0))
	}
}

// run starts a tracker call and the spinner that shows it is in flight.
func (a App) run(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	a.pending++
	if a.pending == 1 {
		return a, tea.Batch(cmd, a.spinner.Tick)
	}
	return a, cmd
}

func (a App) withFlash(text string) (tea.Model, tea.Cmd) {
	a.flash = text
	a.flashSeq++
	seq := a.flashSeq
	return a, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		in, start, err := a.setupVals.toInput()
		if err == nil {
			err = a.tracker.Setup(in, start)
		}
		if err != nil {
			// Show the form again with the values kept.
			a.setupErr = err
			a.setupForm = newSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		a.needSetup = false
		a.setupForm = nil
		a.setupErr = nil
		a.refresh()
		a.meals.day = a.todayIndex()
		return a.withFlash("Welcome, " + a.state.Profile.Name + "! Your first cycle has started.")

	case huh.StateAborted:
		// Nothing to show without a profile.
		return a, tea.Quit
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.viewSetup()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  messmate needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewSetup() string {
	if a.setupErr == nil {
		return a.setupForm.View()
	}
	errStyle := lipgloss.NewStyle().Foreground(theme.Active.CancelledUser).Bold(true)
	return errStyle.Render("  Setup failed: "+a.setupErr.Error()) + "\n\n" + a.setupForm.View()
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"m s h", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move between days"},
			{"[ ]", "Move between meals"},
			{"g G .", "First / Last / Today"},
		}},
		{"Meals", []struct{ key, desc string }{
			{"Enter", "Advance selected meal"},
			{"b l d", "Advance breakfast / lunch / dinner"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"C", "Close cycle and start the next"},
			{"t", "Toggle dark / light theme"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + profile pill
	header := lipgloss.JoinVertical(lipgloss.Left,
		components.RenderTabBar(a.activeTab, w),
		a.renderInfoRow(w),
	)

	// 2. Status bar
	flash := a.flash
	if a.confirmClose {
		flash = "Close this cycle and start the next one? [y/N]"
	}
	right := a.statusRight()
	statusBar := components.RenderStatusBar(w, flash, right)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabMeals:
		content = a.renderMealsTab(cw, contentH)
	case tabStats:
		content = a.renderStatsTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderInfoRow(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	s := dim.Render(" ")
	if p := a.state.Profile; p != nil {
		s += accent.Render(p.Name) + dim.Render(" · ") + accent.Render(p.MessName)
	}
	if c := a.state.Current; c != nil {
		s += dim.Render(" │ ") + accent.Render(cli.FormatDateShort(c.StartDate)+" → "+cli.FormatDateShort(c.EndDate))
	}
	s += dim.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

func (a App) statusRight() string {
	if a.pending > 0 {
		return a.spinner.View() + " saving"
	}
	if a.state.Current == nil {
		return ""
	}
	return cli.FormatDaysRemaining(cycle.DaysRemaining(a.state.Current, a.today))
}

// ─── Helpers ────────────────────────────────────────────────────

// windowStart returns the first visible row so that cursor stays inside a
// window of visible rows out of n, centered where possible.
func windowStart(cursor, visible, n int) int {
	if n <= visible {
		return 0
	}
	return min(max(cursor-visible/2, 0), n-visible)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Tracker commands ───────────────────────────────────────────

func advanceCmd(tr *tracker.Tracker, dayID string, meal model.MealType) tea.Cmd {
	return func() tea.Msg {
		status, ok, err := tr.AdvanceMeal(dayID, meal)
		switch {
		case err != nil:
			return ActionDoneMsg{Err: err}
		case !ok:
			return ActionDoneMsg{}
		}
		return ActionDoneMsg{Flash: cli.AdvanceMessage(meal, status)}
	}
}

func toggleThemeCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		next, err := tr.ToggleTheme()
		if err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Flash: "Switched to " + string(next) + " theme"}
	}
}

func closeCycleCmd(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		_, st, err := tr.CloseCycle()
		if err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{
			Flash:       fmt.Sprintf("Cycle closed: %d taken, %s of extension credit", st.Taken, cli.FormatDays(st.ExtensionDays)),
			ResetCursor: true,
		}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
