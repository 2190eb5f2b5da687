// Package tracker owns the application state and applies user actions to it.
// Every mutation is made on a copy, persisted, and only then swapped in, so a
// failed save never leaves a half-applied change behind.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/logger"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/report"
	"github.com/theirongolddev/messmate/internal/snapshot"
)

var (
	// ErrAlreadySetUp is returned by Setup when a profile and cycle exist.
	ErrAlreadySetUp = errors.New("tracker: already set up")
	// ErrNotSetUp is returned by operations that need a profile and cycle.
	ErrNotSetUp = errors.New("tracker: not set up")
	// ErrInvalidProfile is returned for unusable profile input.
	ErrInvalidProfile = errors.New("tracker: invalid profile")
)

// Store persists the whole state.
type Store interface {
	Load() (model.AppState, bool, error)
	Save(model.AppState) error
}

// ProfileInput is the editable part of a user profile. A zero PerMealRate is
// derived from MonthlyRate.
type ProfileInput struct {
	Name        string
	MessName    string
	MonthlyRate float64
	PerMealRate float64
}

func (in ProfileInput) normalize() (ProfileInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.MessName = strings.TrimSpace(in.MessName)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if in.MessName == "" {
		return in, fmt.Errorf("%w: mess name is required", ErrInvalidProfile)
	}
	for _, v := range []float64{in.MonthlyRate, in.PerMealRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return in, fmt.Errorf("%w: rates must be non-negative numbers", ErrInvalidProfile)
		}
	}
	in.MonthlyRate = model.Round2(in.MonthlyRate)
	if in.PerMealRate == 0 {
		in.PerMealRate = model.DerivePerMealRate(in.MonthlyRate)
	}
	in.PerMealRate = model.Round2(in.PerMealRate)
	return in, nil
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithGenerator replaces the clock and id source used for new cycles and
// slot timestamps.
func WithGenerator(g cycle.Generator) Option {
	return func(t *Tracker) { t.gen = g }
}

// WithLocation sets the zone whose calendar decides what "today" is. The
// default is time.Local. Slot timestamps stay in UTC.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// Tracker serialises every read and write of the state behind one mutex.
type Tracker struct {
	mu    sync.Mutex
	state model.AppState
	store Store
	gen   cycle.Generator
	loc   *time.Location
	log   *slog.Logger
}

// Open loads the persisted state, or starts empty when nothing was saved.
func Open(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: store,
		gen:   cycle.NewGenerator(),
		loc:   time.Local,
		log:   logger.Discard(),
	}
	for _, o := range opts {
		o(t)
	}

	st, found, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if !found {
		st = model.NewAppState()
	}
	t.state = st
	t.log.Debug("state loaded", "found", found, "set_up", st.IsSetUp(), "history", len(st.History))
	return t, nil
}

// commit applies fn to a copy of the state, persists the copy and swaps it in.
// Callers hold t.mu.
func (t *Tracker) commit(fn func(*model.AppState) error) error {
	next := t.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := t.store.Save(next); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	t.state = next
	return nil
}

// Now returns the tracker clock's current instant.
func (t *Tracker) Now() time.Time {
	return t.gen.Clock.Now()
}

// Today returns the calendar date of the tracker clock in the user's zone.
func (t *Tracker) Today() model.Date {
	return model.DateOf(t.gen.Clock.Now().In(t.loc))
}

// Setup creates the profile and the first cycle starting on start.
func (t *Tracker) Setup(in ProfileInput, start model.Date) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}
	if start.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidProfile)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.IsSetUp() {
		return ErrAlreadySetUp
	}
	err = t.commit(func(s *model.AppState) error {
		s.Profile = &model.UserProfile{
			Name:        in.Name,
			MessName:    in.MessName,
			MonthlyRate: in.MonthlyRate,
			PerMealRate: in.PerMealRate,
			StartDate:   start,
		}
		s.Current = t.gen.Generate(start)
		return nil
	})
	if err != nil {
		return err
	}
	t.log.Info("setup complete", "name", in.Name, "mess", in.MessName, "start", start.String(), "cycle", t.state.Current.ID)
	return nil
}

// AdvanceMeal rotates one meal slot of the current cycle to its next status.
// ok is false, with nothing changed or saved, when the slot does not exist.
func (t *Tracker) AdvanceMeal(dayID string, meal model.MealType) (status model.Status, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.IsSetUp() || !hasSlot(t.state.Current, dayID, meal) {
		t.log.Debug("ignored invalid meal reference", "day", dayID, "meal", string(meal))
		return 0, false, nil
	}
	err = t.commit(func(s *model.AppState) error {
		status, ok = cycle.Advance(s.Current, dayID, meal, t.gen.Clock.Now())
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	t.log.Info("meal advanced", "day", dayID, "meal", string(meal), "status", status.String())
	return status, ok, nil
}

func hasSlot(c *model.Cycle, dayID string, meal model.MealType) bool {
	day := c.DayByID(dayID)
	return day != nil && day.Slot(meal) != nil
}

// SwitchTheme sets the display theme.
func (t *Tracker) SwitchTheme(theme model.Theme) error {
	if _, err := model.ParseTheme(string(theme)); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.commit(func(s *model.AppState) error {
		s.Settings.Theme = theme
		return nil
	}); err != nil {
		return err
	}
	t.log.Info("theme switched", "theme", string(theme))
	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (t *Tracker) ToggleTheme() (model.Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.Settings.Theme.Toggle()
	if err := t.commit(func(s *model.AppState) error {
		s.Settings.Theme = next
		return nil
	}); err != nil {
		return t.state.Settings.Theme, err
	}
	t.log.Info("theme switched", "theme", string(next))
	return next, nil
}

// SetNotifications stores the notifications preference.
func (t *Tracker) SetNotifications(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.commit(func(s *model.AppState) error {
		s.Settings.Notifications = on
		return nil
	})
}

// SaveProfile updates name, mess and rates. Start date and extension credit
// are kept.
func (t *Tracker) SaveProfile(in ProfileInput) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Profile == nil {
		return ErrNotSetUp
	}
	if err := t.commit(func(s *model.AppState) error {
		s.Profile.Name = in.Name
		s.Profile.MessName = in.MessName
		s.Profile.MonthlyRate = in.MonthlyRate
		s.Profile.PerMealRate = in.PerMealRate
		return nil
	}); err != nil {
		return err
	}
	t.log.Info("profile saved", "monthly_rate", in.MonthlyRate, "per_meal_rate", in.PerMealRate)
	return nil
}

// CloseCycle archives the current cycle and starts the next one.
func (t *Tracker) CloseCycle() (model.ArchivedCycle, model.Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		archived model.ArchivedCycle
		stats    model.Stats
	)
	err := t.commit(func(s *model.AppState) error {
		var err error
		archived, stats, err = cycle.Close(s, t.gen)
		return err
	})
	if err != nil {
		return model.ArchivedCycle{}, model.Stats{}, err
	}

	t.log.Info("cycle closed",
		"cycle", archived.ID,
		"taken", stats.Taken,
		"extension_days", stats.ExtensionDays,
		"next", t.state.Current.ID,
	)
	return model.ArchivedCycle{Cycle: *archived.Cycle.Clone(), CompletedAt: archived.CompletedAt}, stats, nil
}

// ResetAll discards everything and returns to the state before setup.
func (t *Tracker) ResetAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.commit(func(s *model.AppState) error {
		*s = model.NewAppState()
		return nil
	}); err != nil {
		return err
	}
	t.log.Warn("all data reset")
	return nil
}

// Restore replaces the whole state with a snapshot read from r. The input is
// parsed and validated before the lock is taken; on any failure the current
// state is kept.
func (t *Tracker) Restore(r io.Reader) error {
	st, err := snapshot.Read(r)
	if err != nil {
		t.log.Warn("restore rejected", "error", err)
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.commit(func(s *model.AppState) error {
		*s = st
		return nil
	}); err != nil {
		return err
	}
	t.log.Info("state restored", "cycle", st.Current.ID, "history", len(st.History))
	return nil
}

// Backup writes a snapshot of the state to w. Only a set-up state is a
// restorable snapshot, so backups before setup are refused.
func (t *Tracker) Backup(w io.Writer) error {
	t.mu.Lock()
	if !t.state.IsSetUp() {
		t.mu.Unlock()
		return ErrNotSetUp
	}
	data, err := snapshot.Serialize(t.state)
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	t.log.Info("backup written", "bytes", len(data))
	return nil
}

// State returns a deep copy of the state for rendering.
func (t *Tracker) State() model.AppState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Stats computes the statistics of the current cycle.
func (t *Tracker) Stats() model.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cycle.ComputeStats(t.state.Current, t.state.Profile)
}

// Report builds the report payload of the current cycle.
func (t *Tracker) Report(now time.Time) (report.Payload, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := report.Build(t.state, now)
	if errors.Is(err, report.ErrNotSetUp) {
		return report.Payload{}, fmt.Errorf("%w: %w", ErrNotSetUp, err)
	}
	return p, err
}
