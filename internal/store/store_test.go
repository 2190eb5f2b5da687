package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/snapshot"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n int }

func (s *seqIDs) NewCycleID() string {
	s.n++
	return fmt.Sprintf("cycle-%d", s.n)
}

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "messmate.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func trackedState(t *testing.T) model.AppState {
	t.Helper()
	gen := cycle.Generator{
		Clock: fixedClock{t: time.Date(2024, 3, 4, 7, 0, 0, 456_000_000, time.UTC)},
		IDs:   &seqIDs{},
	}
	st := model.NewAppState()
	st.Profile = &model.UserProfile{
		Name:        "Ravi",
		MessName:    "Sai Mess",
		MonthlyRate: 2610,
		PerMealRate: 30,
		StartDate:   model.NewDate(2024, time.March, 4),
	}
	st.Current = gen.Generate(st.Profile.StartDate)
	for i := 0; i < 6; i++ {
		cycle.Advance(st.Current, cycle.DayID(i), model.Lunch, time.Date(2024, 3, 4+i, 13, 0, 0, 0, time.UTC))
		cycle.Advance(st.Current, cycle.DayID(i), model.Lunch, time.Date(2024, 3, 4+i, 13, 5, 0, 0, time.UTC))
	}
	if _, _, err := cycle.Close(&st, gen); err != nil {
		t.Fatalf("Close: %v", err)
	}
	cycle.Advance(st.Current, cycle.DayID(0), model.Breakfast, time.Date(2024, 4, 3, 8, 0, 0, 0, time.UTC))
	st.Settings = model.Settings{Theme: model.ThemeLight, Notifications: true}
	return st
}

func TestLoad_EmptyDatabase(t *testing.T) {
	s, _ := openTemp(t)

	st, found, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("found = true on a fresh database")
	}
	if st.IsSetUp() || st.Settings.Theme != model.ThemeDark {
		t.Errorf("Load() = %+v, want empty state", st)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, path := openTemp(t)
	want := trackedState(t)

	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, found, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("found = false after Save")
	}

	if *got.Profile != *want.Profile {
		t.Errorf("profile = %+v, want %+v", *got.Profile, *want.Profile)
	}
	if got.Profile.ExtensionDays != 2 {
		t.Errorf("ExtensionDays = %d, want 2", got.Profile.ExtensionDays)
	}
	if got.Settings != want.Settings {
		t.Errorf("settings = %+v, want %+v", got.Settings, want.Settings)
	}
	if len(got.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(got.History))
	}
	if !got.History[0].CompletedAt.Equal(want.History[0].CompletedAt) {
		t.Errorf("completedAt = %v, want %v", got.History[0].CompletedAt, want.History[0].CompletedAt)
	}
	assertCyclesEqual(t, &got.History[0].Cycle, &want.History[0].Cycle)
	assertCyclesEqual(t, got.Current, want.Current)

	count, err := reopened.CycleCount()
	if err != nil || count != 2 {
		t.Errorf("CycleCount() = %d, %v; want 2", count, err)
	}
}

func assertCyclesEqual(t *testing.T, got, want *model.Cycle) {
	t.Helper()
	if got.ID != want.ID || got.StartDate != want.StartDate || got.EndDate != want.EndDate {
		t.Fatalf("cycle header = %s %s..%s, want %s %s..%s",
			got.ID, got.StartDate, got.EndDate, want.ID, want.StartDate, want.EndDate)
	}
	if len(got.Days) != len(want.Days) {
		t.Fatalf("days = %d, want %d", len(got.Days), len(want.Days))
	}
	for i := range want.Days {
		g, w := &got.Days[i], &want.Days[i]
		if g.ID != w.ID || g.Date != w.Date || g.DayName != w.DayName {
			t.Fatalf("day %d = %+v, want %+v", i, g, w)
		}
		for _, meal := range model.MealTypes {
			gs, ws := g.Slot(meal), w.Slot(meal)
			if (gs == nil) != (ws == nil) {
				t.Fatalf("day %d %s presence differs", i, meal)
			}
			if gs == nil {
				continue
			}
			if gs.Status != ws.Status || !gs.Timestamp.Equal(ws.Timestamp) {
				t.Errorf("day %d %s = %v@%v, want %v@%v", i, meal, gs.Status, gs.Timestamp, ws.Status, ws.Timestamp)
			}
		}
	}
}

func TestSave_OverwritesPreviousState(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Save(trackedState(t)); err != nil {
		t.Fatal(err)
	}

	// Theme chosen before setup: settings only.
	bare := model.NewAppState()
	bare.Settings.Theme = model.ThemeLight
	if err := s.Save(bare); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("found = false")
	}
	if got.Profile != nil || got.Current != nil || len(got.History) != 0 {
		t.Errorf("old rows survived: %+v", got)
	}
	if got.Settings.Theme != model.ThemeLight {
		t.Errorf("theme = %q, want light", got.Settings.Theme)
	}
	if n, _ := s.CycleCount(); n != 0 {
		t.Errorf("CycleCount() = %d, want 0", n)
	}
}

func TestReset(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Save(trackedState(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	_, found, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("found = true after Reset")
	}
}

func TestLoad_RejectsCorruptCycle(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Save(trackedState(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.db.Exec(`DELETE FROM meal_slots WHERE meal = 'lunch' AND idx = 3`); err != nil {
		t.Fatalf("corrupting database: %v", err)
	}

	_, found, err := s.Load()
	if !errors.Is(err, snapshot.ErrInvalidStructure) {
		t.Fatalf("Load error = %v, want ErrInvalidStructure", err)
	}
	if found {
		t.Error("corrupt state reported as found")
	}
}
