package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	state   model.AppState
	found   bool
	saves   int
	failErr error
}

func (m *memStore) Load() (model.AppState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), m.found, nil
}

func (m *memStore) Save(s model.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.state = s.Clone()
	m.found = true
	m.saves++
	return nil
}

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewCycleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("cycle-%d", s.n)
}

var start = model.NewDate(2024, time.January, 1)

func newTracker(t *testing.T, store *memStore) *Tracker {
	t.Helper()
	gen := cycle.Generator{
		Clock: &stepClock{t: time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)},
		IDs:   &seqIDs{},
	}
	tr, err := Open(store, WithGenerator(gen))
	require.NoError(t, err)
	return tr
}

func setUp(t *testing.T) (*Tracker, *memStore) {
	t.Helper()
	store := &memStore{}
	tr := newTracker(t, store)
	require.NoError(t, tr.Setup(ProfileInput{Name: "Kiran", MessName: "Hostel 4", MonthlyRate: 2610}, start))
	return tr, store
}

func TestOpen_EmptyStore(t *testing.T) {
	tr := newTracker(t, &memStore{})
	st := tr.State()
	assert.False(t, st.IsSetUp())
	assert.Equal(t, model.ThemeDark, st.Settings.Theme)
	assert.NotNil(t, st.History)
}

func TestSetup(t *testing.T) {
	tr, store := setUp(t)

	st := tr.State()
	require.True(t, st.IsSetUp())
	assert.Equal(t, 30.0, st.Profile.PerMealRate, "per-meal rate derived from 2610/87")
	assert.Equal(t, start, st.Current.StartDate)
	assert.Equal(t, "cycle-1", st.Current.ID)
	assert.Equal(t, 1, store.saves)

	err := tr.Setup(ProfileInput{Name: "X", MessName: "Y"}, start)
	assert.ErrorIs(t, err, ErrAlreadySetUp)
}

func TestSetup_RejectsBadInput(t *testing.T) {
	tr := newTracker(t, &memStore{})
	for _, in := range []ProfileInput{
		{Name: " ", MessName: "Mess", MonthlyRate: 100},
		{Name: "A", MessName: "", MonthlyRate: 100},
		{Name: "A", MessName: "Mess", MonthlyRate: -1},
	} {
		assert.ErrorIs(t, tr.Setup(in, start), ErrInvalidProfile)
	}
	assert.ErrorIs(t, tr.Setup(ProfileInput{Name: "A", MessName: "M"}, model.Date{}), ErrInvalidProfile)
	assert.False(t, tr.State().IsSetUp())
}

func TestAdvanceMeal(t *testing.T) {
	tr, store := setUp(t)

	want := []model.Status{model.StatusTaken, model.StatusCancelledUser, model.StatusCancelledOwner, model.StatusPending}
	for _, w := range want {
		got, ok, err := tr.AdvanceMeal("meal-0", model.Breakfast)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, w, got)
	}
	assert.Equal(t, 5, store.saves)

	// 2024-01-07 is a Sunday: meal-6 has no breakfast.
	_, ok, err := tr.AdvanceMeal("meal-6", model.Breakfast)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = tr.AdvanceMeal("meal-99", model.Lunch)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, store.saves, "invalid references are not saved")
}

func TestAdvanceMeal_BeforeSetup(t *testing.T) {
	tr := newTracker(t, &memStore{})
	_, ok, err := tr.AdvanceMeal("meal-0", model.Lunch)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailedSaveKeepsState(t *testing.T) {
	tr, store := setUp(t)
	before := tr.State()

	store.failErr = errors.New("disk full")
	_, _, err := tr.AdvanceMeal("meal-0", model.Lunch)
	require.Error(t, err)
	_, _, err = tr.CloseCycle()
	require.Error(t, err)
	require.Error(t, tr.ResetAll())

	assert.Equal(t, before, tr.State())
}

func TestStateIsACopy(t *testing.T) {
	tr, _ := setUp(t)
	st := tr.State()
	st.Current.Days[0].Lunch.Status = model.StatusTaken
	st.Profile.Name = "changed"

	again := tr.State()
	assert.Equal(t, model.StatusPending, again.Current.Days[0].Lunch.Status)
	assert.Equal(t, "Kiran", again.Profile.Name)
}

func TestTheme(t *testing.T) {
	tr, store := setUp(t)

	theme, err := tr.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)
	assert.Equal(t, model.ThemeLight, store.state.Settings.Theme)

	require.NoError(t, tr.SwitchTheme(model.ThemeDark))
	assert.Equal(t, model.ThemeDark, tr.State().Settings.Theme)
	assert.Error(t, tr.SwitchTheme("sepia"))

	require.NoError(t, tr.SetNotifications(true))
	assert.True(t, tr.State().Settings.Notifications)
}

func TestSaveProfile(t *testing.T) {
	tr, _ := setUp(t)
	for _, day := range []string{"meal-1", "meal-2", "meal-3"} {
		for i := 0; i < 2; i++ {
			_, _, err := tr.AdvanceMeal(day, model.Lunch)
			require.NoError(t, err)
		}
	}
	_, _, err := tr.CloseCycle()
	require.NoError(t, err)

	require.NoError(t, tr.SaveProfile(ProfileInput{Name: "Kiran R", MessName: "Hostel 5", MonthlyRate: 3000, PerMealRate: 35}))
	p := tr.State().Profile
	assert.Equal(t, "Kiran R", p.Name)
	assert.Equal(t, 35.0, p.PerMealRate)
	assert.Equal(t, start, p.StartDate)
	assert.Equal(t, 1, p.ExtensionDays)

	require.NoError(t, tr.SaveProfile(ProfileInput{Name: "Kiran R", MessName: "Hostel 5", MonthlyRate: 3000}))
	assert.Equal(t, 34.48, tr.State().Profile.PerMealRate)

	fresh := newTracker(t, &memStore{})
	assert.ErrorIs(t, fresh.SaveProfile(ProfileInput{Name: "A", MessName: "B"}), ErrNotSetUp)
}

func TestCloseCycle(t *testing.T) {
	tr, _ := setUp(t)
	for _, day := range []string{"meal-0", "meal-1", "meal-2"} {
		_, _, err := tr.AdvanceMeal(day, model.Dinner)
		require.NoError(t, err)
		_, _, err = tr.AdvanceMeal(day, model.Dinner)
		require.NoError(t, err)
	}

	archived, stats, err := tr.CloseCycle()
	require.NoError(t, err)
	assert.Equal(t, "cycle-1", archived.ID)
	assert.Equal(t, 3, stats.MissedByUser)
	assert.Equal(t, 1, stats.ExtensionDays)

	st := tr.State()
	require.Len(t, st.History, 1)
	assert.Equal(t, 1, st.Profile.ExtensionDays)
	assert.Equal(t, "cycle-2", st.Current.ID)
	assert.Equal(t, model.NewDate(2024, time.January, 31), st.Current.StartDate)
	assert.Equal(t, 0, tr.Stats().Taken+tr.Stats().MissedByUser)

	// The returned entry is detached from the tracker's history.
	archived.Days[0].Dinner.Status = model.StatusTaken
	assert.Equal(t, model.StatusCancelledUser, tr.State().History[0].Days[0].Dinner.Status)
}

func TestCloseCycle_BeforeSetup(t *testing.T) {
	tr := newTracker(t, &memStore{})
	_, _, err := tr.CloseCycle()
	assert.ErrorIs(t, err, cycle.ErrNoCurrentCycle)
}

func TestBackupRestore(t *testing.T) {
	tr, _ := setUp(t)
	_, _, err := tr.AdvanceMeal("meal-3", model.Lunch)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.Backup(&buf))
	want := tr.State()

	other := newTracker(t, &memStore{})
	require.NoError(t, other.Restore(&buf))
	assert.Equal(t, want, other.State())
}

func TestRestore_InvalidKeepsState(t *testing.T) {
	tr, store := setUp(t)
	before := tr.State()
	saves := store.saves

	err := tr.Restore(strings.NewReader(`{"userProfile": null, "currentCycle": null, "history": [], "settings": {"theme": "dark", "notifications": false}}`))
	assert.ErrorIs(t, err, snapshot.ErrInvalidStructure)

	err = tr.Restore(strings.NewReader(`{not json`))
	assert.ErrorIs(t, err, snapshot.ErrMalformed)

	assert.Equal(t, before, tr.State())
	assert.Equal(t, saves, store.saves)
}

func TestBackup_BeforeSetup(t *testing.T) {
	tr := newTracker(t, &memStore{})
	assert.ErrorIs(t, tr.Backup(&bytes.Buffer{}), ErrNotSetUp)
}

func TestResetAll(t *testing.T) {
	tr, store := setUp(t)
	_, err := tr.ToggleTheme()
	require.NoError(t, err)

	require.NoError(t, tr.ResetAll())
	st := tr.State()
	assert.False(t, st.IsSetUp())
	assert.Empty(t, st.History)
	assert.Equal(t, model.ThemeDark, st.Settings.Theme)
	assert.Nil(t, store.state.Profile)

	require.NoError(t, tr.Setup(ProfileInput{Name: "New", MessName: "Mess", MonthlyRate: 100}, start))
}

func TestReport(t *testing.T) {
	tr := newTracker(t, &memStore{})
	_, err := tr.Report(time.Now())
	assert.ErrorIs(t, err, ErrNotSetUp)

	tr, _ = setUp(t)
	p, err := tr.Report(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Kiran", p.Name)
	assert.Len(t, p.Rows, 30)
}

func TestOpen_LoadsPersistedState(t *testing.T) {
	_, store := setUp(t)
	again := newTracker(t, store)
	assert.True(t, again.State().IsSetUp())
}

func TestConcurrentAdvance(t *testing.T) {
	tr, _ := setUp(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _, _ = tr.AdvanceMeal("meal-2", model.Lunch)
			}
		}()
	}
	wg.Wait()

	// 80 advances of a period-4 rotation land back on pending.
	assert.Equal(t, model.StatusPending, tr.State().Current.Days[2].Lunch.Status)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestToday_UsesLocalCalendar(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 01:00 on 2 January in IST is still 1 January in UTC.
	instant := time.Date(2024, 1, 2, 1, 0, 0, 0, ist).UTC()
	gen := cycle.Generator{Clock: fixedClock{t: instant}, IDs: &seqIDs{}}

	tr, err := Open(&memStore{}, WithGenerator(gen), WithLocation(ist))
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, time.January, 2), tr.Today())

	utc, err := Open(&memStore{}, WithGenerator(gen), WithLocation(time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, time.January, 1), utc.Today())

	require.NoError(t, tr.Setup(ProfileInput{Name: "Kiran", MessName: "Hostel 4", MonthlyRate: 2610}, tr.Today()))
	st := tr.State()
	assert.Equal(t, time.UTC, st.Current.Days[0].Lunch.Timestamp.Location(), "slot timestamps stay in UTC")
}

func TestState_IsSetUpOnReturnedValue(t *testing.T) {
	tr, _ := setUp(t)
	assert.True(t, tr.State().IsSetUp())
}
