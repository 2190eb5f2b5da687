// Package store persists the tracker state in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/snapshot"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store provides SQLite-backed persistence of the whole AppState.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// A single connection keeps the pragmas and transactions on one handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces everything stored with state in one transaction.
func (s *Store) Save(state model.AppState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearAll(tx); err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT INTO settings (id, theme, notifications, saved_at) VALUES (1, ?, ?, ?)`,
		string(state.Settings.Theme), boolInt(state.Settings.Notifications),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if p := state.Profile; p != nil {
		_, err = tx.Exec(`INSERT INTO profile
			(id, name, mess_name, monthly_rate, per_meal_rate, start_date, extension_days)
			VALUES (1, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.MessName, p.MonthlyRate, p.PerMealRate, p.StartDate.String(), p.ExtensionDays,
		)
		if err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
	}

	for i := range state.History {
		h := &state.History[i]
		if err := insertCycle(tx, i, &h.Cycle, h.CompletedAt); err != nil {
			return err
		}
	}
	if state.Current != nil {
		if err := insertCycle(tx, len(state.History), state.Current, time.Time{}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

func insertCycle(tx *sql.Tx, position int, c *model.Cycle, completedAt time.Time) error {
	var completed sql.NullString
	if !completedAt.IsZero() {
		completed = sql.NullString{String: formatTime(completedAt), Valid: true}
	}
	_, err := tx.Exec(`INSERT INTO cycles
		(position, cycle_id, start_date, end_date, completed_at, is_current)
		VALUES (?, ?, ?, ?, ?, ?)`,
		position, c.ID, c.StartDate.String(), c.EndDate.String(), completed, boolInt(!completed.Valid),
	)
	if err != nil {
		return fmt.Errorf("saving cycle %s: %w", c.ID, err)
	}

	for idx := range c.Days {
		d := &c.Days[idx]
		_, err := tx.Exec(`INSERT INTO days (position, idx, day_id, date, day_name) VALUES (?, ?, ?, ?, ?)`,
			position, idx, d.ID, d.Date.String(), d.DayName)
		if err != nil {
			return fmt.Errorf("saving day %s of cycle %s: %w", d.ID, c.ID, err)
		}
		for _, meal := range model.MealTypes {
			slot := d.Slot(meal)
			if slot == nil {
				continue
			}
			_, err := tx.Exec(`INSERT INTO meal_slots (position, idx, meal, status, timestamp) VALUES (?, ?, ?, ?, ?)`,
				position, idx, string(meal), slot.Status.String(), formatTime(slot.Timestamp))
			if err != nil {
				return fmt.Errorf("saving %s of %s: %w", meal, d.ID, err)
			}
		}
	}
	return nil
}

// Load reads the stored state. found is false when nothing was ever saved.
func (s *Store) Load() (state model.AppState, found bool, err error) {
	state = model.NewAppState()

	var theme string
	var notifications int
	err = s.db.QueryRow("SELECT theme, notifications FROM settings WHERE id = 1").Scan(&theme, &notifications)
	if err == sql.ErrNoRows {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("loading settings: %w", err)
	}
	if state.Settings.Theme, err = model.ParseTheme(theme); err != nil {
		return state, false, fmt.Errorf("loading settings: %w", err)
	}
	state.Settings.Notifications = notifications != 0

	if state.Profile, err = s.loadProfile(); err != nil {
		return state, false, err
	}

	cycles, err := s.loadCycles()
	if err != nil {
		return state, false, err
	}
	for _, c := range cycles {
		if c.current {
			cur := c.cycle
			state.Current = &cur
			continue
		}
		state.History = append(state.History, model.ArchivedCycle{Cycle: c.cycle, CompletedAt: c.completedAt})
	}

	if state.IsSetUp() {
		if err := snapshot.Validate(state); err != nil {
			return model.NewAppState(), false, fmt.Errorf("stored state is corrupt: %w", err)
		}
	}
	return state, true, nil
}

func (s *Store) loadProfile() (*model.UserProfile, error) {
	var p model.UserProfile
	var start string
	err := s.db.QueryRow(`SELECT name, mess_name, monthly_rate, per_meal_rate, start_date, extension_days
		FROM profile WHERE id = 1`).Scan(&p.Name, &p.MessName, &p.MonthlyRate, &p.PerMealRate, &start, &p.ExtensionDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if p.StartDate, err = model.ParseDate(start); err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return &p, nil
}

type storedCycle struct {
	cycle       model.Cycle
	completedAt time.Time
	current     bool
}

func (s *Store) loadCycles() ([]storedCycle, error) {
	rows, err := s.db.Query(`SELECT position, cycle_id, start_date, end_date, completed_at, is_current
		FROM cycles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("loading cycles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cycles []storedCycle
	byPosition := make(map[int]int)
	for rows.Next() {
		var pos, current int
		var sc storedCycle
		var start, end string
		var completed sql.NullString
		if err := rows.Scan(&pos, &sc.cycle.ID, &start, &end, &completed, &current); err != nil {
			return nil, fmt.Errorf("loading cycles: %w", err)
		}
		if sc.cycle.StartDate, err = model.ParseDate(start); err != nil {
			return nil, fmt.Errorf("cycle %s: %w", sc.cycle.ID, err)
		}
		if sc.cycle.EndDate, err = model.ParseDate(end); err != nil {
			return nil, fmt.Errorf("cycle %s: %w", sc.cycle.ID, err)
		}
		if completed.Valid {
			if sc.completedAt, err = parseTime(completed.String); err != nil {
				return nil, fmt.Errorf("cycle %s: %w", sc.cycle.ID, err)
			}
		}
		sc.current = current != 0
		byPosition[pos] = len(cycles)
		cycles = append(cycles, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadDays(cycles, byPosition); err != nil {
		return nil, err
	}
	if err := s.loadSlots(cycles, byPosition); err != nil {
		return nil, err
	}
	return cycles, nil
}

func (s *Store) loadDays(cycles []storedCycle, byPosition map[int]int) error {
	rows, err := s.db.Query("SELECT position, idx, day_id, date, day_name FROM days ORDER BY position, idx")
	if err != nil {
		return fmt.Errorf("loading days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pos, idx int
		var d model.Day
		var date string
		if err := rows.Scan(&pos, &idx, &d.ID, &date, &d.DayName); err != nil {
			return fmt.Errorf("loading days: %w", err)
		}
		if d.Date, err = model.ParseDate(date); err != nil {
			return fmt.Errorf("day %s: %w", d.ID, err)
		}
		ci, ok := byPosition[pos]
		if !ok || idx != len(cycles[ci].cycle.Days) {
			return fmt.Errorf("loading days: orphan or out-of-order day %d/%d", pos, idx)
		}
		cycles[ci].cycle.Days = append(cycles[ci].cycle.Days, d)
	}
	return rows.Err()
}

func (s *Store) loadSlots(cycles []storedCycle, byPosition map[int]int) error {
	rows, err := s.db.Query("SELECT position, idx, meal, status, timestamp FROM meal_slots")
	if err != nil {
		return fmt.Errorf("loading meal slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pos, idx int
		var mealStr, statusStr, ts string
		if err := rows.Scan(&pos, &idx, &mealStr, &statusStr, &ts); err != nil {
			return fmt.Errorf("loading meal slots: %w", err)
		}
		meal, err := model.ParseMealType(mealStr)
		if err != nil {
			return err
		}
		slot := &model.MealSlot{}
		if slot.Status, err = model.ParseStatus(statusStr); err != nil {
			return err
		}
		if slot.Timestamp, err = parseTime(ts); err != nil {
			return err
		}

		ci, ok := byPosition[pos]
		if !ok || idx >= len(cycles[ci].cycle.Days) {
			return fmt.Errorf("loading meal slots: orphan slot %d/%d", pos, idx)
		}
		day := &cycles[ci].cycle.Days[idx]
		switch meal {
		case model.Breakfast:
			day.Breakfast = slot
		case model.Lunch:
			day.Lunch = slot
		case model.Dinner:
			day.Dinner = slot
		}
	}
	return rows.Err()
}

// Reset removes every stored row, so the next Load reports nothing found.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearAll(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearAll(tx *sql.Tx) error {
	for _, table := range []string{"meal_slots", "days", "cycles", "profile", "settings"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// CycleCount returns the number of stored cycles, current included.
func (s *Store) CycleCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM cycles").Scan(&count)
	return count, err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
