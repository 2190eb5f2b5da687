// Package snapshot encodes and validates portable copies of the whole
// application state, used for backup and restore.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/theirongolddev/messmate/internal/model"
)

var (
	// ErrMalformed is returned when the input is not a well-typed JSON document.
	ErrMalformed = errors.New("snapshot: malformed document")
	// ErrInvalidStructure is returned when the document decodes but does not
	// describe a valid state.
	ErrInvalidStructure = errors.New("snapshot: invalid structure")
)

// Serialize encodes state as an indented JSON snapshot.
func Serialize(state model.AppState) ([]byte, error) {
	if state.History == nil {
		state.History = []model.ArchivedCycle{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Deserialize decodes and validates a snapshot. It never coerces bad input:
// unknown fields, unknown statuses and broken cycle invariants are rejected.
func Deserialize(data []byte) (model.AppState, error) {
	var state model.AppState

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		return model.AppState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.AppState{}, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	if err := Validate(state); err != nil {
		return model.AppState{}, err
	}
	if state.History == nil {
		state.History = []model.ArchivedCycle{}
	}
	return state, nil
}

// Read is Deserialize over a reader. The reader is consumed fully before
// anything is decoded.
func Read(r io.Reader) (model.AppState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.AppState{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return Deserialize(data)
}

// Validate checks that state is a complete, set-up state.
func Validate(state model.AppState) error {
	if state.Profile == nil {
		return fmt.Errorf("%w: missing userProfile", ErrInvalidStructure)
	}
	if state.Current == nil {
		return fmt.Errorf("%w: missing currentCycle", ErrInvalidStructure)
	}
	if err := validateProfile(state.Profile); err != nil {
		return err
	}
	if err := validateCycle(state.Current); err != nil {
		return fmt.Errorf("currentCycle: %w", err)
	}
	for i := range state.History {
		h := &state.History[i]
		if err := validateCycle(&h.Cycle); err != nil {
			return fmt.Errorf("history[%d]: %w", i, err)
		}
		if h.CompletedAt.IsZero() {
			return fmt.Errorf("history[%d]: %w: missing completedAt", i, ErrInvalidStructure)
		}
	}
	if _, err := model.ParseTheme(string(state.Settings.Theme)); err != nil {
		return fmt.Errorf("%w: settings: %v", ErrInvalidStructure, err)
	}
	return nil
}

func validateProfile(p *model.UserProfile) error {
	if !validMoney(p.MonthlyRate) || !validMoney(p.PerMealRate) {
		return fmt.Errorf("%w: userProfile rates must be finite and non-negative", ErrInvalidStructure)
	}
	if p.ExtensionDays < 0 {
		return fmt.Errorf("%w: userProfile extensionDays is negative", ErrInvalidStructure)
	}
	return nil
}

func validMoney(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateCycle(c *model.Cycle) error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing cycleId", ErrInvalidStructure)
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("%w: missing start or end date", ErrInvalidStructure)
	}
	if c.EndDate != c.StartDate.AddDays(model.CycleLength-1) {
		return fmt.Errorf("%w: endDate %s is not 29 days after startDate %s", ErrInvalidStructure, c.EndDate, c.StartDate)
	}
	if len(c.Days) != model.CycleLength {
		return fmt.Errorf("%w: %d days, want %d", ErrInvalidStructure, len(c.Days), model.CycleLength)
	}

	ids := make(map[string]struct{}, len(c.Days))
	for i := range c.Days {
		d := &c.Days[i]
		if d.ID == "" {
			return fmt.Errorf("%w: day %d has no id", ErrInvalidStructure, i)
		}
		if _, dup := ids[d.ID]; dup {
			return fmt.Errorf("%w: duplicate day id %q", ErrInvalidStructure, d.ID)
		}
		ids[d.ID] = struct{}{}

		want := c.StartDate.AddDays(i)
		if d.Date != want {
			return fmt.Errorf("%w: day %d date %s, want %s", ErrInvalidStructure, i, d.Date, want)
		}
		if d.DayName != d.Date.Weekday().String() {
			return fmt.Errorf("%w: %s is a %s, not %q", ErrInvalidStructure, d.Date, d.Date.Weekday(), d.DayName)
		}

		sunday := d.Date.Weekday() == time.Sunday
		for _, meal := range model.MealTypes {
			slot := d.Slot(meal)
			expected := meal == model.Lunch || !sunday
			if (slot != nil) != expected {
				return fmt.Errorf("%w: %s %s presence is wrong", ErrInvalidStructure, d.Date, meal)
			}
			if slot == nil {
				continue
			}
			if !slot.Status.Valid() {
				return fmt.Errorf("%w: %s %s has no status", ErrInvalidStructure, d.Date, meal)
			}
			if slot.Timestamp.IsZero() {
				return fmt.Errorf("%w: %s %s has no timestamp", ErrInvalidStructure, d.Date, meal)
			}
		}
	}
	return nil
}
