// Package cycle implements the meal cycle engine: generation, status
// transitions, statistics and rollover into history.
package cycle

import (
	"fmt"
	"time"

	"github.com/theirongolddev/messmate/internal/model"

	"github.com/google/uuid"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies unique cycle ids.
type IDGenerator interface {
	NewCycleID() string
}

// SystemClock reads the wall clock in UTC at millisecond precision, the
// precision timestamps keep on the wire.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// UUIDGenerator issues ids of the form cycle-<uuid>.
type UUIDGenerator struct{}

// NewCycleID implements IDGenerator.
func (UUIDGenerator) NewCycleID() string {
	return "cycle-" + uuid.NewString()
}

// Generator builds new cycles.
type Generator struct {
	Clock Clock
	IDs   IDGenerator
}

// NewGenerator returns a Generator on the system clock with uuid ids.
func NewGenerator() Generator {
	return Generator{Clock: SystemClock{}, IDs: UUIDGenerator{}}
}

// Generate builds a 30-day cycle beginning on start. Every day gets a lunch
// slot; breakfast and dinner are added on every day except Sunday. All slots
// start pending.
func (g Generator) Generate(start model.Date) *model.Cycle {
	now := g.Clock.Now()
	c := &model.Cycle{
		ID:        g.IDs.NewCycleID(),
		StartDate: start,
		EndDate:   start.AddDays(model.CycleLength - 1),
		Days:      make([]model.Day, model.CycleLength),
	}

	for i := range c.Days {
		date := start.AddDays(i)
		day := model.Day{
			ID:      DayID(i),
			Date:    date,
			DayName: date.Weekday().String(),
			Lunch:   &model.MealSlot{Status: model.StatusPending, Timestamp: now},
		}
		if date.Weekday() != time.Sunday {
			day.Breakfast = &model.MealSlot{Status: model.StatusPending, Timestamp: now}
			day.Dinner = &model.MealSlot{Status: model.StatusPending, Timestamp: now}
		}
		c.Days[i] = day
	}
	return c
}

// DayID returns the stable id of the day at index i within its cycle.
func DayID(i int) string {
	return fmt.Sprintf("meal-%d", i)
}
