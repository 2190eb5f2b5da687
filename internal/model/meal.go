// Package model defines the domain types for the meal tracker.
package model

import "time"

// CycleLength is the number of calendar days in every cycle.
const CycleLength = 30

// MealSlot is one breakfast, lunch or dinner entry for a day.
type MealSlot struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"` // last transition, UTC
}

// Day is one calendar day of a cycle. Lunch is always served; breakfast and
// dinner are nil on Sundays.
type Day struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	DayName   string    `json:"dayName"`
	Breakfast *MealSlot `json:"breakfast"`
	Lunch     *MealSlot `json:"lunch"`
	Dinner    *MealSlot `json:"dinner"`
}

// Slot returns the slot for meal, or nil if the day has no such meal.
func (d *Day) Slot(meal MealType) *MealSlot {
	switch meal {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	}
	return nil
}

// Cycle is a 30-day billing and tracking period.
type Cycle struct {
	ID        string `json:"cycleId"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	Days      []Day  `json:"meals"`
}

// DayByID returns the day with the given id, or nil.
func (c *Cycle) DayByID(id string) *Day {
	for i := range c.Days {
		if c.Days[i].ID == id {
			return &c.Days[i]
		}
	}
	return nil
}

// DayByDate returns the day falling on date, or nil if date is outside the cycle.
func (c *Cycle) DayByDate(date Date) *Day {
	for i := range c.Days {
		if c.Days[i].Date == date {
			return &c.Days[i]
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Cycle) Clone() *Cycle {
	if c == nil {
		return nil
	}
	out := *c
	out.Days = make([]Day, len(c.Days))
	for i, d := range c.Days {
		out.Days[i] = d
		out.Days[i].Breakfast = cloneSlot(d.Breakfast)
		out.Days[i].Lunch = cloneSlot(d.Lunch)
		out.Days[i].Dinner = cloneSlot(d.Dinner)
	}
	return &out
}

func cloneSlot(s *MealSlot) *MealSlot {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// ArchivedCycle is a closed cycle kept in history. It is never mutated after
// being archived.
type ArchivedCycle struct {
	Cycle
	CompletedAt time.Time `json:"completedAt"`
}
