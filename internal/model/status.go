package model

import "fmt"

// Status is the consumption state of a single meal slot.
// The zero value is invalid so that a slot decoded without a status is caught
// by validation instead of silently becoming pending.
type Status uint8

// The four meal statuses, in rotation order.
const (
	StatusPending Status = iota + 1
	StatusTaken
	StatusCancelledUser
	StatusCancelledOwner
)

// Statuses lists every valid status in rotation order.
var Statuses = []Status{StatusPending, StatusTaken, StatusCancelledUser, StatusCancelledOwner}

// Next returns the status that follows s in the fixed rotation
// pending -> taken -> cancelled-user -> cancelled-owner -> pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusTaken
	case StatusTaken:
		return StatusCancelledUser
	case StatusCancelledUser:
		return StatusCancelledOwner
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the four statuses.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelledOwner
}

// String returns the wire value of s.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusTaken:
		return "taken"
	case StatusCancelledUser:
		return "cancelled-user"
	case StatusCancelledOwner:
		return "cancelled-owner"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// ParseStatus maps a wire value back to a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown meal status %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot encode invalid meal status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// MealType names one of the three daily meals.
type MealType string

// Meal types in serving order.
const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the meal types in serving order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType accepts a meal name or its first letter.
func ParseMealType(s string) (MealType, error) {
	switch s {
	case "breakfast", "b":
		return Breakfast, nil
	case "lunch", "l":
		return Lunch, nil
	case "dinner", "d":
		return Dinner, nil
	}
	return "", fmt.Errorf("unknown meal %q (want breakfast, lunch or dinner)", s)
}
