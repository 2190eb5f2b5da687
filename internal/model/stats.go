package model

import "math"

// Stats aggregates the meal statuses of one cycle.
type Stats struct {
	TotalMeals       int
	Taken            int
	MissedByUser     int
	CancelledByOwner int
	Pending          int

	TakenPercentage  float64
	MissedPercentage float64

	ExtensionDays int
	MoneyOwed     *float64 // nil without a profile; negative means net savings
}

// Count returns the number of slots with status s.
func (st Stats) Count(s Status) int {
	switch s {
	case StatusPending:
		return st.Pending
	case StatusTaken:
		return st.Taken
	case StatusCancelledUser:
		return st.MissedByUser
	case StatusCancelledOwner:
		return st.CancelledByOwner
	}
	return 0
}

// Balance splits MoneyOwed into a direction and an absolute amount.
// ok is false when no money figure is available.
func (st Stats) Balance() (owed bool, amount float64, ok bool) {
	if st.MoneyOwed == nil {
		return false, 0, false
	}
	v := *st.MoneyOwed
	return v >= 0, math.Abs(v), true
}
