package cycle

import (
	"github.com/theirongolddev/messmate/internal/model"
)

// ComputeStats aggregates every existing slot of c. Money is only computed
// when a profile is given. A nil cycle yields zero counts.
func ComputeStats(c *model.Cycle, p *model.UserProfile) model.Stats {
	var st model.Stats

	if c != nil {
		for i := range c.Days {
			for _, meal := range model.MealTypes {
				slot := c.Days[i].Slot(meal)
				if slot == nil {
					continue
				}
				st.TotalMeals++
				switch slot.Status {
				case model.StatusTaken:
					st.Taken++
				case model.StatusCancelledUser:
					st.MissedByUser++
				case model.StatusCancelledOwner:
					st.CancelledByOwner++
				case model.StatusPending:
					st.Pending++
				}
			}
		}
	}

	if st.TotalMeals > 0 {
		total := float64(st.TotalMeals)
		st.TakenPercentage = model.Round1(float64(st.Taken) / total * 100)
		st.MissedPercentage = model.Round1(float64(st.MissedByUser) / total * 100)
	}

	st.ExtensionDays = st.MissedByUser / model.MissesPerExtensionDay

	if p != nil {
		owed := model.Round2(float64(st.Taken)*p.PerMealRate - p.MonthlyRate)
		st.MoneyOwed = &owed
	}

	return st
}

// DaysRemaining returns the whole days from today until the cycle's last day.
// It is negative once the cycle has run past its end date.
func DaysRemaining(c *model.Cycle, today model.Date) int {
	if c == nil {
		return 0
	}
	return today.DaysUntil(c.EndDate)
}
