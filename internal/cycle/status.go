package cycle

import (
	"time"

	"github.com/theirongolddev/messmate/internal/model"
)

// Advance moves one meal slot to the next status in the rotation and stamps
// it with now. It returns false and changes nothing when the day or the meal
// does not exist (for example breakfast on a Sunday).
func Advance(c *model.Cycle, dayID string, meal model.MealType, now time.Time) (model.Status, bool) {
	if c == nil {
		return 0, false
	}
	day := c.DayByID(dayID)
	if day == nil {
		return 0, false
	}
	slot := day.Slot(meal)
	if slot == nil {
		return 0, false
	}

	slot.Status = slot.Status.Next()
	slot.Timestamp = now
	return slot.Status, true
}
