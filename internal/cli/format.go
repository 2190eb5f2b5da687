// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/messmate/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats an amount with a currency symbol and thousands
// separators, always with two decimals.
// e.g., 2580 -> "₹2,580.00", -12.5 -> "-₹12.50"
func FormatMoney(amount float64, symbol string) string {
	if amount < 0 {
		return "-" + symbol + humanize.FormatFloat("#,###.##", -amount)
	}
	return symbol + humanize.FormatFloat("#,###.##", amount)
}

// FormatBalance renders the money figure of st as owed or saved.
func FormatBalance(st model.Stats, symbol string) string {
	owed, amount, ok := st.Balance()
	switch {
	case !ok:
		return "n/a"
	case owed:
		return "Owed " + FormatMoney(amount, symbol)
	default:
		return "Saved " + FormatMoney(amount, symbol)
	}
}

// FormatPercent formats a 0-100 percentage, dropping a trailing ".0".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(model.Round1(p), 'f', -1, 64) + "%"
}

// FormatCount adds comma separators to a count.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDays formats a day count with the right plural.
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}

// FormatDaysRemaining describes how far the cycle end is from today.
func FormatDaysRemaining(n int) string {
	switch {
	case n > 0:
		return FormatDays(n) + " left"
	case n == 0:
		return "last day"
	default:
		return FormatDays(-n) + " overdue"
	}
}

// FormatAgo renders a timestamp relative to now, e.g. "3 hours ago".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDateShort renders a date as "Mon 02 Jan".
func FormatDateShort(d model.Date) string {
	return d.Time().Format("Mon 02 Jan")
}

// StatusLabel is the short name of a status used in grids and legends.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusTaken:
		return "Taken"
	case model.StatusCancelledUser:
		return "Missed"
	case model.StatusCancelledOwner:
		return "Owner"
	case model.StatusPending:
		return "Pending"
	}
	return "?"
}

// StatusName is the long name of a status used in confirmations.
func StatusName(s model.Status) string {
	switch s {
	case model.StatusTaken:
		return "Taken ✓"
	case model.StatusCancelledUser:
		return "Cancelled by You"
	case model.StatusCancelledOwner:
		return "Cancelled by Owner"
	case model.StatusPending:
		return "Pending"
	}
	return s.String()
}

// MealLabel capitalises a meal name.
func MealLabel(m model.MealType) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AdvanceMessage is the confirmation shown after a meal changes status.
// e.g., "Lunch marked as Cancelled by You"
func AdvanceMessage(m model.MealType, s model.Status) string {
	return MealLabel(m) + " marked as " + StatusName(s)
}

// Clamp01 bounds a ratio to [0, 1], treating NaN as 0.
func Clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
