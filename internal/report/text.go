package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText writes p as a fixed-width plain text report.
func WriteText(w io.Writer, p Payload) error {
	var b strings.Builder

	fmt.Fprintln(&b, Title)
	fmt.Fprintln(&b, strings.Repeat("=", len(Title)))
	fmt.Fprintf(&b, "Name:  %s\n", p.Name)
	fmt.Fprintf(&b, "Mess:  %s\n", p.MessName)
	fmt.Fprintf(&b, "Cycle: %s to %s\n\n", p.StartDate, p.EndDate)

	st := p.Stats
	fmt.Fprintln(&b, "Summary")
	fmt.Fprintf(&b, "  Total Meals:           %d\n", st.TotalMeals)
	fmt.Fprintf(&b, "  Meals Taken:           %d (%s)\n", st.Taken, percent(st.TakenPercentage))
	fmt.Fprintf(&b, "  Meals Missed:          %d (%s)\n", st.MissedByUser, percent(st.MissedPercentage))
	fmt.Fprintf(&b, "  Owner Cancelled:       %d\n", st.CancelledByOwner)
	fmt.Fprintf(&b, "  Pending:               %d\n", st.Pending)
	fmt.Fprintf(&b, "  Extension Days Earned: %d\n", st.ExtensionDays)
	fmt.Fprintf(&b, "  %s\n\n", p.BalanceLine())

	fmt.Fprintln(&b, "Daily Log")
	fmt.Fprintf(&b, "%-12s %-4s %-10s %-6s %s\n", "Date", "Day", "Breakfast", "Lunch", "Dinner")
	for _, r := range p.Rows {
		// Symbols are multi-byte, so pad by hand rather than with %-Ns.
		fmt.Fprintf(&b, "%-12s %-4s %s%s%s%s%s\n", r.Date, r.Day,
			r.Breakfast, pad(r.Breakfast, 11), r.Lunch, pad(r.Lunch, 7), r.Dinner)
	}
	fmt.Fprintf(&b, "\n%s\n", p.Footer())

	_, err := io.WriteString(w, b.String())
	return err
}

func pad(s string, width int) string {
	n := width - len([]rune(s))
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}
