package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"

	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark <date|today> <meal>...",
	Short: "Advance a meal to its next status",
	Long: "Advance one or more meals of a day through Pending → Taken → Missed → Cancelled by owner → Pending.\n" +
		"Meals may be given as breakfast, lunch, dinner or b, l, d.",
	Example: "  messmate mark today lunch\n  messmate mark 2024-01-03 b d",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)
}

func runMark(_ *cobra.Command, args []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := parseDayArg(args[0], a.tracker.Today())
	if err != nil {
		return err
	}
	c := a.tracker.State().Current
	day := c.DayByDate(date)
	if day == nil {
		return fmt.Errorf("%s is outside the current cycle (%s → %s)", date, c.StartDate, c.EndDate)
	}

	var errs []error
	for _, arg := range args[1:] {
		meal, err := parseMealArg(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		status, ok, err := a.tracker.AdvanceMeal(day.ID, meal)
		if err != nil {
			return err
		}
		if !ok {
			errs = append(errs, fmt.Errorf("no %s on %s", cli.MealLabel(meal), day.DayName))
			continue
		}
		fmt.Printf("  %s  %s\n", cli.FormatDateShort(date), cli.AdvanceMessage(meal, status))
	}

	fmt.Printf("  %s\n", cli.RenderBalance(a.tracker.Stats(), a.currency))
	return errors.Join(errs...)
}
