package cmd

import (
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/model"

	"github.com/spf13/cobra"
)

var flagMealsWeek bool

var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Show the meal grid of the current cycle",
	RunE:  runMeals,
}

func init() {
	mealsCmd.Flags().BoolVarP(&flagMealsWeek, "week", "w", false, "Only show the seven days around today")
	rootCmd.AddCommand(mealsCmd)
}

func runMeals(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.tracker.State().Current
	today := a.tracker.Today()
	days := c.Days
	if flagMealsWeek {
		days = weekAround(days, today)
	}

	rows := make([][]string, 0, len(days))
	for i := range days {
		d := &days[i]
		marker := ""
		if d.Date == today {
			marker = "◀ today"
		}
		rows = append(rows, []string{
			cli.FormatDateShort(d.Date),
			cli.StatusCell(d.Breakfast),
			cli.StatusCell(d.Lunch),
			cli.StatusCell(d.Dinner),
			marker,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Cycle %s → %s", c.StartDate, c.EndDate)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Breakfast", "Lunch", "Dinner", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.RenderLegend())
	return nil
}

// weekAround returns up to seven days centred on today, clamped to the cycle.
func weekAround(days []model.Day, today model.Date) []model.Day {
	idx := 0
	for i := range days {
		if days[i].Date == today {
			idx = i
			break
		}
		if days[i].Date.Before(today) {
			idx = i
		}
	}
	start := max(min(idx-3, len(days)-7), 0)
	end := min(start+7, len(days))
	return days[start:end]
}
