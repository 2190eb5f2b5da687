package cmd

import (
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary of the current cycle",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.tracker.State()
	if !state.IsSetUp() {
		fmt.Println("\n  No subscription set up yet.")
		fmt.Println("  Run `messmate setup` to get started.")
		return nil
	}

	st := a.tracker.Stats()
	c := state.Current
	p := state.Profile
	remaining := cycle.DaysRemaining(c, a.tracker.Today())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s → %s", p.MessName, c.StartDate, c.EndDate)))
	fmt.Println()

	rows := [][]string{
		{"Taken", cli.FormatCount(st.Taken), cli.FormatPercent(st.TakenPercentage)},
		{"Missed by you", cli.FormatCount(st.MissedByUser), cli.FormatPercent(st.MissedPercentage)},
		{"Cancelled by owner", cli.FormatCount(st.CancelledByOwner), ""},
		{"Pending", cli.FormatCount(st.Pending), ""},
		{"Total meals", cli.FormatCount(st.TotalMeals), ""},
		{"---"},
		{"Balance", cli.RenderBalance(st, a.currency), ""},
		{"Extension earned", cli.FormatDays(st.ExtensionDays), ""},
		{"Extension credit", cli.FormatDays(p.ExtensionDays), ""},
		{"---"},
		{"Cycle", cli.FormatDaysRemaining(remaining), cli.RenderProgressBar(max(model.CycleLength-remaining, 0), model.CycleLength, 20)},
		{"Per-meal rate", cli.FormatMoney(p.PerMealRate, a.currency), ""},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value", "Share"},
		Rows:    rows,
	}))

	fmt.Println()
	for _, s := range model.Statuses {
		fmt.Println(cli.RenderShareBar(s, st.Count(s), st.TotalMeals, 30))
	}
	fmt.Println()
	fmt.Println(cli.RenderLegend())
	return nil
}
