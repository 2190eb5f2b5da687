package cmd

import (
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/cycle"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List closed cycles",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.tracker.State()
	if len(state.History) == 0 {
		fmt.Println("\n  No closed cycles yet.")
		fmt.Println("  Run `messmate cycle close` at the end of a cycle.")
		return nil
	}

	now := a.tracker.Now()
	taken := make([]float64, 0, len(state.History))
	rows := make([][]string, 0, len(state.History))
	for i := len(state.History) - 1; i >= 0; i-- {
		h := state.History[i]
		st := cycle.ComputeStats(&h.Cycle, state.Profile)
		rows = append(rows, []string{
			fmt.Sprintf("%s → %s", h.StartDate, h.EndDate),
			cli.FormatCount(st.Taken),
			cli.FormatCount(st.MissedByUser),
			cli.FormatCount(st.CancelledByOwner),
			fmt.Sprintf("+%d", st.ExtensionDays),
			cli.FormatBalance(st, a.currency),
			cli.FormatAgo(h.CompletedAt, now),
		})
	}
	for _, h := range state.History {
		taken = append(taken, float64(cycle.ComputeStats(&h.Cycle, state.Profile).Taken))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HISTORY  %d closed cycles", len(state.History))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Period", "Taken", "Missed", "Owner", "Ext", "Balance", "Closed"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Taken per cycle: %s\n", cli.RenderSparkline(taken))
	fmt.Printf("  Extension credit: %s\n", cli.FormatDays(state.Profile.ExtensionDays))
	return nil
}
