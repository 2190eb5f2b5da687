package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/cycle"

	"github.com/spf13/cobra"
)

var flagYes bool

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Show or close the current 30-day cycle",
	RunE:  runCycleInfo,
}

var cycleInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current cycle",
	RunE:  runCycleInfo,
}

var cycleCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Archive the current cycle and start the next one",
	Long: "Archive the current cycle, credit one extension day for every three meals you missed,\n" +
		"and start a new cycle on the day after the current one ends.",
	RunE: runCycleClose,
}

func init() {
	cycleCloseCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	cycleCmd.AddCommand(cycleInfoCmd)
	cycleCmd.AddCommand(cycleCloseCmd)
	rootCmd.AddCommand(cycleCmd)
}

func runCycleInfo(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.tracker.State()
	c := state.Current
	st := a.tracker.Stats()
	remaining := cycle.DaysRemaining(c, a.tracker.Today())

	fmt.Printf("  Cycle:     %s\n", c.ID)
	fmt.Printf("  Period:    %s → %s\n", c.StartDate, c.EndDate)
	fmt.Printf("  Remaining: %s\n", cli.FormatDaysRemaining(remaining))
	fmt.Printf("  Meals:     %s taken, %s pending of %s\n",
		cli.FormatCount(st.Taken), cli.FormatCount(st.Pending), cli.FormatCount(st.TotalMeals))
	fmt.Printf("  Extension: %s earned this cycle, %s credited\n",
		cli.FormatDays(st.ExtensionDays), cli.FormatDays(state.Profile.ExtensionDays))
	fmt.Printf("  Next:      %s\n", c.EndDate.AddDays(1))
	return nil
}

func runCycleClose(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.tracker.State().Current
	if !flagYes {
		ok, err := confirm(fmt.Sprintf("Close cycle %s → %s and start the next one?", c.StartDate, c.EndDate))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	archived, st, err := a.tracker.CloseCycle()
	if err != nil {
		return err
	}

	next := a.tracker.State()
	fmt.Printf("  Closed %s → %s: %s taken, %s missed\n",
		archived.StartDate, archived.EndDate, cli.FormatCount(st.Taken), cli.FormatCount(st.MissedByUser))
	fmt.Printf("  %s\n", cli.RenderBalance(st, a.currency))
	fmt.Printf("  Extension credit: +%s (total %s)\n",
		cli.FormatDays(st.ExtensionDays), cli.FormatDays(next.Profile.ExtensionDays))
	fmt.Printf("  New cycle: %s → %s\n", next.Current.StartDate, next.Current.EndDate)
	return nil
}

// errNoTTY is returned when a confirmation is needed but stdin is closed.
var errNoTTY = errors.New("no answer on stdin; pass --yes to confirm")

// confirm asks a yes/no question on stdin. Anything but y or yes is a no.
func confirm(question string) (bool, error) {
	fmt.Printf("  %s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Println()
		return false, errNoTTY
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
