package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tracker"
	"github.com/theirongolddev/messmate/internal/tui"

	"github.com/spf13/cobra"
)

var (
	flagSetupName    string
	flagSetupMess    string
	flagSetupMonthly string
	flagSetupPerMeal string
	flagSetupStart   string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Long: "Create your profile and start the first 30-day cycle.\n" +
		"Without flags an interactive form is shown.",
	Example: "  messmate setup\n  messmate setup --name Asha --mess \"Annapurna Mess\" --monthly-rate 2500",
	RunE:    runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&flagSetupName, "name", "", "Your name")
	setupCmd.Flags().StringVar(&flagSetupMess, "mess", "", "Mess name")
	setupCmd.Flags().StringVar(&flagSetupMonthly, "monthly-rate", "", "Monthly subscription amount")
	setupCmd.Flags().StringVar(&flagSetupPerMeal, "per-meal-rate", "", "Price of a single meal (default monthly rate / 87)")
	setupCmd.Flags().StringVar(&flagSetupStart, "start", "today", "Cycle start date (YYYY-MM-DD)")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state := a.tracker.State()
	if state.IsSetUp() {
		return fmt.Errorf("already set up for %s at %s; use `messmate profile set` or `messmate reset`",
			state.Profile.Name, state.Profile.MessName)
	}

	var (
		in    tracker.ProfileInput
		start model.Date
	)
	if cmd.Flags().Changed("name") || cmd.Flags().Changed("monthly-rate") {
		in, start, err = setupFromFlags(a.tracker.Today())
	} else {
		in, start, err = tui.RunSetupForm(a.tracker.Today())
	}
	if errors.Is(err, tui.ErrSetupAborted) {
		fmt.Println("  Setup cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.tracker.Setup(in, start); err != nil {
		return err
	}

	st := a.tracker.State()
	fmt.Println()
	fmt.Printf("  Welcome, %s!\n", st.Profile.Name)
	fmt.Printf("  Mess:          %s\n", st.Profile.MessName)
	fmt.Printf("  Per-meal rate: %s\n", cli.FormatMoney(st.Profile.PerMealRate, a.currency))
	fmt.Printf("  First cycle:   %s → %s\n", st.Current.StartDate, st.Current.EndDate)
	fmt.Println()
	fmt.Println("  Mark meals with `messmate mark today lunch` or open `messmate tui`.")
	return nil
}

func setupFromFlags(today model.Date) (tracker.ProfileInput, model.Date, error) {
	in := tracker.ProfileInput{Name: flagSetupName, MessName: flagSetupMess}
	var err error
	if in.MonthlyRate, err = parseRateArg(flagSetupMonthly); err != nil {
		return in, model.Date{}, fmt.Errorf("--monthly-rate: %w", err)
	}
	if flagSetupPerMeal != "" {
		if in.PerMealRate, err = parseRateArg(flagSetupPerMeal); err != nil {
			return in, model.Date{}, fmt.Errorf("--per-meal-rate: %w", err)
		}
	}
	start, err := parseDayArg(flagSetupStart, today)
	if err != nil {
		return in, model.Date{}, fmt.Errorf("--start: %w", err)
	}
	return in, start, nil
}
