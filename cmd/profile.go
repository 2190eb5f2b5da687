package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/messmate/internal/cli"
	"github.com/theirongolddev/messmate/internal/tracker"

	"github.com/spf13/cobra"
)

var (
	flagProfileName    string
	flagProfileMess    string
	flagProfileMonthly string
	flagProfilePerMeal string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your subscription profile",
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your subscription profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update name, mess or rates",
	Long: "Update profile fields. Changing the monthly rate without --per-meal-rate\n" +
		"re-derives the per-meal rate from it.",
	Example: "  messmate profile set --monthly-rate 2800\n  messmate profile set --per-meal-rate 30",
	RunE:    runProfileSet,
}

func init() {
	profileSetCmd.Flags().StringVar(&flagProfileName, "name", "", "Your name")
	profileSetCmd.Flags().StringVar(&flagProfileMess, "mess", "", "Mess name")
	profileSetCmd.Flags().StringVar(&flagProfileMonthly, "monthly-rate", "", "Monthly subscription amount")
	profileSetCmd.Flags().StringVar(&flagProfilePerMeal, "per-meal-rate", "", "Price of a single meal")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.tracker.State().Profile
	fmt.Printf("  Name:          %s\n", p.Name)
	fmt.Printf("  Mess:          %s\n", p.MessName)
	fmt.Printf("  Monthly rate:  %s\n", cli.FormatMoney(p.MonthlyRate, a.currency))
	fmt.Printf("  Per-meal rate: %s\n", cli.FormatMoney(p.PerMealRate, a.currency))
	fmt.Printf("  Started:       %s\n", p.StartDate)
	fmt.Printf("  Credit:        %s\n", cli.FormatDays(p.ExtensionDays))
	return nil
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("mess") &&
		!flags.Changed("monthly-rate") && !flags.Changed("per-meal-rate") {
		return errors.New("nothing to change; pass --name, --mess, --monthly-rate or --per-meal-rate")
	}

	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.tracker.State().Profile
	in := tracker.ProfileInput{
		Name:        p.Name,
		MessName:    p.MessName,
		MonthlyRate: p.MonthlyRate,
		PerMealRate: p.PerMealRate,
	}
	if flags.Changed("name") {
		in.Name = flagProfileName
	}
	if flags.Changed("mess") {
		in.MessName = flagProfileMess
	}
	if flags.Changed("monthly-rate") {
		if in.MonthlyRate, err = parseRateArg(flagProfileMonthly); err != nil {
			return err
		}
		in.PerMealRate = 0
	}
	if flags.Changed("per-meal-rate") {
		if in.PerMealRate, err = parseRateArg(flagProfilePerMeal); err != nil {
			return err
		}
	}

	if err := a.tracker.SaveProfile(in); err != nil {
		return err
	}
	fmt.Println("  Profile saved.")
	return runProfileShow(cmd, nil)
}
