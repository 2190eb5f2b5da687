package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start over",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !flagYes {
		ok, err := confirm("Delete your profile, every cycle and all history? This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := a.tracker.ResetAll(); err != nil {
		return err
	}
	// Drop the settings row too, so the next start looks like a fresh install.
	if err := a.store.Reset(); err != nil {
		return err
	}
	n, err := a.store.CycleCount()
	if err != nil {
		return err
	}
	a.log.Debug("reset complete", "stored_cycles", n)
	fmt.Println("  All data deleted. Run `messmate setup` to start again.")
	return nil
}
