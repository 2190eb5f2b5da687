package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/messmate/internal/model"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show display settings",
	RunE:  runSettingsShow,
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Set the theme, or toggle it when no argument is given",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(model.ThemeDark), string(model.ThemeLight)},
	RunE:      runSettingsTheme,
}

var settingsNotificationsCmd = &cobra.Command{
	Use:   "notifications <on|off>",
	Short: "Turn reminders on or off",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsNotifications,
}

func init() {
	settingsCmd.AddCommand(settingsThemeCmd)
	settingsCmd.AddCommand(settingsNotificationsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.tracker.State().Settings
	fmt.Printf("  Theme:         %s\n", s.Theme)
	fmt.Printf("  Notifications: %s\n", onOff(s.Notifications))
	return nil
}

func runSettingsTheme(_ *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		next, err := a.tracker.ToggleTheme()
		if err != nil {
			return err
		}
		fmt.Printf("  Switched to %s theme\n", next)
		return nil
	}

	theme, err := model.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := a.tracker.SwitchTheme(theme); err != nil {
		return err
	}
	fmt.Printf("  Switched to %s theme\n", theme)
	return nil
}

func runSettingsNotifications(_ *cobra.Command, args []string) error {
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.SetNotifications(on); err != nil {
		return err
	}
	fmt.Printf("  Notifications %s\n", onOff(on))
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("want on or off, got %q", s)
	}
	return v, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
