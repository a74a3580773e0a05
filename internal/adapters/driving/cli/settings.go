package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change application settings.

Available keys:
  dark-mode           - dark UI theme (true/false)
  notifications       - popup reminders enabled (true/false)
  reminder-frequency  - default reminder frequency (none, hourly, every-3-hours, daily)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("  dark-mode:          %t\n", settings.DarkMode)
	cmd.Printf("  notifications:      %t\n", settings.NotificationsEnabled)
	cmd.Printf("  reminder-frequency: %s\n", settings.DefaultReminderFrequency)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	key, value := args[0], args[1]
	switch key {
	case "dark-mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for dark-mode: %s", value)
		}
		settings.DarkMode = b
	case "notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for notifications: %s", value)
		}
		settings.NotificationsEnabled = b
	case "reminder-frequency":
		freq := domain.ReminderFrequency(value)
		if !freq.IsValid() {
			return fmt.Errorf("invalid reminder frequency: %s (use none, hourly, every-3-hours, or daily)", value)
		}
		settings.DefaultReminderFrequency = freq
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}
