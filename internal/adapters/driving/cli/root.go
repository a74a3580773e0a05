// Package cli implements the taskdeck command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
	"github.com/taskdeck/taskdeck/internal/core/ports/driving"
	"github.com/taskdeck/taskdeck/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected at startup. Commands nil-check before use so a
// partially wired binary fails with a clear message instead of a panic.
var (
	authService     driving.CalendarAuthService
	taskService     driving.TaskService
	settingsService driving.SettingsService
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "A single-user task tracker with Google Calendar integration",
	Long: `Taskdeck tracks your daily tasks and connects to Google Calendar
so deadlines and reminders stay in one place.

Common commands:
  taskdeck task add "Write report" --date 2026-03-14
  taskdeck task list --day today
  taskdeck calendar connect
  taskdeck settings show`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// SetServices wires the driving services into the command tree.
func SetServices(
	auth driving.CalendarAuthService,
	tasks driving.TaskService,
	settings driving.SettingsService,
	config driven.ConfigStore,
) {
	authService = auth
	taskService = tasks
	settingsService = settings
	configStore = config
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
