// Command taskdeck is a single-user task tracker with Google Calendar
// integration.
package main

import (
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/internal/adapters/driven/config/file"
	googleoauth "github.com/taskdeck/taskdeck/internal/adapters/driven/oauth"
	"github.com/taskdeck/taskdeck/internal/adapters/driven/storage/sqlite"
	"github.com/taskdeck/taskdeck/internal/adapters/driving/cli"
	"github.com/taskdeck/taskdeck/internal/adapters/driving/oauth"
	"github.com/taskdeck/taskdeck/internal/core/services"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	oauthClient := googleoauth.NewGoogleClient(googleoauth.Config{
		ClientID:     configStore.GetString("google.client_id"),
		ClientSecret: configStore.GetString("google.client_secret"),
	})
	listener := oauth.NewCallbackServer(configStore.GetInt("oauth.callback_port"))
	browser := oauth.NewBrowser()

	authService := services.NewCalendarAuthService(
		store.CredentialStore(), oauthClient, listener, browser)
	taskService := services.NewTaskService(store.TaskStore())
	settingsService := services.NewSettingsService(configStore)

	cli.SetServices(authService, taskService, settingsService, configStore)
	cli.SetVersion(version)

	return cli.Execute()
}
