package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the Google Calendar connection",
	Long: `Connect taskdeck to a Google account and manage the stored credentials.

Run 'taskdeck calendar setup' once to store your OAuth client credentials,
then 'taskdeck calendar connect' to authorize. The browser opens Google's
consent page and taskdeck receives the result on a local callback.

Examples:
  taskdeck calendar setup
  taskdeck calendar connect
  taskdeck calendar status
  taskdeck calendar disconnect`,
}

var calendarSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store the OAuth client credentials",
	Long: `Store the OAuth client ID and secret used for the Google connection.

Create an OAuth client of type "Desktop app" in the Google Cloud Console
and enter its credentials here. The secret is read without echo.`,
	RunE: runCalendarSetup,
}

var calendarConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authorize access to a Google account",
	RunE:  runCalendarConnect,
}

var calendarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connection status",
	RunE:  runCalendarStatus,
}

var calendarDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove the stored credentials",
	RunE:  runCalendarDisconnect,
}

var calendarTokenCmd = &cobra.Command{
	Use:    "token",
	Short:  "Print a currently valid access token",
	Hidden: true,
	RunE:   runCalendarToken,
}

func init() {
	calendarCmd.AddCommand(calendarSetupCmd)
	calendarCmd.AddCommand(calendarConnectCmd)
	calendarCmd.AddCommand(calendarStatusCmd)
	calendarCmd.AddCommand(calendarDisconnectCmd)
	calendarCmd.AddCommand(calendarTokenCmd)
	rootCmd.AddCommand(calendarCmd)
}

//nolint:errcheck // CLI interactive flow
func runCalendarSetup(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Print("Client ID: ")
	input, _ := reader.ReadString('\n')
	clientID := strings.TrimSpace(input)
	if clientID == "" {
		return errors.New("client ID is required")
	}

	var clientSecret string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.Print("Client Secret: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading client secret: %w", err)
		}
		clientSecret = strings.TrimSpace(string(secret))
	} else {
		cmd.Print("Client Secret: ")
		input, _ := reader.ReadString('\n')
		clientSecret = strings.TrimSpace(input)
	}
	if clientSecret == "" {
		return errors.New("client secret is required")
	}

	if err := configStore.Set("google.client_id", clientID); err != nil {
		return fmt.Errorf("saving client ID: %w", err)
	}
	if err := configStore.Set("google.client_secret", clientSecret); err != nil {
		return fmt.Errorf("saving client secret: %w", err)
	}

	cmd.Printf("Credentials saved to %s\n", configStore.Path())
	cmd.Println("Run 'taskdeck calendar connect' to authorize.")
	return nil
}

func runCalendarConnect(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	cmd.Println("Opening browser for Google authorization...")
	cmd.Println("If the browser does not open, check the terminal for the URL.")

	creds, err := authService.StartAuthorization(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFlowAlreadyActive):
			return errors.New("an authorization attempt is already in progress")
		case errors.Is(err, domain.ErrAuthTimeout):
			return errors.New("authorization timed out, run 'taskdeck calendar connect' to retry")
		case errors.Is(err, domain.ErrProviderDenied):
			return fmt.Errorf("authorization was denied: %w", err)
		case errors.Is(err, domain.ErrSecurityViolation):
			return errors.New("callback state did not match, aborting for safety; retry to start over")
		default:
			return fmt.Errorf("authorization failed: %w", err)
		}
	}

	cmd.Printf("Connected to Google Calendar as %s\n", creds.Email)
	return nil
}

func runCalendarStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	creds, err := authService.GetStatus(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	if creds == nil {
		cmd.Println("Not connected.")
		cmd.Println("Run 'taskdeck calendar connect' to authorize.")
		return nil
	}

	cmd.Printf("Connected as %s\n", creds.Email)
	if creds.IsExpired() {
		cmd.Println("Access token: expired (will refresh on next use)")
	} else {
		cmd.Printf("Access token: valid until %s\n", creds.TokenExpiry.Local().Format(time.RFC1123))
	}
	return nil
}

func runCalendarDisconnect(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	cmd.Println("Disconnected. Stored credentials removed.")
	return nil
}

func runCalendarToken(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	token, err := authService.GetValidAccessToken(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrNotConnected) {
			return errors.New("not connected, run 'taskdeck calendar connect' first")
		}
		return fmt.Errorf("failed to get access token: %w", err)
	}

	cmd.Println(token)
	return nil
}
