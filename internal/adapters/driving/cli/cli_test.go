package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/adapters/driven/storage/memory"
	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/services"
)

// mockAuthService implements driving.CalendarAuthService for CLI tests.
type mockAuthService struct {
	creds    *domain.CalendarCredentials
	startErr error
	token    string
	tokenErr error
}

func (m *mockAuthService) StartAuthorization(_ context.Context) (*domain.CalendarCredentials, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.creds, nil
}

func (m *mockAuthService) GetValidAccessToken(_ context.Context) (string, error) {
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	return m.token, nil
}

func (m *mockAuthService) Disconnect(_ context.Context) error {
	m.creds = nil
	return nil
}

func (m *mockAuthService) GetStatus(_ context.Context) (*domain.CalendarCredentials, error) {
	return m.creds, nil
}

// setupCLI wires fresh in-memory services and resets flag state.
func setupCLI(t *testing.T, auth *mockAuthService) {
	t.Helper()

	config := memory.NewConfigStore()
	SetServices(
		auth,
		services.NewTaskService(memory.NewTaskStore()),
		services.NewSettingsService(config),
		config,
	)
	taskAddDate = ""
	taskAddNotes = ""
	taskListDay = ""

	t.Cleanup(func() {
		SetServices(nil, nil, nil, nil)
	})
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "1.2.3"
	defer func() { version = original }()

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "taskdeck version 1.2.3")
}

func TestTaskAddAndList(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	out, err := executeCommand(t, "task", "add", "Write report", "--date", "2026-03-14", "--notes", "quarterly numbers")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2026-03-14")

	out, err = executeCommand(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "quarterly numbers")
	assert.Contains(t, out, "not started")
}

func TestTaskAddInvalidDate(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	_, err := executeCommand(t, "task", "add", "x", "--date", "not-a-date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")
}

func TestTaskListByDay(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	_, err := executeCommand(t, "task", "add", "in range", "--date", "2026-03-14")
	require.NoError(t, err)
	_, err = executeCommand(t, "task", "add", "out of range", "--date", "2026-03-15")
	require.NoError(t, err)

	out, err := executeCommand(t, "task", "list", "--day", "2026-03-14")
	require.NoError(t, err)
	assert.Contains(t, out, "in range")
	assert.NotContains(t, out, "out of range")
}

func TestTaskStatusTransitions(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	task, err := taskService.Add(context.Background(), "walk dog", time.Now(), "")
	require.NoError(t, err)

	out, err := executeCommand(t, "task", "start", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "ongoing")

	out, err = executeCommand(t, "task", "done", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
}

func TestTaskStatusMissingTask(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	_, err := executeCommand(t, "task", "done", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func TestTaskRemove(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	task, err := taskService.Add(context.Background(), "remove me", time.Now(), "")
	require.NoError(t, err)

	_, err = executeCommand(t, "task", "remove", task.ID)
	require.NoError(t, err)

	out, err := executeCommand(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks.")
}

func TestCalendarConnect(t *testing.T) {
	setupCLI(t, &mockAuthService{
		creds: &domain.CalendarCredentials{
			Email:       "user@example.com",
			TokenExpiry: time.Now().Add(time.Hour),
		},
	})

	out, err := executeCommand(t, "calendar", "connect")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected to Google Calendar as user@example.com")
}

func TestCalendarConnectTimeout(t *testing.T) {
	setupCLI(t, &mockAuthService{startErr: domain.ErrAuthTimeout})

	_, err := executeCommand(t, "calendar", "connect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestCalendarConnectStateMismatch(t *testing.T) {
	setupCLI(t, &mockAuthService{startErr: domain.ErrSecurityViolation})

	_, err := executeCommand(t, "calendar", "connect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state did not match")
}

func TestCalendarStatus(t *testing.T) {
	auth := &mockAuthService{}
	setupCLI(t, auth)

	out, err := executeCommand(t, "calendar", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not connected.")

	auth.creds = &domain.CalendarCredentials{
		Email:       "user@example.com",
		TokenExpiry: time.Now().Add(time.Hour),
	}
	out, err = executeCommand(t, "calendar", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected as user@example.com")
	assert.Contains(t, out, "valid until")
}

func TestCalendarDisconnect(t *testing.T) {
	auth := &mockAuthService{
		creds: &domain.CalendarCredentials{Email: "user@example.com"},
	}
	setupCLI(t, auth)

	out, err := executeCommand(t, "calendar", "disconnect")
	require.NoError(t, err)
	assert.Contains(t, out, "Disconnected")
	assert.Nil(t, auth.creds)
}

func TestCalendarToken(t *testing.T) {
	setupCLI(t, &mockAuthService{token: "A1"})

	out, err := executeCommand(t, "calendar", "token")
	require.NoError(t, err)
	assert.Contains(t, out, "A1")
}

func TestCalendarTokenNotConnected(t *testing.T) {
	setupCLI(t, &mockAuthService{tokenErr: domain.ErrNotConnected})

	_, err := executeCommand(t, "calendar", "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestSettingsShowAndSet(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "reminder-frequency: daily")

	_, err = executeCommand(t, "settings", "set", "dark-mode", "true")
	require.NoError(t, err)
	_, err = executeCommand(t, "settings", "set", "reminder-frequency", "hourly")
	require.NoError(t, err)

	out, err = executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dark-mode:          true")
	assert.Contains(t, out, "reminder-frequency: hourly")
}

func TestSettingsSetInvalid(t *testing.T) {
	setupCLI(t, &mockAuthService{})

	_, err := executeCommand(t, "settings", "set", "reminder-frequency", "weekly")
	require.Error(t, err)

	_, err = executeCommand(t, "settings", "set", "unknown-key", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestServicesNotConfigured(t *testing.T) {
	SetServices(nil, nil, nil, nil)

	_, err := executeCommand(t, "task", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task service not configured")

	_, err = executeCommand(t, "calendar", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth service not configured")
}
