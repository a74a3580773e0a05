package driving

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// TaskService manages task records.
type TaskService interface {
	// Add creates a task for the given day and returns it.
	Add(ctx context.Context, title string, taskDate time.Time, notes string) (*domain.Task, error)

	// Get retrieves a task by ID.
	Get(ctx context.Context, id string) (*domain.Task, error)

	// List returns all tasks.
	List(ctx context.Context) ([]domain.Task, error)

	// ListByDay returns the tasks for the day containing the given time.
	ListByDay(ctx context.Context, day time.Time) ([]domain.Task, error)

	// SetStatus transitions a task to the given status, stamping the
	// corresponding transition time.
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)

	// Remove deletes a task.
	Remove(ctx context.Context, id string) error
}

// SettingsService reads and writes application settings.
type SettingsService interface {
	// Get returns the current settings, falling back to defaults for
	// unset or invalid values.
	Get() (*domain.AppSettings, error)

	// Save persists the settings.
	Save(settings *domain.AppSettings) error
}
