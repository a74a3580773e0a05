package driven

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// TaskStore persists tasks.
type TaskStore interface {
	// Save stores a task. Creates if new, updates if exists.
	Save(ctx context.Context, task domain.Task) error

	// Get retrieves a task by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Task, error)

	// List returns all tasks ordered by task date, then creation time.
	List(ctx context.Context) ([]domain.Task, error)

	// ListByDateRange returns tasks whose task date falls in [start, end].
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Task, error)

	// Delete removes a task by ID.
	Delete(ctx context.Context, id string) error
}
