package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
	"github.com/taskdeck/taskdeck/internal/core/ports/driving"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// TaskService manages task records.
type TaskService struct {
	store driven.TaskStore
}

// NewTaskService creates a new task service.
func NewTaskService(store driven.TaskStore) *TaskService {
	return &TaskService{store: store}
}

// Add creates a task for the given day.
func (s *TaskService) Add(ctx context.Context, title string, taskDate time.Time, notes string) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrInvalidInput
	}

	task := domain.NewTask(uuid.NewString(), title, taskDate, notes)
	if err := s.store.Save(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.store.Get(ctx, id)
}

// List returns all tasks.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

// ListByDay returns the tasks for the day containing the given time.
func (s *TaskService) ListByDay(ctx context.Context, day time.Time) ([]domain.Task, error) {
	start, end, err := domain.ParseDayRange(day.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return s.store.ListByDateRange(ctx, start, end)
}

// SetStatus transitions a task and stamps the transition time.
func (s *TaskService) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = status
	switch status {
	case domain.StatusOngoing:
		task.StartedAt = &now
	case domain.StatusPaused:
		task.PausedAt = &now
	case domain.StatusCompleted:
		task.CompletedAt = &now
	case domain.StatusNotStarted:
		task.StartedAt = nil
		task.PausedAt = nil
		task.CompletedAt = nil
	}

	if err := s.store.Save(ctx, *task); err != nil {
		return nil, err
	}
	return task, nil
}

// Remove deletes a task.
func (s *TaskService) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
