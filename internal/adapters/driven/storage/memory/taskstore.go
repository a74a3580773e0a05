package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
)

// Ensure TaskStore implements the interface.
var _ driven.TaskStore = (*TaskStore)(nil)

// TaskStore is an in-memory implementation of driven.TaskStore.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewTaskStore creates a new in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]domain.Task),
	}
}

// Save stores or updates a task.
func (s *TaskStore) Save(ctx context.Context, task domain.Task) error {
	if task.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &task, nil
}

// List returns all tasks ordered by task date, then creation time.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sortTasks(tasks)
	return tasks, nil
}

// ListByDateRange returns tasks whose task date falls in [start, end].
func (s *TaskStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []domain.Task
	for _, task := range s.tasks {
		if task.TaskDate.Before(start) || task.TaskDate.After(end) {
			continue
		}
		tasks = append(tasks, task)
	}
	sortTasks(tasks)
	return tasks, nil
}

// Delete removes a task by ID.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

func sortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].TaskDate.Equal(tasks[j].TaskDate) {
			return tasks[i].TaskDate.Before(tasks[j].TaskDate)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
