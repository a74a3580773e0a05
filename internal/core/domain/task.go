package domain

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusNotStarted is the initial state of a task.
	StatusNotStarted Status = "not started"
	// StatusOngoing marks a task being worked on.
	StatusOngoing Status = "ongoing"
	// StatusPaused marks a started task that is on hold.
	StatusPaused Status = "paused"
	// StatusCompleted marks a finished task.
	StatusCompleted Status = "completed"
)

// ParseStatus maps a stored string to a Status, defaulting to not started.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusOngoing, StatusPaused, StatusCompleted:
		return Status(s)
	default:
		return StatusNotStarted
	}
}

// Task is a single tracked task. TaskDate is the day the task belongs to;
// the timestamps record status transitions.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Status      Status     `json:"status"`
	TaskDate    time.Time  `json:"task_date"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	PausedAt    *time.Time `json:"paused_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a task in the not-started state. The caller assigns the ID.
func NewTask(id, title string, taskDate time.Time, notes string) Task {
	return Task{
		ID:        id,
		Title:     title,
		Notes:     notes,
		Status:    StatusNotStarted,
		TaskDate:  taskDate,
		CreatedAt: time.Now().UTC(),
	}
}

// ParseDayRange parses an ISO 8601 date or datetime string and returns the
// start and end of that day in UTC.
func ParseDayRange(s string) (start, end time.Time, err error) {
	day, err := ParseDay(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	return start, end, nil
}

// ParseDay parses a date in "2006-01-02", "2006-01-02 15:04", or RFC 3339
// form, returning it as UTC.
func ParseDay(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
}
