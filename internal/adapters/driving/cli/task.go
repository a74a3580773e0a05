package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Add, list, and update tasks.

Examples:
  taskdeck task add "Write report" --date 2026-03-14 --notes "quarterly numbers"
  taskdeck task list
  taskdeck task list --day 2026-03-14
  taskdeck task start <id>
  taskdeck task done <id>
  taskdeck task remove <id>`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as ongoing",
	Args:  cobra.ExactArgs(1),
	RunE:  statusRunner(domain.StatusOngoing),
}

var taskPauseCmd = &cobra.Command{
	Use:   "pause [task-id]",
	Short: "Pause a task",
	Args:  cobra.ExactArgs(1),
	RunE:  statusRunner(domain.StatusPaused),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  statusRunner(domain.StatusCompleted),
}

var taskRemoveCmd = &cobra.Command{
	Use:   "remove [task-id]",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRemove,
}

// Flags for task commands.
var (
	taskAddDate  string
	taskAddNotes string
	taskListDay  string
)

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDate, "date", "", "Task date (YYYY-MM-DD, defaults to today)")
	taskAddCmd.Flags().StringVar(&taskAddNotes, "notes", "", "Optional notes")
	taskListCmd.Flags().StringVar(&taskListDay, "day", "", "Only show tasks for this day (YYYY-MM-DD or 'today')")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskPauseCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	taskDate := time.Now().UTC()
	if taskAddDate != "" {
		parsed, err := domain.ParseDay(taskAddDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		taskDate = parsed
	}

	task, err := taskService.Add(context.Background(), args[0], taskDate, taskAddNotes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return errors.New("task title must not be empty")
		}
		return fmt.Errorf("failed to add task: %w", err)
	}

	cmd.Printf("Added task %s: %s (%s)\n", task.ID, task.Title, task.TaskDate.Format("2006-01-02"))
	return nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	ctx := context.Background()
	var tasks []domain.Task
	var err error

	switch {
	case taskListDay == "":
		tasks, err = taskService.List(ctx)
	case strings.EqualFold(taskListDay, "today"):
		tasks, err = taskService.ListByDay(ctx, time.Now().UTC())
	default:
		var day time.Time
		day, err = domain.ParseDay(taskListDay)
		if err != nil {
			return fmt.Errorf("invalid --day: %w", err)
		}
		tasks, err = taskService.ListByDay(ctx, day)
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks.")
		return nil
	}

	for i := range tasks {
		printTask(cmd, &tasks[i])
	}
	return nil
}

func statusRunner(status domain.Status) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if taskService == nil {
			return errors.New("task service not configured")
		}

		task, err := taskService.SetStatus(context.Background(), args[0], status)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("task not found: %s", args[0])
			}
			return fmt.Errorf("failed to update task: %w", err)
		}

		cmd.Printf("Task %s is now %s: %s\n", task.ID, task.Status, task.Title)
		return nil
	}
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	if taskService == nil {
		return errors.New("task service not configured")
	}

	if err := taskService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}

	cmd.Printf("Removed task %s\n", args[0])
	return nil
}

func printTask(cmd *cobra.Command, task *domain.Task) {
	cmd.Printf("  %s  [%s]  %s  %s\n",
		task.ID, task.Status, task.TaskDate.Format("2006-01-02"), task.Title)
	if task.Notes != "" {
		cmd.Printf("      %s\n", task.Notes)
	}
}
