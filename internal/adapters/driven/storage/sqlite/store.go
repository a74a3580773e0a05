package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/taskdeck/taskdeck/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// task and credential store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.taskdeck/data/tasks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".taskdeck", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tasks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TaskStore returns a TaskStore interface backed by this store.
func (s *Store) TaskStore() driven.TaskStore {
	return &taskStore{store: s}
}

// CredentialStore returns a CredentialStore interface backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Task Store ====================

// taskStore implements driven.TaskStore.
type taskStore struct {
	store *Store
}

var _ driven.TaskStore = (*taskStore)(nil)

// Save stores or updates a task.
func (s *taskStore) Save(ctx context.Context, task domain.Task) error {
	if task.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, notes, status, task_date, created_at, started_at, paused_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes,
			status = excluded.status,
			task_date = excluded.task_date,
			started_at = excluded.started_at,
			paused_at = excluded.paused_at,
			completed_at = excluded.completed_at
	`, task.ID, task.Title, task.Notes, string(task.Status), task.TaskDate, task.CreatedAt,
		nullTime(task.StartedAt), nullTime(task.PausedAt), nullTime(task.CompletedAt))

	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *taskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, notes, status, task_date, created_at, started_at, paused_at, completed_at
		FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return task, err
}

// List returns all tasks ordered by task date, then creation time.
func (s *taskStore) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, notes, status, task_date, created_at, started_at, paused_at, completed_at
		FROM tasks ORDER BY task_date, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListByDateRange returns tasks whose task date falls in [start, end].
func (s *taskStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, notes, status, task_date, created_at, started_at, paused_at, completed_at
		FROM tasks WHERE task_date >= ? AND task_date <= ?
		ORDER BY task_date, created_at
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying tasks by date: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Delete removes a task.
func (s *taskStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// ==================== Credential Store ====================

// credentialStore implements driven.CredentialStore. The table holds at
// most one row, pinned to id 1 by a schema constraint.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Save stores the credential record, replacing any existing one.
func (s *credentialStore) Save(ctx context.Context, creds domain.CalendarCredentials) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO calendar_credentials (id, email, access_token, refresh_token, token_expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			updated_at = excluded.updated_at
	`, creds.Email, creds.AccessToken, creds.RefreshToken, creds.TokenExpiry, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Load retrieves the stored credential record, or nil when absent.
func (s *credentialStore) Load(ctx context.Context) (*domain.CalendarCredentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT email, access_token, refresh_token, token_expiry
		FROM calendar_credentials WHERE id = 1
	`)

	var creds domain.CalendarCredentials
	if err := row.Scan(&creds.Email, &creds.AccessToken, &creds.RefreshToken, &creds.TokenExpiry); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}
	creds.TokenExpiry = creds.TokenExpiry.UTC()

	return &creds, nil
}

// Clear removes the credential record. Clearing an empty store is fine.
func (s *credentialStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM calendar_credentials WHERE id = 1")
	if err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// nullTime converts an optional timestamp for storage.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// scanTask scans a task using the given scan function.
func scanTask(scan func(dest ...any) error) (*domain.Task, error) {
	var task domain.Task
	var status string
	var startedAt, pausedAt, completedAt sql.NullTime

	if err := scan(&task.ID, &task.Title, &task.Notes, &status, &task.TaskDate,
		&task.CreatedAt, &startedAt, &pausedAt, &completedAt); err != nil {
		return nil, err
	}

	task.Status = domain.ParseStatus(status)
	task.TaskDate = task.TaskDate.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		task.StartedAt = &t
	}
	if pausedAt.Valid {
		t := pausedAt.Time.UTC()
		task.PausedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		task.CompletedAt = &t
	}

	return &task, nil
}

// collectTasks scans all rows into a task slice.
func collectTasks(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task //nolint:prealloc // size unknown from query
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}
