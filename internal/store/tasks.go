package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/repository"
)

const taskColumns = `id, project_id, title, description, assignee_id, estimated_time, time_spent, completed, due_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (domain.Task, error) {
	var t domain.Task
	var completed int
	var due, createdAt string
	err := r.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID,
		&t.EstimatedTime, &t.TimeSpent, &completed, &due, &createdAt)
	if err != nil {
		return t, err
	}
	t.Completed = completed == 1
	t.DueDate = parseDate(due)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.AssigneeID,
		t.EstimatedTime, t.TimeSpent, boolInt(t.Completed), formatDate(t.DueDate), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTimeSpent(ctx context.Context, id string, seconds int64) error {
	if err := domain.ValidateDuration("time spent", seconds); err != nil {
		return err
	}
	return s.updateTask(ctx, id, `UPDATE tasks SET time_spent = ? WHERE id = ?`, seconds)
}

func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.updateTask(ctx, id, `UPDATE tasks SET completed = ? WHERE id = ?`, boolInt(completed))
}

func (s *Store) updateTask(ctx context.Context, id, query string, value any) error {
	res, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update task %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
