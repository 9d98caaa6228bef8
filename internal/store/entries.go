package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/sheetr/internal/repository"
)

// LogEntry records a finished live-timer session.
func (s *Store) LogEntry(ctx context.Context, e *repository.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (id, task_id, start_time, end_time, duration, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, formatTime(e.Start), formatTime(e.End), e.Duration, now,
	)
	if err != nil {
		return fmt.Errorf("log entry: %w", err)
	}
	return nil
}

// ListEntries returns entries newest first; an empty taskID lists all.
func (s *Store) ListEntries(ctx context.Context, taskID string) ([]repository.TimeEntry, error) {
	query := `SELECT id, task_id, start_time, end_time, duration FROM time_entries`
	var args []any
	if taskID != "" {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []repository.TimeEntry
	for rows.Next() {
		var e repository.TimeEntry
		var start, end string
		if err := rows.Scan(&e.ID, &e.TaskID, &start, &end, &e.Duration); err != nil {
			return nil, err
		}
		e.Start, _ = time.Parse(time.RFC3339, start)
		e.End, _ = time.Parse(time.RFC3339, end)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetDailySummary(ctx context.Context, from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(e.start_time) AS day, e.task_id, COALESCE(t.title, ''),
		       COALESCE(SUM(e.duration), 0), COUNT(*)
		FROM time_entries e
		LEFT JOIN tasks t ON t.id = e.task_id
		WHERE e.start_time >= ? AND e.start_time < ?
		GROUP BY day, e.task_id
		ORDER BY day, e.task_id`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.TaskID, &ds.TaskTitle, &ds.TotalSeconds, &ds.EntryCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

func (s *Store) GetTodayTotal(ctx context.Context) (int64, error) {
	today := time.Now().UTC().Format(dateLayout)
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration), 0)
		FROM time_entries
		WHERE date(start_time) = ?`, today,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
