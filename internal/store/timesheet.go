package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/sheetr/internal/timesheet"
)

func (s *Store) LoadWeek(ctx context.Context, week string) ([]timesheet.Cell, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, day, minutes FROM timesheet_cells WHERE week = ? ORDER BY task_id, day`, week)
	if err != nil {
		return nil, fmt.Errorf("load week %s: %w", week, err)
	}
	defer rows.Close()

	var cells []timesheet.Cell
	for rows.Next() {
		var c timesheet.Cell
		if err := rows.Scan(&c.TaskID, &c.Day, &c.Minutes); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// SaveCell upserts a single (task, day) cell; other cells are untouched.
// Zero minutes removes the row.
func (s *Store) SaveCell(ctx context.Context, week string, c timesheet.Cell) error {
	if c.Minutes < 0 {
		return fmt.Errorf("save cell %s/%s: %w", c.TaskID, c.Day, timesheet.ErrNegativeMinutes)
	}
	if c.Minutes == 0 {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM timesheet_cells WHERE week = ? AND task_id = ? AND day = ?`, week, c.TaskID, c.Day)
		if err != nil {
			return fmt.Errorf("clear cell %s/%s: %w", c.TaskID, c.Day, err)
		}
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO timesheet_cells (week, task_id, day, minutes, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(week, task_id, day) DO UPDATE SET minutes = excluded.minutes, updated_at = excluded.updated_at`,
		week, c.TaskID, c.Day, c.Minutes, now,
	)
	if err != nil {
		return fmt.Errorf("save cell %s/%s: %w", c.TaskID, c.Day, err)
	}
	return nil
}
