package store

import (
	"context"
	"fmt"

	"github.com/sadopc/sheetr/internal/fixture"
)

// Empty reports whether no users, projects or tasks exist yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users) + (SELECT COUNT(*) FROM projects) + (SELECT COUNT(*) FROM tasks)`,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	return n == 0, nil
}

// Seed loads a data set into an empty database. It is a no-op when any
// data already exists.
func (s *Store) Seed(ctx context.Context, d fixture.Data) (bool, error) {
	empty, err := s.Empty(ctx)
	if err != nil || !empty {
		return false, err
	}
	for i := range d.Users {
		if err := s.CreateUser(ctx, &d.Users[i]); err != nil {
			return false, fmt.Errorf("seed: %w", err)
		}
	}
	for i := range d.Projects {
		if err := s.CreateProject(ctx, &d.Projects[i]); err != nil {
			return false, fmt.Errorf("seed: %w", err)
		}
	}
	for i := range d.Tasks {
		if err := s.CreateTask(ctx, &d.Tasks[i]); err != nil {
			return false, fmt.Errorf("seed: %w", err)
		}
	}
	return true, nil
}
