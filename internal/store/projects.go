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

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, client, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Client, formatDate(p.StartDate), formatDate(p.EndDate), now,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	for i, uid := range p.TeamIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_members (project_id, position, user_id) VALUES (?, ?, ?)`,
			p.ID, i, uid,
		); err != nil {
			return fmt.Errorf("insert project member: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p := &domain.Project{}
	var start, end string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, client, start_date, end_date FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Client, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	p.StartDate = parseDate(start)
	p.EndDate = parseDate(end)

	members, err := s.listMembers(ctx)
	if err != nil {
		return nil, err
	}
	p.TeamIDs = members[p.ID]
	return p, nil
}

// ListProjects returns projects in insertion order with their team.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, client, start_date, end_date FROM projects ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		var start, end string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Client, &start, &end); err != nil {
			return nil, err
		}
		p.StartDate = parseDate(start)
		p.EndDate = parseDate(end)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.listMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].TeamIDs = members[projects[i].ID]
	}
	return projects, nil
}

func (s *Store) listMembers(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, user_id FROM project_members ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var pid, uid string
		if err := rows.Scan(&pid, &uid); err != nil {
			return nil, err
		}
		members[pid] = append(members[pid], uid)
	}
	return members, rows.Err()
}
