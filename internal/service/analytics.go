package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/stats"
)

// Snapshot is one consistent read of the data source.
type Snapshot struct {
	Users    []domain.User
	Projects []domain.Project
	Tasks    []domain.Task
}

// Analytics serves dashboard rollups. Every call rereads the source and
// recomputes; nothing is cached between calls.
type Analytics struct {
	src      repository.Source
	observer UseCaseObserver
}

func NewAnalytics(src repository.Source, observers ...UseCaseObserver) *Analytics {
	return &Analytics{src: src, observer: useCaseObserverOrNoop(observers)}
}

func (a *Analytics) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Users, err = a.src.ListUsers(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading users: %w", err)
	}
	if snap.Projects, err = a.src.ListProjects(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading projects: %w", err)
	}
	if snap.Tasks, err = a.src.ListTasks(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("loading tasks: %w", err)
	}
	return snap, nil
}

func (a *Analytics) Team(ctx context.Context) (team stats.TeamStats, err error) {
	fields := map[string]any{}
	defer observe(ctx, a.observer, "team-stats", time.Now().UTC(), fields, &err)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return stats.TeamStats{}, err
	}
	team = stats.ForTeam(snap.Users, snap.Tasks)
	fields["tasks"] = team.TotalTasks
	fields["rows"] = len(team.ByUser)
	return team, nil
}

// Users returns one row per known user in source order, including users
// with no tasks.
func (a *Analytics) Users(ctx context.Context) (rows []stats.UserStats, err error) {
	defer observe(ctx, a.observer, "user-stats", time.Now().UTC(), nil, &err)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows = make([]stats.UserStats, 0, len(snap.Users))
	for _, u := range snap.Users {
		rows = append(rows, stats.ForUser(u, snap.Tasks))
	}
	return rows, nil
}

func (a *Analytics) Projects(ctx context.Context) (rows []stats.ProjectStats, err error) {
	defer observe(ctx, a.observer, "project-stats", time.Now().UTC(), nil, &err)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ForProjects(snap.Projects, snap.Tasks), nil
}

// Tasks returns display rows, optionally limited to one project.
func (a *Analytics) Tasks(ctx context.Context, projectID string) (rows []stats.TaskRow, err error) {
	fields := map[string]any{"project": projectID}
	defer observe(ctx, a.observer, "task-rows", time.Now().UTC(), fields, &err)

	snap, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	tasks := snap.Tasks
	if projectID != "" {
		tasks = stats.FilterProject(tasks, projectID)
	}
	return stats.TaskRows(snap.Projects, snap.Users, tasks), nil
}
