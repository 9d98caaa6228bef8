package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/timesheet"
)

var ErrNotFound = errors.New("not found")

type UserRepo interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type ProjectRepo interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
}

type TaskRepo interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTimeSpent(ctx context.Context, id string, seconds int64) error
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// Source is the read side the aggregation engine depends on.
type Source interface {
	UserRepo
	ProjectRepo
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

type TimesheetRepo interface {
	LoadWeek(ctx context.Context, week string) ([]timesheet.Cell, error)
	SaveCell(ctx context.Context, week string, c timesheet.Cell) error
}

// TimeEntry is one finished live-timer session.
type TimeEntry struct {
	ID       string
	TaskID   string
	Start    time.Time
	End      time.Time
	Duration int64 // seconds
}

type TimeEntryRepo interface {
	LogEntry(ctx context.Context, e *TimeEntry) error
	ListEntries(ctx context.Context, taskID string) ([]TimeEntry, error)
}

// SettingsRepo holds user preferences as strings. Readers supply the value
// to use when a key is missing or malformed.
type SettingsRepo interface {
	SettingString(ctx context.Context, key, fallback string) string
	SettingFloat(ctx context.Context, key string, fallback float64) float64
	SetSetting(ctx context.Context, key, value string) error
}

// Repos bundles every repository a process needs.
type Repos interface {
	Source
	TaskRepo
	TimesheetRepo
	TimeEntryRepo
	SettingsRepo
}
