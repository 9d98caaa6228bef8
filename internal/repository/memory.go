package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/timesheet"
)

// Memory keeps every collection in process memory. It is the default data
// source when no database is configured.
type Memory struct {
	mu       sync.RWMutex
	users    []domain.User
	projects []domain.Project
	tasks    []domain.Task
	sheets   map[string]*timesheet.Matrix
	entries  []TimeEntry
	settings map[string]string
}

func NewMemory(users []domain.User, projects []domain.Project, tasks []domain.Task) *Memory {
	return &Memory{
		users:    append([]domain.User(nil), users...),
		projects: append([]domain.Project(nil), projects...),
		tasks:    append([]domain.Task(nil), tasks...),
		sheets:   make(map[string]*timesheet.Matrix),
		settings: make(map[string]string),
	}
}

func (m *Memory) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.User(nil), m.users...), nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (m *Memory) ListProjects(context.Context) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Project, len(m.projects))
	for i, p := range m.projects {
		p.TeamIDs = append([]string(nil), p.TeamIDs...)
		out[i] = p
	}
	return out, nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.projects {
		if p.ID == id {
			p.TeamIDs = append([]string(nil), p.TeamIDs...)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

func (m *Memory) ListTasks(context.Context) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Task(nil), m.tasks...), nil
}

func (m *Memory) GetTask(_ context.Context, id string) (*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.taskIndex(id); i >= 0 {
		t := m.tasks[i]
		return &t, nil
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

func (m *Memory) CreateTask(_ context.Context, t *domain.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m *Memory) UpdateTimeSpent(_ context.Context, id string, seconds int64) error {
	if err := domain.ValidateDuration("time spent", seconds); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	m.tasks[i].TimeSpent = seconds
	return nil
}

func (m *Memory) SetCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	m.tasks[i].Completed = completed
	return nil
}

func (m *Memory) LoadWeek(_ context.Context, week string) ([]timesheet.Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sheet, ok := m.sheets[week]
	if !ok {
		return nil, nil
	}
	return sheet.Cells(), nil
}

func (m *Memory) SaveCell(_ context.Context, week string, c timesheet.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheet, ok := m.sheets[week]
	if !ok {
		sheet = timesheet.NewMatrix()
		m.sheets[week] = sheet
	}
	return sheet.Set(c.TaskID, c.Day, c.Minutes)
}

func (m *Memory) LogEntry(_ context.Context, e *TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *Memory) ListEntries(_ context.Context, taskID string) ([]TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []TimeEntry
	for _, e := range m.entries {
		if taskID == "" || e.TaskID == taskID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, nil
}

func (m *Memory) SettingString(_ context.Context, key, fallback string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.settings[key]; ok {
		return v
	}
	return fallback
}

func (m *Memory) SettingFloat(ctx context.Context, key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(m.SettingString(ctx, key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func (m *Memory) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *Memory) taskIndex(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

var _ Repos = (*Memory)(nil)
