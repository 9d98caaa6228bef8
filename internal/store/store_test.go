package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/fixture"
	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/timesheet"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	if _, err := s.Seed(context.Background(), fixture.Load()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/sheetr.db"

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)
	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Seeding
// ============================================================

func TestSeedLoadsFixture(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	d := fixture.Load()

	seeded, err := s.Seed(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if !seeded {
		t.Fatal("empty store should be seeded")
	}

	users, _ := s.ListUsers(ctx)
	projects, _ := s.ListProjects(ctx)
	tasks, _ := s.ListTasks(ctx)
	if len(users) != len(d.Users) || len(projects) != len(d.Projects) || len(tasks) != len(d.Tasks) {
		t.Fatalf("counts: users=%d projects=%d tasks=%d", len(users), len(projects), len(tasks))
	}
	if users[0].ID != d.Users[0].ID || users[len(users)-1].ID != d.Users[len(d.Users)-1].ID {
		t.Fatal("users should keep insertion order")
	}
}

func TestSeedSkipsNonEmpty(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	seeded, err := s.Seed(ctx, fixture.Load())
	if err != nil {
		t.Fatal(err)
	}
	if seeded {
		t.Fatal("second seed should be a no-op")
	}
	tasks, _ := s.ListTasks(ctx)
	if len(tasks) != len(fixture.Load().Tasks) {
		t.Fatalf("tasks duplicated: %d", len(tasks))
	}
}

// ============================================================
// Users & projects
// ============================================================

func TestCreateUserAssignsID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := &domain.User{Name: "Ada", Role: "Engineer"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	if u.ID == "" {
		t.Fatal("expected generated ID")
	}
	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ada" || got.Role != "Engineer" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUser(context.Background(), "nope")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectTeamKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := &domain.Project{
		Name:      "Portal",
		StartDate: time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2024, 4, 26, 0, 0, 0, 0, time.Local),
		TeamIDs:   []string{"u3", "u1", "u3"},
	}
	if err := s.CreateProject(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"u3", "u1", "u3"}
	if len(got.TeamIDs) != len(want) {
		t.Fatalf("team = %v, want %v", got.TeamIDs, want)
	}
	for i := range want {
		if got.TeamIDs[i] != want[i] {
			t.Fatalf("team = %v, want %v", got.TeamIDs, want)
		}
	}
	if !got.StartDate.Equal(p.StartDate) || !got.EndDate.Equal(p.EndDate) {
		t.Fatalf("dates mangled: %v %v", got.StartDate, got.EndDate)
	}
}

func TestListProjectsWithMembers(t *testing.T) {
	s := newSeededStore(t)
	projects, err := s.ListProjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if projects[1].ID != "p2" || len(projects[1].TeamIDs) != 4 {
		t.Fatalf("unexpected project: %+v", projects[1])
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProject(context.Background(), "nope")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndGetTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	due := time.Date(2024, 3, 22, 0, 0, 0, 0, time.Local)
	task := &domain.Task{
		ProjectID:     "p1",
		Title:         "Bug fix",
		AssigneeID:    "u1",
		EstimatedTime: 3600,
		TimeSpent:     1200,
		DueDate:       due,
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Bug fix" || got.EstimatedTime != 3600 || got.TimeSpent != 1200 || got.Completed {
		t.Fatalf("unexpected task: %+v", got)
	}
	if !got.DueDate.Equal(due) {
		t.Fatalf("due date = %v, want %v", got.DueDate, due)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestCreateTaskDanglingReferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	task := &domain.Task{ProjectID: "missing", AssigneeID: "ghost", Title: "Orphan"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("dangling references should be stored: %v", err)
	}
}

func TestCreateTaskRejectsNegative(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateTask(context.Background(), &domain.Task{Title: "Bad", EstimatedTime: -1})
	if !errors.Is(err, domain.ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
}

func TestListTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.ListTasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tasks != nil {
		t.Fatal("expected nil slice for empty task list")
	}
}

func TestUpdateTimeSpent(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	if err := s.UpdateTimeSpent(ctx, "t2", 5400); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(ctx, "t2")
	if got.TimeSpent != 5400 {
		t.Fatalf("time spent = %d, want 5400", got.TimeSpent)
	}
	if err := s.UpdateTimeSpent(ctx, "t2", -1); !errors.Is(err, domain.ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
	if err := s.UpdateTimeSpent(ctx, "nope", 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetCompleted(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)

	if err := s.SetCompleted(ctx, "t3", true); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask(ctx, "t3")
	if !got.Completed {
		t.Fatal("task should be completed")
	}
	if err := s.SetCompleted(ctx, "nope", true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTask(context.Background(), "nope")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Timesheet cells
// ============================================================

func TestSaveAndLoadWeek(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cells := []timesheet.Cell{
		{TaskID: "t1", Day: "Mon", Minutes: 120},
		{TaskID: "t1", Day: "Wed", Minutes: 90},
		{TaskID: "t2", Day: "Mon", Minutes: 30},
	}
	for _, c := range cells {
		if err := s.SaveCell(ctx, "2024-03-11", c); err != nil {
			t.Fatal(err)
		}
	}
	s.SaveCell(ctx, "2024-03-18", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: 15})

	loaded, err := s.LoadWeek(ctx, "2024-03-11")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(loaded))
	}

	m := timesheet.NewMatrix()
	if err := m.Load(loaded); err != nil {
		t.Fatal(err)
	}
	if m.TotalForTask("t1") != 210 || m.TotalForWeek() != 240 {
		t.Fatalf("totals: task=%d week=%d", m.TotalForTask("t1"), m.TotalForWeek())
	}
}

func TestSaveCellUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SaveCell(ctx, "w", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: 120})
	s.SaveCell(ctx, "w", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: 45})

	loaded, _ := s.LoadWeek(ctx, "w")
	if len(loaded) != 1 || loaded[0].Minutes != 45 {
		t.Fatalf("expected single cell with 45 minutes, got %+v", loaded)
	}
}

func TestSaveCellZeroClears(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SaveCell(ctx, "w", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: 120})
	s.SaveCell(ctx, "w", timesheet.Cell{TaskID: "t1", Day: "Tue", Minutes: 30})
	if err := s.SaveCell(ctx, "w", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: 0}); err != nil {
		t.Fatal(err)
	}

	loaded, _ := s.LoadWeek(ctx, "w")
	if len(loaded) != 1 || loaded[0].Day != "Tue" {
		t.Fatalf("expected only the Tue cell, got %+v", loaded)
	}
}

func TestSaveCellRejectsNegative(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveCell(context.Background(), "w", timesheet.Cell{TaskID: "t1", Day: "Mon", Minutes: -5})
	if !errors.Is(err, timesheet.ErrNegativeMinutes) {
		t.Fatalf("expected ErrNegativeMinutes, got %v", err)
	}
}

// ============================================================
// Time entries
// ============================================================

func TestLogAndListEntries(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	start := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)

	e1 := &repository.TimeEntry{TaskID: "t1", Start: start, End: start.Add(30 * time.Minute), Duration: 1800}
	e2 := &repository.TimeEntry{TaskID: "t2", Start: start.Add(time.Hour), End: start.Add(time.Hour + time.Minute), Duration: 60}
	if err := s.LogEntry(ctx, e1); err != nil {
		t.Fatal(err)
	}
	if err := s.LogEntry(ctx, e2); err != nil {
		t.Fatal(err)
	}
	if e1.ID == "" {
		t.Fatal("expected generated entry ID")
	}

	all, err := s.ListEntries(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].TaskID != "t2" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if !all[1].Start.Equal(start) {
		t.Fatalf("start = %v, want %v", all[1].Start, start)
	}

	one, _ := s.ListEntries(ctx, "t1")
	if len(one) != 1 || one[0].Duration != 1800 {
		t.Fatalf("unexpected filtered entries: %+v", one)
	}
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	s := newSeededStore(t)
	now := time.Now().UTC()
	start := now.Add(-time.Minute)

	s.LogEntry(ctx, &repository.TimeEntry{TaskID: "t1", Start: start, End: now, Duration: 600})
	s.LogEntry(ctx, &repository.TimeEntry{TaskID: "t1", Start: start, End: now, Duration: 300})
	s.LogEntry(ctx, &repository.TimeEntry{TaskID: "gone", Start: start, End: now, Duration: 60})

	summaries, err := s.GetDailySummary(ctx, now.Add(-24*time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	var found bool
	for _, ds := range summaries {
		if ds.TaskID == "t1" {
			found = true
			if ds.TotalSeconds != 900 || ds.EntryCount != 2 || ds.TaskTitle != "Homepage wireframes" {
				t.Fatalf("unexpected summary: %+v", ds)
			}
		}
	}
	if !found {
		t.Fatal("missing summary for t1")
	}

	total, err := s.GetTodayTotal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total < 900 {
		t.Fatalf("today total = %d, want >= 900", total)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if v, _ := s.GetSetting(ctx, "week_start"); v != "monday" {
		t.Fatalf("week_start = %q", v)
	}
	if r := s.SettingFloat(ctx, "hourly_rate", 0); r != 85 {
		t.Fatalf("hourly_rate = %v", r)
	}
}

func TestSetSettingUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.SetSetting(ctx, "hourly_rate", "120.5"); err != nil {
		t.Fatal(err)
	}
	if r := s.SettingFloat(ctx, "hourly_rate", 0); r != 120.5 {
		t.Fatalf("hourly_rate = %v", r)
	}

	all, err := s.GetAllSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 settings, got %d", len(all))
	}
}

func TestSettingFallbacks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetSetting(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing setting")
	}
	if v := s.SettingString(ctx, "missing", "x"); v != "x" {
		t.Fatalf("fallback = %q", v)
	}
	s.SetSetting(ctx, "hourly_rate", "abc")
	if r := s.SettingFloat(ctx, "hourly_rate", 42); r != 42 {
		t.Fatalf("malformed float should fall back, got %v", r)
	}
}
