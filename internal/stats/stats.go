// Package stats derives per-user, per-project and team-wide rollups from a
// task collection. Nothing is cached: every call recomputes from its input.
package stats

import (
	"sort"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/progress"
)

// Stats is the shared rollup over a task subset. Times are seconds.
type Stats struct {
	TotalTasks     int
	CompletedTasks int
	CompletionRate int // 0-100
	PlannedTime    int64
	ActualTime     int64
	Efficiency     int // >100 means under budget
}

type UserStats struct {
	User domain.User
	Stats
}

type ProjectStats struct {
	Project  domain.Project
	Variance int64 // actual - planned, seconds
	TeamSize int
	Stats
}

type TeamStats struct {
	Stats
	ByUser []UserStats // descending task count, stable
}

// Compute aggregates a task subset.
func Compute(tasks []domain.Task) Stats {
	var s Stats
	for _, t := range tasks {
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		}
		s.PlannedTime += nonNegative(t.EstimatedTime)
		s.ActualTime += nonNegative(t.TimeSpent)
	}
	if s.TotalTasks > 0 {
		s.CompletionRate = int(progress.RoundDiv(int64(s.CompletedTasks)*100, int64(s.TotalTasks)))
	}
	s.Efficiency = Efficiency(s.PlannedTime, s.ActualTime)
	return s
}

// Efficiency is planned/actual as a percentage. Actual time is floored at
// one second so an untouched budget does not divide by zero.
func Efficiency(planned, actual int64) int {
	if planned == 0 {
		return 100
	}
	return int(progress.RoundDiv(planned*100, max(actual, 1)))
}

// ForUser aggregates the tasks assigned to u.
func ForUser(u domain.User, tasks []domain.Task) UserStats {
	var own []domain.Task
	for _, t := range tasks {
		if !t.Unassigned() && t.AssigneeID == u.ID {
			own = append(own, t)
		}
	}
	return UserStats{User: u, Stats: Compute(own)}
}

// ForProject aggregates the tasks belonging to p.
func ForProject(p domain.Project, tasks []domain.Task) ProjectStats {
	var own []domain.Task
	for _, t := range tasks {
		if t.ProjectID == p.ID {
			own = append(own, t)
		}
	}
	s := Compute(own)
	return ProjectStats{
		Project:  p,
		Variance: s.ActualTime - s.PlannedTime,
		TeamSize: len(p.TeamIDs),
		Stats:    s,
	}
}

// ForProjects runs ForProject for every project, keeping input order.
func ForProjects(projects []domain.Project, tasks []domain.Task) []ProjectStats {
	out := make([]ProjectStats, 0, len(projects))
	for _, p := range projects {
		out = append(out, ForProject(p, tasks))
	}
	return out
}

// ForTeam aggregates the whole collection plus a per-user breakdown.
// Tasks that are unassigned or point at an unknown user are collected in a
// trailing placeholder row so the rows still partition the task set.
func ForTeam(users []domain.User, tasks []domain.Task) TeamStats {
	known := domain.UserIndex(users)
	byUser := make(map[string][]domain.Task, len(users))
	var orphaned []domain.Task
	for _, t := range tasks {
		if _, ok := known[t.AssigneeID]; ok && !t.Unassigned() {
			byUser[t.AssigneeID] = append(byUser[t.AssigneeID], t)
			continue
		}
		orphaned = append(orphaned, t)
	}

	rows := make([]UserStats, 0, len(users)+1)
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		rows = append(rows, UserStats{User: u, Stats: Compute(byUser[u.ID])})
	}
	if len(orphaned) > 0 {
		rows = append(rows, UserStats{
			User:  domain.User{Name: domain.UnassignedName},
			Stats: Compute(orphaned),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalTasks > rows[j].TotalTasks
	})

	return TeamStats{Stats: Compute(tasks), ByUser: rows}
}

// Breakdown counts tasks per derived status.
type Breakdown map[domain.Status]int

// ByStatus classifies every task fresh from its fields.
func ByStatus(tasks []domain.Task) Breakdown {
	b := make(Breakdown, len(domain.Statuses))
	for _, s := range domain.Statuses {
		b[s] = 0
	}
	for _, t := range tasks {
		b[progress.StatusOf(t)]++
	}
	return b
}

// Overdue returns incomplete tasks whose due date is before now.
func Overdue(tasks []domain.Task, now time.Time) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Completed || t.DueDate.IsZero() {
			continue
		}
		if t.DueDate.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
