package stats

import (
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/progress"
)

// TaskRow is a display-ready task with its references resolved.
type TaskRow struct {
	Task         domain.Task
	ProjectName  string
	AssigneeName string
	Progress     int // clamped
	RawProgress  int
	Status       domain.Status
}

// TaskRows resolves every task against the given users and projects.
// Dangling references become placeholders; no row is dropped.
func TaskRows(projects []domain.Project, users []domain.User, tasks []domain.Task) []TaskRow {
	pidx := domain.ProjectIndex(projects)
	uidx := domain.UserIndex(users)

	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		raw := progress.RawPercent(t.TimeSpent, t.EstimatedTime)
		rows = append(rows, TaskRow{
			Task:         t,
			ProjectName:  domain.ProjectName(t.ProjectID, pidx),
			AssigneeName: domain.AssigneeName(t, uidx),
			Progress:     progress.PercentOf(t),
			RawProgress:  raw,
			Status:       progress.Classify(raw, t.Completed),
		})
	}
	return rows
}

// FilterProject keeps the tasks of one project.
func FilterProject(tasks []domain.Task, projectID string) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}
