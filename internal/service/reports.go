package service

import (
	"context"
	"math"
	"time"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/repository"
)

// Reports builds the rows handed to the export collaborator.
type Reports struct {
	src      repository.Source
	observer UseCaseObserver
}

func NewReports(src repository.Source, observers ...UseCaseObserver) *Reports {
	return &Reports{src: src, observer: useCaseObserverOrNoop(observers)}
}

// Rows returns one row per distinct team member of every project, in
// project then team order. Cost is rate times the hours the member spent
// on the project's tasks, rounded to cents. Members missing from the user
// list keep their ID as the name.
func (r *Reports) Rows(ctx context.Context, rate float64) (rows []domain.ReportRow, err error) {
	fields := map[string]any{"rate": rate}
	defer observe(ctx, r.observer, "report-rows", time.Now().UTC(), fields, &err)

	snap, err := NewAnalytics(r.src).Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	users := domain.UserIndex(snap.Users)

	spent := make(map[[2]string]int64)
	for _, t := range snap.Tasks {
		if t.Unassigned() || t.TimeSpent <= 0 {
			continue
		}
		spent[[2]string{t.ProjectID, t.AssigneeID}] += t.TimeSpent
	}

	for _, p := range snap.Projects {
		seen := make(map[string]bool, len(p.TeamIDs))
		for _, id := range p.TeamIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			row := domain.ReportRow{
				Project:      p.Name,
				EmployeeName: id,
				StartDate:    p.StartDate,
				EndDate:      p.EndDate,
				Rate:         rate,
			}
			if u, ok := users[id]; ok {
				row.EmployeeName = u.Name
				row.Role = u.Role
			}
			hours := float64(spent[[2]string{p.ID, id}]) / 3600
			row.Cost = math.Round(rate*hours*100) / 100
			rows = append(rows, row)
		}
	}
	fields["rows"] = len(rows)
	return rows, nil
}
