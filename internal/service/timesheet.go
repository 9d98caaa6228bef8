package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/timesheet"
)

// Week is a loaded timesheet week.
type Week struct {
	Key    string
	Start  time.Time
	Days   []string
	Matrix *timesheet.Matrix
}

// Timesheet edits weekly minutes matrices and persists every changed cell.
type Timesheet struct {
	repo      repository.TimesheetRepo
	weekStart string
	observer  UseCaseObserver
}

func NewTimesheet(repo repository.TimesheetRepo, weekStart string, observers ...UseCaseObserver) *Timesheet {
	return &Timesheet{repo: repo, weekStart: weekStart, observer: useCaseObserverOrNoop(observers)}
}

func (s *Timesheet) WeekStart() string { return s.weekStart }

// Load returns the week containing at.
func (s *Timesheet) Load(ctx context.Context, at time.Time) (*Week, error) {
	start := timesheet.WeekStart(at, s.weekStart)
	key := start.Format("2006-01-02")
	cells, err := s.repo.LoadWeek(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading week %s: %w", key, err)
	}
	m := timesheet.NewMatrix()
	if err := m.Load(cells); err != nil {
		return nil, fmt.Errorf("loading week %s: %w", key, err)
	}
	return &Week{
		Key:    key,
		Start:  start,
		Days:   timesheet.OrderedDays(s.weekStart),
		Matrix: m,
	}, nil
}

// SetCell stores minutes for one cell. The stored row is written before
// the in-memory matrix so a failed write leaves both unchanged.
func (s *Timesheet) SetCell(ctx context.Context, w *Week, taskID, day string, minutes int) (err error) {
	fields := map[string]any{"week": w.Key, "task": taskID, "day": day, "minutes": minutes}
	defer observe(ctx, s.observer, "set-cell", time.Now().UTC(), fields, &err)

	if minutes < 0 {
		return fmt.Errorf("set %s/%s: %w", taskID, day, timesheet.ErrNegativeMinutes)
	}
	if err := s.repo.SaveCell(ctx, w.Key, timesheet.Cell{TaskID: taskID, Day: day, Minutes: minutes}); err != nil {
		return err
	}
	return w.Matrix.Set(taskID, day, minutes)
}

// SetCellInput parses hour and minute text fields and stores the result.
func (s *Timesheet) SetCellInput(ctx context.Context, w *Week, taskID, day, hours, minutes string) (int, error) {
	total, err := timesheet.ParseCell(hours, minutes)
	if err != nil {
		return 0, err
	}
	return total, s.SetCell(ctx, w, taskID, day, total)
}

// Credit adds minutes to the cell for the wall-clock day of at.
func (s *Timesheet) Credit(ctx context.Context, at time.Time, taskID string, minutes int) (*Week, error) {
	w, err := s.Load(ctx, at)
	if err != nil {
		return nil, err
	}
	day := timesheet.DayLabel(at)
	if err := s.SetCell(ctx, w, taskID, day, w.Matrix.Get(taskID, day)+minutes); err != nil {
		return nil, err
	}
	return w, nil
}
