package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/sheetr/internal/livetimer"
	"github.com/sadopc/sheetr/internal/progress"
	"github.com/sadopc/sheetr/internal/repository"
)

var ErrNotTracking = errors.New("task is not being tracked")

// Tracking runs live timers. Each tick writes the task's time spent; a
// stop logs the session and credits its whole minutes to the timesheet
// cell for the stop day.
type Tracking struct {
	mu       sync.Mutex
	tasks    repository.TaskRepo
	entries  repository.TimeEntryRepo
	sheet    *Timesheet
	clock    livetimer.Clock
	tracker  *livetimer.Tracker
	observer UseCaseObserver
}

func NewTracking(
	tasks repository.TaskRepo,
	entries repository.TimeEntryRepo,
	sheet *Timesheet,
	clock livetimer.Clock,
	observers ...UseCaseObserver,
) *Tracking {
	if clock == nil {
		clock = livetimer.SystemClock{}
	}
	return &Tracking{
		tasks:    tasks,
		entries:  entries,
		sheet:    sheet,
		clock:    clock,
		tracker:  livetimer.NewTracker(clock, tasks),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Start begins a session from the task's stored time spent. A session
// already running for the task is recorded up to now and its time carried
// into the new one.
func (t *Tracking) Start(ctx context.Context, taskID string) (livetimer.Session, error) {
	task, err := t.tasks.GetTask(ctx, taskID)
	if err != nil {
		return livetimer.Session{}, fmt.Errorf("starting timer: %w", err)
	}
	t.mu.Lock()
	s, replaced, ok := t.tracker.Restart(taskID, task.TimeSpent)
	t.mu.Unlock()
	if ok {
		if err := t.record(ctx, replaced); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Tick samples the session identified by gen. Stale ticks report false.
func (t *Tracking) Tick(ctx context.Context, taskID string, gen uint64) (int64, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracker.Tick(ctx, taskID, gen)
}

func (t *Tracking) Session(taskID string) (livetimer.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracker.Session(taskID)
}

// Running lists tasks with an active session.
func (t *Tracking) Running() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracker.Active()
}

// Stop ends the task's session and records it.
func (t *Tracking) Stop(ctx context.Context, taskID string) (livetimer.Stopped, error) {
	t.mu.Lock()
	stopped, ok := t.tracker.Stop(taskID)
	t.mu.Unlock()
	if !ok {
		return livetimer.Stopped{}, fmt.Errorf("stopping %s: %w", taskID, ErrNotTracking)
	}
	return stopped, t.record(ctx, stopped)
}

// Run ticks a task every interval until ctx is done and records the
// session. The tracker belongs to Run until it returns.
func (t *Tracking) Run(ctx context.Context, taskID string, interval time.Duration, onTick func(int64)) (livetimer.Stopped, error) {
	task, err := t.tasks.GetTask(ctx, taskID)
	if err != nil {
		return livetimer.Stopped{}, fmt.Errorf("starting timer: %w", err)
	}
	stopped, err := t.tracker.Run(ctx, taskID, task.TimeSpent, interval, onTick)
	if err != nil {
		return stopped, err
	}
	return stopped, t.record(context.WithoutCancel(ctx), stopped)
}

func (t *Tracking) record(ctx context.Context, s livetimer.Stopped) (err error) {
	fields := map[string]any{"task": s.TaskID, "tracked_s": s.Tracked()}
	defer observe(ctx, t.observer, "stop-timer", time.Now().UTC(), fields, &err)

	tracked := s.Tracked()
	if tracked <= 0 {
		return nil
	}
	entry := &repository.TimeEntry{
		TaskID:   s.TaskID,
		Start:    s.Start,
		End:      s.Stop,
		Duration: tracked,
	}
	if err := t.entries.LogEntry(ctx, entry); err != nil {
		return fmt.Errorf("logging session: %w", err)
	}
	minutes := int(progress.RoundDiv(tracked, 60))
	fields["minutes"] = minutes
	if minutes == 0 || t.sheet == nil {
		return nil
	}
	if _, err := t.sheet.Credit(ctx, s.Stop, s.TaskID, minutes); err != nil {
		return fmt.Errorf("crediting timesheet: %w", err)
	}
	return nil
}
