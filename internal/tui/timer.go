package tui

import (
	"context"

	"github.com/sadopc/sheetr/internal/livetimer"
	"github.com/sadopc/sheetr/internal/service"
)

// timerModel holds the dashboard's view of the one task it is tracking.
// Seconds are sampled by the tracking service; the model only remembers
// which session its ticks belong to.
type timerModel struct {
	tracking *service.Tracking

	taskID  string
	title   string
	gen     uint64
	elapsed int64 // task time spent at the last tick, seconds
	started int64 // time spent when the session began
}

func newTimerModel(t *service.Tracking) timerModel {
	return timerModel{tracking: t}
}

func (t *timerModel) start(ctx context.Context, taskID, title string) error {
	s, err := t.tracking.Start(ctx, taskID)
	if err != nil {
		return err
	}
	t.taskID = taskID
	t.title = title
	t.gen = s.Gen
	t.elapsed = s.Baseline
	t.started = s.Baseline
	return nil
}

func (t *timerModel) stop(ctx context.Context) (livetimer.Stopped, error) {
	if !t.running() {
		return livetimer.Stopped{}, nil
	}
	stopped, err := t.tracking.Stop(ctx, t.taskID)
	t.taskID = ""
	t.gen = 0
	return stopped, err
}

// tick samples the session. Ticks for a session that was replaced or
// stopped elsewhere leave the model unchanged.
func (t *timerModel) tick(ctx context.Context) error {
	if !t.running() {
		return nil
	}
	v, ok, err := t.tracking.Tick(ctx, t.taskID, t.gen)
	if ok {
		t.elapsed = v
	}
	return err
}

func (t timerModel) running() bool {
	return t.taskID != ""
}

// session is the time tracked since start.
func (t timerModel) session() int64 {
	if !t.running() {
		return 0
	}
	return t.elapsed - t.started
}
