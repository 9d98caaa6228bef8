// Package livetimer accumulates tracked seconds for tasks from wall-clock
// deltas. Sessions are plain values; the Tracker owns at most one active
// session per task and pushes samples to a Sink.
package livetimer

import (
	"context"
	"time"
)

// Session is one ticking period for a task.
type Session struct {
	TaskID     string
	Baseline   int64 // seconds accumulated before Start
	Start      time.Time
	Active     bool
	LastSample int64
	Gen        uint64 // identifies the session; stale ticks carry an older value
}

// Elapsed is the baseline plus whole seconds since Start.
func (s Session) Elapsed(now time.Time) int64 {
	if !s.Active {
		return s.Baseline
	}
	d := now.Sub(s.Start)
	if d < 0 {
		d = 0
	}
	return s.Baseline + int64(d/time.Second)
}

// Sink receives every sampled value as the task's new time spent.
type Sink interface {
	UpdateTimeSpent(ctx context.Context, taskID string, seconds int64) error
}

// Stopped describes a finished session.
type Stopped struct {
	TaskID   string
	Start    time.Time
	Stop     time.Time
	Baseline int64
	Final    int64
}

// Tracked is the number of seconds the session added.
func (s Stopped) Tracked() int64 { return s.Final - s.Baseline }

type Tracker struct {
	clock    Clock
	sink     Sink
	sessions map[string]*Session
	gen      uint64
}

func NewTracker(clock Clock, sink Sink) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tracker{
		clock:    clock,
		sink:     sink,
		sessions: make(map[string]*Session),
	}
}

// Start begins ticking for a task from timeSpent. Restarting an active task
// folds what it has accumulated into the new baseline instead of counting
// it twice. The returned session's Gen must accompany its ticks.
func (t *Tracker) Start(taskID string, timeSpent int64) Session {
	s, _, _ := t.Restart(taskID, timeSpent)
	return s
}

// Restart is Start that also reports the session it replaced, ended at the
// folded value, so callers can record it.
func (t *Tracker) Restart(taskID string, timeSpent int64) (Session, Stopped, bool) {
	now := t.clock.Now()
	baseline := timeSpent
	var replaced Stopped
	cur, active := t.sessions[taskID]
	active = active && cur.Active
	if active {
		baseline = cur.Elapsed(now)
		replaced = Stopped{
			TaskID:   taskID,
			Start:    cur.Start,
			Stop:     now,
			Baseline: cur.Baseline,
			Final:    baseline,
		}
	}
	t.gen++
	s := &Session{
		TaskID:     taskID,
		Baseline:   baseline,
		Start:      now,
		Active:     true,
		LastSample: baseline,
		Gen:        t.gen,
	}
	t.sessions[taskID] = s
	return *s, replaced, active
}

// Tick samples the session and forwards the value to the sink. Ticks for a
// stopped or replaced session are dropped and report false.
func (t *Tracker) Tick(ctx context.Context, taskID string, gen uint64) (int64, bool, error) {
	s, ok := t.sessions[taskID]
	if !ok || !s.Active || s.Gen != gen {
		return 0, false, nil
	}
	s.LastSample = s.Elapsed(t.clock.Now())
	if t.sink != nil {
		if err := t.sink.UpdateTimeSpent(ctx, taskID, s.LastSample); err != nil {
			return s.LastSample, true, err
		}
	}
	return s.LastSample, true, nil
}

// Stop freezes the last sampled value as the baseline for a later resume.
// Time since the last tick is not credited.
func (t *Tracker) Stop(taskID string) (Stopped, bool) {
	s, ok := t.sessions[taskID]
	if !ok || !s.Active {
		return Stopped{}, false
	}
	out := Stopped{
		TaskID:   taskID,
		Start:    s.Start,
		Stop:     t.clock.Now(),
		Baseline: s.Baseline,
		Final:    s.LastSample,
	}
	s.Active = false
	s.Baseline = s.LastSample
	return out, true
}

// Session returns the current session for a task.
func (t *Tracker) Session(taskID string) (Session, bool) {
	s, ok := t.sessions[taskID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Active lists tasks with a running session.
func (t *Tracker) Active() []string {
	var ids []string
	for id, s := range t.sessions {
		if s.Active {
			ids = append(ids, id)
		}
	}
	return ids
}

// Run ticks a task every interval until ctx is done, then stops it.
func (t *Tracker) Run(ctx context.Context, taskID string, timeSpent int64, interval time.Duration, onTick func(int64)) (Stopped, error) {
	s := t.Start(taskID, timeSpent)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stopped, _ := t.Stop(taskID)
			return stopped, nil
		case <-ticker.C:
			v, ok, err := t.Tick(ctx, taskID, s.Gen)
			if err != nil {
				t.Stop(taskID)
				return Stopped{}, err
			}
			if ok && onTick != nil {
				onTick(v)
			}
		}
	}
}
