package livetimer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	updates map[string][]int64
	err     error
}

func (r *recordingSink) UpdateTimeSpent(_ context.Context, taskID string, seconds int64) error {
	if r.updates == nil {
		r.updates = make(map[string][]int64)
	}
	r.updates[taskID] = append(r.updates[taskID], seconds)
	return r.err
}

func newTestTracker() (*Tracker, *FakeClock, *recordingSink) {
	clock := &FakeClock{T: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)}
	sink := &recordingSink{}
	return NewTracker(clock, sink), clock, sink
}

func TestSessionElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{Baseline: 100, Start: start, Active: true}

	assert.Equal(t, int64(100), s.Elapsed(start))
	assert.Equal(t, int64(100), s.Elapsed(start.Add(999*time.Millisecond)))
	assert.Equal(t, int64(101), s.Elapsed(start.Add(1500*time.Millisecond)))
	assert.Equal(t, int64(160), s.Elapsed(start.Add(time.Minute)))
	assert.Equal(t, int64(100), s.Elapsed(start.Add(-time.Hour)), "clock skew never subtracts")

	s.Active = false
	assert.Equal(t, int64(100), s.Elapsed(start.Add(time.Hour)))
}

func TestTracker_TickPushesToSink(t *testing.T) {
	tr, clock, sink := newTestTracker()
	ctx := context.Background()

	s := tr.Start("t1", 3600)
	clock.Advance(time.Second)
	v, ok, err := tr.Tick(ctx, "t1", s.Gen)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3601), v)

	clock.Advance(2 * time.Second)
	_, _, err = tr.Tick(ctx, "t1", s.Gen)
	require.NoError(t, err)

	assert.Equal(t, []int64{3601, 3603}, sink.updates["t1"])
}

func TestTracker_StopCancelsTicks(t *testing.T) {
	tr, clock, sink := newTestTracker()
	ctx := context.Background()

	s := tr.Start("t1", 0)
	clock.Advance(5 * time.Second)
	tr.Tick(ctx, "t1", s.Gen)

	stopped, ok := tr.Stop("t1")
	require.True(t, ok)
	assert.Equal(t, int64(5), stopped.Final)

	clock.Advance(10 * time.Second)
	_, ok, err := tr.Tick(ctx, "t1", s.Gen)
	require.NoError(t, err)
	assert.False(t, ok, "tick after stop must be dropped")
	assert.Equal(t, []int64{5}, sink.updates["t1"])
}

func TestTracker_StopFreezesLastSample(t *testing.T) {
	tr, clock, _ := newTestTracker()
	ctx := context.Background()

	s := tr.Start("t1", 100)
	clock.Advance(3 * time.Second)
	tr.Tick(ctx, "t1", s.Gen)
	clock.Advance(800 * time.Millisecond)

	stopped, ok := tr.Stop("t1")
	require.True(t, ok)
	assert.Equal(t, int64(103), stopped.Final)
	assert.Equal(t, int64(3), stopped.Tracked())

	sess, _ := tr.Session("t1")
	assert.False(t, sess.Active)
	assert.Equal(t, int64(103), sess.Baseline)
}

func TestTracker_StopWithoutTickKeepsBaseline(t *testing.T) {
	tr, clock, _ := newTestTracker()
	tr.Start("t1", 50)
	clock.Advance(30 * time.Second)

	stopped, ok := tr.Stop("t1")
	require.True(t, ok)
	assert.Equal(t, int64(50), stopped.Final)
	assert.Equal(t, int64(0), stopped.Tracked())
}

func TestTracker_StopWhenIdle(t *testing.T) {
	tr, _, _ := newTestTracker()
	_, ok := tr.Stop("nothing")
	assert.False(t, ok)
}

func TestTracker_RestartFoldsAccumulated(t *testing.T) {
	tr, clock, _ := newTestTracker()
	ctx := context.Background()

	first := tr.Start("t1", 1000)
	clock.Advance(10 * time.Second)

	// The caller's stale timeSpent is ignored while a session is active.
	second := tr.Start("t1", 1000)
	assert.Equal(t, int64(1010), second.Baseline)
	assert.NotEqual(t, first.Gen, second.Gen)

	clock.Advance(5 * time.Second)
	_, ok, _ := tr.Tick(ctx, "t1", first.Gen)
	assert.False(t, ok, "old session ticks are ignored")

	v, ok, _ := tr.Tick(ctx, "t1", second.Gen)
	assert.True(t, ok)
	assert.Equal(t, int64(1015), v)
	assert.Len(t, tr.Active(), 1)
}

func TestTracker_RestartReportsReplaced(t *testing.T) {
	tr, clock, _ := newTestTracker()

	_, _, ok := tr.Restart("t1", 200)
	assert.False(t, ok, "nothing to replace on first start")

	clock.Advance(30 * time.Second)
	s, replaced, ok := tr.Restart("t1", 200)
	require.True(t, ok)
	assert.Equal(t, int64(200), replaced.Baseline)
	assert.Equal(t, int64(230), replaced.Final)
	assert.Equal(t, int64(30), replaced.Tracked())
	assert.Equal(t, clock.Now(), replaced.Stop)
	assert.Equal(t, int64(230), s.Baseline)
}

func TestTracker_ResumeAfterStop(t *testing.T) {
	tr, clock, _ := newTestTracker()
	ctx := context.Background()

	s := tr.Start("t1", 0)
	clock.Advance(4 * time.Second)
	tr.Tick(ctx, "t1", s.Gen)
	stopped, _ := tr.Stop("t1")

	clock.Advance(time.Hour)
	resumed := tr.Start("t1", stopped.Final)
	clock.Advance(2 * time.Second)
	v, ok, _ := tr.Tick(ctx, "t1", resumed.Gen)
	assert.True(t, ok)
	assert.Equal(t, int64(6), v)
}

func TestTracker_IndependentTasks(t *testing.T) {
	tr, clock, sink := newTestTracker()
	ctx := context.Background()

	a := tr.Start("a", 0)
	b := tr.Start("b", 100)
	clock.Advance(3 * time.Second)
	tr.Tick(ctx, "a", a.Gen)
	tr.Tick(ctx, "b", b.Gen)

	assert.Equal(t, []int64{3}, sink.updates["a"])
	assert.Equal(t, []int64{103}, sink.updates["b"])
	assert.Len(t, tr.Active(), 2)
}

func TestTracker_SinkError(t *testing.T) {
	tr, clock, sink := newTestTracker()
	sink.err = errors.New("disk full")

	s := tr.Start("t1", 0)
	clock.Advance(time.Second)
	_, ok, err := tr.Tick(context.Background(), "t1", s.Gen)
	assert.True(t, ok)
	assert.EqualError(t, err, "disk full")
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	tr := NewTracker(SystemClock{}, &recordingSink{})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	stopped, err := tr.Run(ctx, "t1", 42, 5*time.Millisecond, nil)
	require.NoError(t, err)
	assert.Equal(t, "t1", stopped.TaskID)
	assert.Equal(t, int64(42), stopped.Baseline)
	assert.Empty(t, tr.Active())
}
