package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/freeflow/internal/clock"
	"github.com/ramanasai/freeflow/internal/timefmt"
)

type recorder struct {
	events  []Event
	expired int
}

func (r *recorder) count(k Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func newTestTimer(duration int) (*Timer, *clock.Fake, *recorder) {
	fc := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	rec := &recorder{}
	t := New(duration,
		WithClock(fc),
		WithListener(func(e Event) { rec.events = append(rec.events, e) }),
		WithExpireHook(func() { rec.expired++ }),
	)
	return t, fc, rec
}

func TestCountdownExpiresAndResets(t *testing.T) {
	tm, fc, rec := newTestTimer(900)
	tm.Start()
	require.True(t, tm.Running())
	assert.True(t, tm.DeletionLocked())

	fc.Advance(899 * time.Second)
	assert.Equal(t, 1, tm.Remaining())
	assert.True(t, tm.Running())

	fc.Advance(time.Second)
	assert.False(t, tm.Running())
	assert.False(t, tm.DeletionLocked())
	assert.Equal(t, 900, tm.Remaining())
	assert.Equal(t, Idle, tm.Phase())
	assert.Equal(t, 1, rec.expired)
	assert.Zero(t, fc.Pending())

	var sawExpired bool
	for _, e := range rec.events {
		if e.Phase == Expired {
			sawExpired = true
			assert.Zero(t, e.Remaining)
		}
	}
	assert.True(t, sawExpired)
}

func TestStopKeepsRemaining(t *testing.T) {
	tm, fc, _ := newTestTimer(60)
	tm.Start()
	fc.Advance(10 * time.Second)
	tm.Stop()

	assert.Equal(t, 50, tm.Remaining())
	assert.False(t, tm.DeletionLocked())
	fc.Advance(time.Minute)
	assert.Equal(t, 50, tm.Remaining())

	tm.Toggle()
	fc.Advance(time.Second)
	assert.Equal(t, 49, tm.Remaining())
}

func TestEditCommit(t *testing.T) {
	tm, _, _ := newTestTimer(900)
	require.True(t, tm.BeginEdit())
	assert.Equal(t, Editing, tm.Phase())
	assert.Equal(t, "15:00", tm.Input())

	tm.SetInput("5:30")
	tm.Commit()
	assert.Equal(t, Idle, tm.Phase())
	assert.Equal(t, 330, tm.Remaining())
	assert.Equal(t, 330, tm.Duration())
	assert.Equal(t, "5:30", tm.Display())
}

func TestEditCommitMalformedFallsBack(t *testing.T) {
	tm, _, _ := newTestTimer(60)
	tm.BeginEdit()
	tm.SetInput("soon")
	tm.Commit()
	assert.Equal(t, timefmt.Fallback, tm.Remaining())
	assert.Equal(t, timefmt.Fallback, tm.Duration())
}

func TestEditCancel(t *testing.T) {
	tm, _, _ := newTestTimer(120)
	tm.BeginEdit()
	tm.SetInput("45:00")
	tm.Cancel()

	assert.Equal(t, 120, tm.Remaining())
	assert.Equal(t, 120, tm.Duration())
	assert.Equal(t, "2:00", tm.Input())
	assert.Equal(t, Idle, tm.Phase())
}

func TestEditRefusedWhileRunning(t *testing.T) {
	tm, _, _ := newTestTimer(120)
	tm.Start()
	assert.False(t, tm.BeginEdit())
	assert.False(t, tm.Editing())
}

func TestStartCommitsOpenEdit(t *testing.T) {
	tm, fc, _ := newTestTimer(900)
	tm.BeginEdit()
	tm.SetInput("0:10")
	tm.Start()

	assert.True(t, tm.Running())
	assert.Equal(t, 10, tm.Duration())
	fc.Advance(10 * time.Second)
	assert.False(t, tm.Running())
	assert.Equal(t, 10, tm.Remaining())
}

func TestStartWithNothingLeft(t *testing.T) {
	tm, fc, _ := newTestTimer(0)
	tm.Start()
	assert.False(t, tm.Running())
	assert.Zero(t, fc.Pending())
}

func TestResetRestartsFromDuration(t *testing.T) {
	tm, fc, rec := newTestTimer(300)
	tm.Start()
	fc.Advance(30 * time.Second)

	tm.Reset()
	assert.False(t, tm.Running())
	assert.Equal(t, 300, tm.Remaining())

	fc.Advance(restartDelay)
	assert.True(t, tm.Running())
	assert.Equal(t, 2, rec.count(Started))
}

func TestRapidResetsRestartOnce(t *testing.T) {
	tm, fc, rec := newTestTimer(300)
	tm.Start()
	fc.Advance(5 * time.Second)

	tm.Reset()
	fc.Advance(40 * time.Millisecond)
	tm.Reset()
	fc.Advance(restartDelay)

	assert.Equal(t, 1, rec.count(Reset))
	assert.Equal(t, 2, rec.count(Started))
	require.True(t, tm.Running())

	// A second tick chain would drop two seconds per second.
	before := tm.Remaining()
	fc.Advance(time.Second)
	assert.Equal(t, before-1, tm.Remaining())
}

func TestResetGuardReleasesAfterRestart(t *testing.T) {
	tm, fc, rec := newTestTimer(300)
	tm.Reset()
	fc.Advance(restartDelay)
	tm.Reset()
	fc.Advance(restartDelay)
	assert.Equal(t, 2, rec.count(Reset))
	assert.True(t, tm.Running())
}

func TestStopAbandonsPendingRestart(t *testing.T) {
	tm, fc, _ := newTestTimer(300)
	tm.Reset()
	tm.Stop()
	fc.Advance(time.Second)
	assert.False(t, tm.Running())
	assert.Equal(t, 300, tm.Remaining())
}

func TestStepMinutesAndSeconds(t *testing.T) {
	tm, _, _ := newTestTimer(900)
	tm.BeginEdit() // "15:00"

	caret := tm.Step(1, 1)
	assert.Equal(t, "16:00", tm.Input())
	assert.Equal(t, 960, tm.Remaining())
	assert.Equal(t, 960, tm.Duration())
	assert.Equal(t, 2, caret)

	caret = tm.Step(4, -1)
	assert.Equal(t, "15:59", tm.Input())
	assert.Equal(t, 959, tm.Duration())
	assert.Equal(t, 5, caret)

	tm.Step(4, 1)
	assert.Equal(t, "16:00", tm.Input())
	assert.True(t, tm.Editing())
}

func TestStepWraps(t *testing.T) {
	tm, _, _ := newTestTimer(0)
	tm.BeginEdit() // "0:00"

	tm.Step(0, -1)
	assert.Equal(t, "99:00", tm.Input())

	tm.Step(0, 1)
	assert.Equal(t, "0:00", tm.Input())

	tm.Step(3, -1)
	assert.Equal(t, "99:59", tm.Input())
	assert.Equal(t, timefmt.MaxSeconds, tm.Duration())

	tm.Step(4, 1)
	assert.Equal(t, "0:00", tm.Input())
}

func TestStepIgnoredWhenNotEditing(t *testing.T) {
	tm, _, _ := newTestTimer(60)
	assert.Equal(t, 3, tm.Step(3, 1))
	assert.Equal(t, 60, tm.Duration())
}

func TestCloseStopsTicking(t *testing.T) {
	tm, fc, _ := newTestTimer(60)
	tm.Start()
	tm.Close()
	assert.Zero(t, fc.Pending())
}

// leakyClock never cancels, like a timer message already queued on the loop.
type leakyClock struct{ *clock.Fake }

func (c leakyClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.Fake.AfterFunc(d, f)
	return noStop{}
}

type noStop struct{}

func (noStop) Stop() bool { return false }

func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	fc := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	tm := New(60, WithClock(leakyClock{fc}))

	tm.Start()
	fc.Advance(500 * time.Millisecond)
	tm.Stop()
	tm.Start()

	fc.Advance(500 * time.Millisecond)
	assert.Equal(t, 60, tm.Remaining())
	fc.Advance(500 * time.Millisecond)
	assert.Equal(t, 59, tm.Remaining())
}

func TestStaleRestartIgnored(t *testing.T) {
	fc := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	rec := &recorder{}
	tm := New(60, WithClock(leakyClock{fc}), WithListener(func(e Event) { rec.events = append(rec.events, e) }))

	tm.Reset()
	tm.Stop()
	fc.Advance(time.Second)
	assert.False(t, tm.Running())
	assert.Zero(t, rec.count(Started))
}
