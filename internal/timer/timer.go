// Package timer is the focus countdown: an editable duration, a one second
// tick, automatic reset on expiry, and a guarded reset-and-restart.
package timer

import (
	"strings"
	"time"

	"github.com/ramanasai/freeflow/internal/clock"
	"github.com/ramanasai/freeflow/internal/timefmt"
)

// Phase is the externally visible state of the timer.
type Phase int

const (
	Idle Phase = iota
	Editing
	CountingDown
	Expired
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case CountingDown:
		return "counting down"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Kind names the transition that produced an Event.
type Kind int

const (
	Started Kind = iota
	Ticked
	Stopped
	Finished
	Reset
	EditBegan
	EditCommitted
	EditCancelled
	Stepped
)

// Event is reported to the listener after every transition.
type Event struct {
	Kind      Kind
	Phase     Phase
	Remaining int
}

const (
	tickInterval = time.Second
	restartDelay = 100 * time.Millisecond
)

// Timer must only be driven from one goroutine; its clock callbacks are
// expected to arrive on that same goroutine.
type Timer struct {
	clock    clock.Clock
	listener func(Event)
	onExpire func()

	duration  int
	remaining int
	running   bool
	editing   bool
	input     string

	tick      clock.Timer
	restart   clock.Timer
	resetting bool
	// gen invalidates callbacks that were already in flight when
	// their clock timer was stopped.
	gen int
}

// Option configures a Timer.
type Option func(*Timer)

func WithClock(c clock.Clock) Option {
	return func(t *Timer) { t.clock = c }
}

// WithListener receives every Event.
func WithListener(fn func(Event)) Option {
	return func(t *Timer) { t.listener = fn }
}

// WithExpireHook runs once each time the countdown reaches zero.
func WithExpireHook(fn func()) Option {
	return func(t *Timer) { t.onExpire = fn }
}

// New returns an idle timer with duration seconds on the clock.
func New(duration int, opts ...Option) *Timer {
	if duration < 0 {
		duration = 0
	}
	t := &Timer{
		clock:     clock.Real{},
		listener:  func(Event) {},
		onExpire:  func() {},
		duration:  duration,
		remaining: duration,
		input:     timefmt.Format(duration),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Duration() int  { return t.duration }
func (t *Timer) Remaining() int { return t.remaining }
func (t *Timer) Running() bool  { return t.running }
func (t *Timer) Editing() bool  { return t.editing }
func (t *Timer) Input() string  { return t.input }

// Phase reports the settled phase. Expired is only ever seen by listeners.
func (t *Timer) Phase() Phase {
	switch {
	case t.running:
		return CountingDown
	case t.editing:
		return Editing
	}
	return Idle
}

// Display is the text shown for the timer.
func (t *Timer) Display() string {
	if t.editing {
		return t.input
	}
	return timefmt.Format(t.remaining)
}

// DeletionLocked reports whether the editor should refuse delete keys.
func (t *Timer) DeletionLocked() bool { return t.running }

// BeginEdit opens the duration for manual entry. It is refused while running.
func (t *Timer) BeginEdit() bool {
	if t.running || t.editing {
		return false
	}
	t.editing = true
	t.input = timefmt.Format(t.remaining)
	t.emit(EditBegan)
	return true
}

// SetInput replaces the text being edited.
func (t *Timer) SetInput(text string) {
	if t.editing {
		t.input = text
	}
}

// Commit parses the edited text into both the remaining time and the
// duration new resets return to.
func (t *Timer) Commit() {
	if !t.editing {
		return
	}
	t.editing = false
	t.set(timefmt.Parse(t.input))
	t.emit(EditCommitted)
}

// Cancel abandons the edit; nothing but the text changes.
func (t *Timer) Cancel() {
	if !t.editing {
		return
	}
	t.editing = false
	t.input = timefmt.Format(t.remaining)
	t.emit(EditCancelled)
}

// Step nudges the minutes or seconds field, chosen by whether caret sits at
// or before the colon, and commits the result. It returns where the caret
// should be in the reformatted text.
func (t *Timer) Step(caret, delta int) int {
	if !t.editing {
		return caret
	}
	colon := strings.Index(t.input, ":")
	onMinutes := colon < 0 || caret <= colon

	m, s := timefmt.Split(t.input)
	m = clamp(m, 0, timefmt.MaxMinutes)
	s = clamp(s, 0, 59)
	if onMinutes {
		m = wrap(m+delta, timefmt.MaxMinutes+1)
	} else {
		s += delta
		for s > 59 {
			s -= 60
			m = wrap(m+1, timefmt.MaxMinutes+1)
		}
		for s < 0 {
			s += 60
			m = wrap(m-1, timefmt.MaxMinutes+1)
		}
	}

	t.set(m*60 + s)
	t.emit(Stepped)
	if onMinutes {
		return strings.Index(t.input, ":")
	}
	return len(t.input)
}

// Start begins counting down. An open edit is committed first. A timer with
// nothing left does not start.
func (t *Timer) Start() {
	if t.running {
		return
	}
	if t.editing {
		t.Commit()
	}
	if t.remaining <= 0 {
		return
	}
	t.running = true
	t.scheduleTick()
	t.emit(Started)
}

// Stop pauses the countdown, keeping the remaining time. A reset waiting to
// restart is abandoned.
func (t *Timer) Stop() {
	t.cancelRestart()
	if !t.running {
		return
	}
	t.halt()
	t.emit(Stopped)
}

// Toggle starts a stopped timer and stops a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Stop()
		return
	}
	t.Start()
}

// Reset returns to the last committed duration and restarts shortly after.
// Resets arriving before that restart are ignored.
func (t *Timer) Reset() {
	if t.resetting {
		return
	}
	t.resetting = true
	t.halt()
	t.editing = false
	t.remaining = t.duration
	t.input = timefmt.Format(t.duration)
	t.emit(Reset)
	gen := t.gen
	t.restart = t.clock.AfterFunc(restartDelay, func() {
		if !t.resetting || gen != t.gen {
			return
		}
		t.resetting = false
		t.restart = nil
		t.Start()
	})
}

// Close releases the pending clock callbacks.
func (t *Timer) Close() {
	t.cancelRestart()
	t.halt()
}

func (t *Timer) set(seconds int) {
	t.remaining = seconds
	t.duration = seconds
	t.input = timefmt.Format(seconds)
}

func (t *Timer) scheduleTick() {
	gen := t.gen
	t.tick = t.clock.AfterFunc(tickInterval, func() { t.onTick(gen) })
}

func (t *Timer) onTick(gen int) {
	if !t.running || gen != t.gen {
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.scheduleTick()
		t.emit(Ticked)
		return
	}

	t.running = false
	t.tick = nil
	t.listener(Event{Kind: Finished, Phase: Expired, Remaining: 0})
	t.remaining = t.duration
	t.input = timefmt.Format(t.duration)
	t.emit(Finished)
	t.onExpire()
}

func (t *Timer) halt() {
	t.gen++
	t.running = false
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
}

func (t *Timer) cancelRestart() {
	t.gen++
	if t.restart != nil {
		t.restart.Stop()
		t.restart = nil
	}
	t.resetting = false
}

func (t *Timer) emit(k Kind) {
	t.listener(Event{Kind: k, Phase: t.Phase(), Remaining: t.remaining})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}
