package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/freeflow/internal/clock"
)

// loopMsg carries a callback that must run inside Update.
type loopMsg struct{ fn func() }

// bridge posts callbacks to the running program. Posts before attach are
// dropped; attach happens before anything can post.
type bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *bridge) post(fn func()) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(loopMsg{fn: fn})
	}
}

// loopClock fires its callbacks on the program's event loop.
type loopClock struct{ b *bridge }

func (loopClock) Now() time.Time { return time.Now() }

func (c loopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return time.AfterFunc(d, func() { c.b.post(f) })
}

// worker runs store jobs one at a time in submission order and posts their
// continuations. The queue is unbounded so jobs may submit more jobs.
type worker struct {
	post func(func())

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func() func()
	closed  bool
	started bool
	done    chan struct{}
}

func newWorker(post func(func())) *worker {
	w := &worker{post: post, done: make(chan struct{})}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *worker) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.run()
}

// Go implements editor.Loop. Jobs submitted after Close are dropped.
func (w *worker) Go(job func() func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.queue = append(w.queue, job)
	w.cond.Signal()
}

// Close runs what is still queued, without continuations, and waits for it.
func (w *worker) Close() {
	w.mu.Lock()
	w.closed = true
	started := w.started
	w.cond.Broadcast()
	w.mu.Unlock()
	if !started {
		w.run()
		return
	}
	<-w.done
}

func (w *worker) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue[0] = nil
		w.queue = w.queue[1:]
		closing := w.closed
		w.mu.Unlock()

		if next := job(); next != nil && !closing {
			w.post(next)
		}
	}
}
