package editor

// Loop runs store work away from the event loop and hands the result back.
// Controller state is only touched by continuations, which implementations
// must run on the event loop in the order their jobs finished.
type Loop interface {
	// Go runs job off the event loop. The function job returns, if non-nil,
	// then runs on the event loop.
	Go(job func() func())
}

// Inline runs every job and its continuation immediately on the caller's
// goroutine. It suits tests and one-shot CLI commands.
type Inline struct{}

func (Inline) Go(job func() func()) {
	if next := job(); next != nil {
		next()
	}
}
