// Package editor tracks which entry is open, mirrors the editor text into
// the store with a debounce, and owns the delete confirmation gate.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ramanasai/freeflow/internal/clock"
	"github.com/ramanasai/freeflow/internal/db"
)

// DefaultAutosaveDelay is the quiet period before typed text is persisted.
const DefaultAutosaveDelay = 750 * time.Millisecond

// Store is the persistence the controller needs.
type Store interface {
	Create(ctx context.Context, initial string) (string, error)
	Get(ctx context.Context, id string) (db.Entry, error)
	Update(ctx context.Context, id string, p db.Patch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]db.Entry, error)
	Subscribe(fn func(db.Change)) (unsubscribe func())
}

// State is everything the view needs to render the editor.
type State struct {
	SelectedID    string
	Text          string
	Persisted     string
	Font          string
	Size          int
	Placeholder   string
	PendingDelete string
	Entries       []db.Entry
}

// Controller owns State. All methods must be called from the event loop.
type Controller struct {
	store    Store
	loop     Loop
	clock    clock.Clock
	logger   *slog.Logger
	delay    time.Duration
	intn     func(n int) int
	notifier func(string)

	defaultFont string
	defaultSize int

	ctx         context.Context
	autosave    *clock.Debouncer
	unsubscribe func()

	state    State
	creating bool

	// The content write still waiting for the store, if any.
	sentID, sentText string
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock sets the clock the autosave debounce runs on.
func WithClock(cl clock.Clock) Option {
	return func(c *Controller) { c.clock = cl }
}

func WithAutosaveDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithRand replaces the placeholder picker; intn must return [0, n).
func WithRand(intn func(n int) int) Option {
	return func(c *Controller) { c.intn = intn }
}

// WithNotifier receives short messages about failed user actions.
func WithNotifier(fn func(string)) Option {
	return func(c *Controller) { c.notifier = fn }
}

// WithDefaultStyle sets the style of new entries and of the empty editor.
func WithDefaultStyle(font string, size int) Option {
	return func(c *Controller) {
		c.defaultFont, c.defaultSize = font, size
	}
}

// New builds a controller and subscribes it to store changes. Call Load to
// populate it.
func New(store Store, loop Loop, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		loop:        loop,
		clock:       clock.Real{},
		logger:      slog.Default(),
		delay:       DefaultAutosaveDelay,
		intn:        rand.IntN,
		notifier:    func(string) {},
		defaultFont: db.DefaultFont,
		defaultSize: db.DefaultSize,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.autosave = clock.NewDebouncer(c.clock, c.delay)
	c.state.Font, c.state.Size = c.defaultFont, c.defaultSize
	c.state.Placeholder = c.randomPlaceholder()
	c.unsubscribe = store.Subscribe(c.storeChanged)
	return c
}

// State returns a snapshot of the controller state.
func (c *Controller) State() State {
	s := c.state
	s.Entries = append([]db.Entry(nil), c.state.Entries...)
	return s
}

// Dirty reports whether the open entry has text the store has not seen.
func (c *Controller) Dirty() bool {
	return c.state.SelectedID != "" && c.state.Text != c.state.Persisted
}

// CanSave reports whether Save would do anything.
func (c *Controller) CanSave() bool {
	if c.state.SelectedID == "" {
		return c.state.Text != "" && !c.creating
	}
	return c.unsent()
}

// AutosavePending reports whether a debounced write is armed.
func (c *Controller) AutosavePending() bool { return c.autosave.Pending() }

// Load reads the entry list and opens the most recent entry when nothing is
// open. An empty store leaves the editor empty; nothing is created.
func (c *Controller) Load() {
	c.loop.Go(func() func() {
		entries, err := c.store.List(c.ctx)
		return func() {
			if err != nil {
				c.logger.Error("load entries", "err", err)
				c.notice("Could not load entries")
				return
			}
			c.state.Entries = entries
			if c.state.SelectedID == "" && len(entries) > 0 {
				c.open(entries[0])
			}
		}
	})
}

// Select opens the entry with id. If it no longer exists the most recent
// remaining entry is opened, or the editor is emptied.
func (c *Controller) Select(id string) {
	if id == "" || id == c.state.SelectedID {
		return
	}
	c.flush()
	c.loop.Go(func() func() {
		e, err := c.store.Get(c.ctx, id)
		return func() {
			switch {
			case err == nil:
				c.flush()
				c.open(e)
			case errors.Is(err, db.ErrNotFound):
				c.logger.Info("selected entry vanished, falling back", "id", id)
				c.fallback(withoutID(c.state.Entries, id))
			default:
				c.logger.Error("open entry", "id", id, "err", err)
				c.notice("Could not open entry")
			}
		}
	})
}

// SelectRelative moves the selection delta places through the entry list.
func (c *Controller) SelectRelative(delta int) {
	entries := c.state.Entries
	if len(entries) == 0 {
		return
	}
	idx := indexOf(entries, c.state.SelectedID)
	if idx < 0 {
		c.Select(entries[0].ID)
		return
	}
	next := idx + delta
	if next < 0 || next >= len(entries) {
		return
	}
	c.Select(entries[next].ID)
}

// Type replaces the transient text and schedules a debounced write for the
// open entry. Without an open entry nothing is scheduled.
func (c *Controller) Type(text string) {
	c.state.Text = text
	id := c.state.SelectedID
	if id == "" {
		return
	}
	c.autosave.Schedule(func() { c.persist(id, text, false) })
}

// Save writes the transient text now. With no open entry and some text, a
// new entry seeded with the text is created and opened.
func (c *Controller) Save() {
	if c.state.SelectedID == "" {
		if c.state.Text == "" {
			return
		}
		c.create(c.state.Text, c.state.Font, c.state.Size)
		return
	}
	if !c.unsent() {
		return
	}
	c.autosave.Cancel()
	c.persist(c.state.SelectedID, c.state.Text, true)
}

// NewEntry creates an empty entry and opens it.
func (c *Controller) NewEntry() {
	if c.creating {
		return
	}
	c.flush()
	c.state.SelectedID = ""
	c.state.Text, c.state.Persisted = "", ""
	c.state.Font, c.state.Size = c.defaultFont, c.defaultSize
	c.state.Placeholder = c.randomPlaceholder()
	c.create("", c.defaultFont, c.defaultSize)
}

// SetStyle changes the display style and persists it immediately.
func (c *Controller) SetStyle(font string, size int) {
	c.state.Font, c.state.Size = font, size
	id := c.state.SelectedID
	if id == "" {
		return
	}
	c.loop.Go(func() func() {
		err := c.store.Update(c.ctx, id, db.StylePatch(font, size))
		return func() {
			if err != nil {
				c.logger.Error("save style", "id", id, "err", err)
				c.notice("Could not save style")
			}
		}
	})
}

// CycleFont switches to the next font option.
func (c *Controller) CycleFont() { c.SetStyle(NextFont(c.state.Font), c.state.Size) }

// CycleSize switches to the next size option.
func (c *Controller) CycleSize() { c.SetStyle(c.state.Font, NextSize(c.state.Size)) }

// RequestDelete asks for confirmation before id is deleted.
func (c *Controller) RequestDelete(id string) {
	if id == "" {
		return
	}
	c.state.PendingDelete = id
}

// ResolveDelete answers the pending confirmation. Only a yes deletes.
func (c *Controller) ResolveDelete(confirmed bool) {
	id := c.state.PendingDelete
	c.state.PendingDelete = ""
	if !confirmed || id == "" {
		return
	}
	if id == c.state.SelectedID {
		c.autosave.Cancel()
	}
	c.loop.Go(func() func() {
		err := c.store.Delete(c.ctx, id)
		var (
			entries []db.Entry
			listErr error
		)
		if err == nil {
			entries, listErr = c.store.List(c.ctx)
		}
		return func() {
			if err != nil {
				c.logger.Error("delete entry", "id", id, "err", err)
				c.notice("Could not delete entry")
				return
			}
			if listErr != nil {
				c.logger.Error("reload after delete", "err", listErr)
				entries = withoutID(c.state.Entries, id)
			}
			c.state.Entries = entries
			if c.state.SelectedID == id {
				c.fallback(entries)
			}
		}
	})
}

// Close writes any pending text synchronously and stops listening to the
// store. It is meant for shutdown, after the event loop stopped.
func (c *Controller) Close() error {
	c.unsubscribe()
	c.autosave.Cancel()
	if !c.Dirty() {
		return nil
	}
	return c.store.Update(c.ctx, c.state.SelectedID, db.ContentPatch(c.state.Text))
}

// create provisions an entry seeded with text and opens it once stored.
func (c *Controller) create(text, font string, size int) {
	if c.creating {
		return
	}
	c.creating = true
	c.loop.Go(func() func() {
		id, err := c.store.Create(c.ctx, text)
		if err == nil && (font != db.DefaultFont || size != db.DefaultSize) {
			if serr := c.store.Update(c.ctx, id, db.StylePatch(font, size)); serr != nil {
				c.logger.Error("save style of new entry", "id", id, "err", serr)
			}
		}
		return func() {
			c.creating = false
			switch {
			case errors.Is(err, db.ErrCreateInFlight):
				return
			case err != nil:
				c.logger.Error("create entry", "err", err)
				c.notice("Could not create entry")
				return
			}
			if c.state.SelectedID != "" {
				// Another entry was opened while this one was being stored.
				return
			}
			c.state.SelectedID = id
			c.state.Persisted = text
			c.state.Font, c.state.Size = font, size
			if !containsID(c.state.Entries, id) {
				c.state.Entries = append([]db.Entry{{ID: id, Content: text, Font: font, Size: size}}, c.state.Entries...)
			}
			if c.state.Text != text {
				current := c.state.Text
				c.autosave.Schedule(func() { c.persist(id, current, false) })
			}
		}
	})
}

// persist writes text to id. Failures are surfaced only for user actions.
func (c *Controller) persist(id, text string, userInitiated bool) {
	c.sentID, c.sentText = id, text
	c.loop.Go(func() func() {
		err := c.store.Update(c.ctx, id, db.ContentPatch(text))
		return func() {
			if c.sentID == id && c.sentText == text {
				c.sentID, c.sentText = "", ""
			}
			if err != nil {
				c.logger.Error("save entry", "id", id, "err", err)
				if userInitiated {
					c.notice("Could not save entry")
				}
				return
			}
			if c.state.SelectedID == id {
				c.state.Persisted = text
			}
		}
	})
}

// unsent reports whether the open entry has text that is neither stored nor
// already on its way to the store.
func (c *Controller) unsent() bool {
	if !c.Dirty() {
		return false
	}
	return c.sentID != c.state.SelectedID || c.sentText != c.state.Text
}

// flush turns a pending debounced write into an immediate one.
func (c *Controller) flush() {
	if c.autosave.Cancel() && c.unsent() {
		c.persist(c.state.SelectedID, c.state.Text, false)
	}
}

func (c *Controller) open(e db.Entry) {
	c.state.SelectedID = e.ID
	c.state.Text = e.Content
	c.state.Persisted = e.Content
	c.state.Font, c.state.Size = e.Font, e.Size
}

// fallback opens the most recent of entries, or empties the editor.
func (c *Controller) fallback(entries []db.Entry) {
	c.autosave.Cancel()
	if len(entries) > 0 {
		c.open(entries[0])
		return
	}
	c.state.SelectedID = ""
	c.state.Text, c.state.Persisted = "", ""
	c.state.Font, c.state.Size = c.defaultFont, c.defaultSize
	c.state.Placeholder = c.randomPlaceholder()
}

// storeChanged re-derives the entry list after any store mutation.
func (c *Controller) storeChanged(db.Change) {
	c.loop.Go(func() func() {
		entries, err := c.store.List(c.ctx)
		return func() {
			if err != nil {
				c.logger.Error("refresh entries", "err", err)
				return
			}
			c.state.Entries = entries
			if id := c.state.SelectedID; id != "" && !containsID(entries, id) {
				c.fallback(entries)
			}
		}
	})
}

func (c *Controller) notice(msg string) { c.notifier(msg) }

func (c *Controller) randomPlaceholder() string {
	return Placeholders[c.intn(len(Placeholders))]
}

func indexOf(entries []db.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func containsID(entries []db.Entry, id string) bool { return indexOf(entries, id) >= 0 }

func withoutID(entries []db.Entry, id string) []db.Entry {
	out := make([]db.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
