package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/freeflow/internal/clock"
	"github.com/ramanasai/freeflow/internal/encryption"
)

var (
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("entry not found")
	// ErrCreateInFlight is returned when Create is called while another
	// Create has not finished. No entry is inserted.
	ErrCreateInFlight = errors.New("entry creation already in progress")
	// ErrLocked is returned when encrypted content is read without a key.
	ErrLocked = errors.New("entry is encrypted and no passphrase is configured")
)

// ChangeKind tells observers what happened to an entry.
type ChangeKind int

const (
	Created ChangeKind = iota
	Updated
	Deleted
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Change is delivered to subscribers after every successful mutation.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Store is the durable entry collection.
type Store struct {
	db     *sql.DB
	clock  clock.Clock
	logger *slog.Logger
	enc    *encryption.Encryptor
	newID  func() string

	creating atomic.Bool

	mu        sync.Mutex
	nextSub   int
	observers map[int]func(Change)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the time source for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithEncryptor seals content at rest.
func WithEncryptor(e *encryption.Encryptor) Option {
	return func(s *Store) { s.enc = e }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// NewStore wraps an opened database.
func NewStore(dbh *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:        dbh,
		clock:     clock.Real{},
		logger:    slog.Default(),
		newID:     uuid.NewString,
		observers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that performed the mutation.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	key := s.nextSub
	s.observers[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, key)
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Create inserts a new entry holding initial and returns its id.
func (s *Store) Create(ctx context.Context, initial string) (string, error) {
	if !s.creating.CompareAndSwap(false, true) {
		return "", ErrCreateInFlight
	}
	defer s.creating.Store(false)

	content, sealed, err := s.seal(initial)
	if err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}

	id := s.newID()
	now := s.clock.Now().UTC().UnixNano()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (id, content, created_at, updated_at, encrypted)
		VALUES (?, ?, ?, ?, ?)
	`, id, content, now, now, sealed)
	if err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}

	s.logger.Debug("entry created", "id", id)
	s.notify(Change{Kind: Created, ID: id})
	return id, nil
}

// Update merges p into the entry and refreshes its update time. An unknown
// id is not an error: the entry was deleted while the write was pending.
// Subscribers get a Deleted change so they can drop it.
func (s *Store) Update(ctx context.Context, id string, p Patch) error {
	if p.empty() {
		return nil
	}

	sets := []string{"updated_at = MAX(created_at, ?)"}
	args := []any{s.clock.Now().UTC().UnixNano()}
	if p.Content != nil {
		content, sealed, err := s.seal(*p.Content)
		if err != nil {
			return fmt.Errorf("update entry %s: %w", id, err)
		}
		sets = append(sets, "content = ?", "encrypted = ?")
		args = append(args, content, sealed)
	}
	if p.Font != nil {
		sets = append(sets, "font = ?")
		args = append(args, *p.Font)
	}
	if p.Size != nil {
		sets = append(sets, "size = ?")
		args = append(args, *p.Size)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Warn("update skipped, entry no longer exists", "id", id)
		s.notify(Change{Kind: Deleted, ID: id})
		return nil
	}

	s.notify(Change{Kind: Updated, ID: id})
	return nil
}

// Delete removes the entry. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	s.logger.Debug("entry deleted", "id", id)
	s.notify(Change{Kind: Deleted, ID: id})
	return nil
}

const selectEntry = `SELECT id, content, created_at, updated_at, font, size, encrypted FROM entries`

// Get returns one entry by id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	e, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// List returns every entry, most recently created first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(r scanner) (Entry, error) {
	var (
		e                Entry
		created, updated int64
		font             sql.NullString
		size             sql.NullInt64
		sealed           bool
	)
	if err := r.Scan(&e.ID, &e.Content, &created, &updated, &font, &size, &sealed); err != nil {
		return Entry{}, err
	}
	e.CreatedAt = time.Unix(0, created)
	e.UpdatedAt = time.Unix(0, updated)
	e.Font = DefaultFont
	if font.Valid && font.String != "" {
		e.Font = font.String
	}
	e.Size = DefaultSize
	if size.Valid && size.Int64 > 0 {
		e.Size = int(size.Int64)
	}
	if sealed {
		plain, err := s.open(e.Content)
		if err != nil {
			return Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		e.Content = plain
	}
	return e, nil
}

func (s *Store) seal(content string) (string, bool, error) {
	if s.enc == nil || content == "" {
		return content, false, nil
	}
	out, err := s.enc.Encrypt(content)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

func (s *Store) open(content string) (string, error) {
	if s.enc == nil {
		return "", ErrLocked
	}
	return s.enc.Decrypt(content)
}
