package db

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/freeflow/internal/clock"
	"github.com/ramanasai/freeflow/internal/encryption"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T, opts ...Option) (*Store, *clock.Fake) {
	t.Helper()
	dbh, err := Open(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	fc := clock.NewFake(epoch)
	opts = append([]Option{WithClock(fc), WithLogger(quietLogger())}, opts...)
	return NewStore(dbh, opts...), fc
}

func TestStoreCreateAndGet(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "first words")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	e, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first words", e.Content)
	assert.True(t, e.CreatedAt.Equal(epoch))
	assert.True(t, e.UpdatedAt.Equal(e.CreatedAt))
	assert.Equal(t, DefaultFont, e.Font)
	assert.Equal(t, DefaultSize, e.Size)
}

func TestStoreGetMissing(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUpdateRefreshesUpdatedAt(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "")
	require.NoError(t, err)

	fc.Advance(time.Minute)
	require.NoError(t, s.Update(ctx, id, ContentPatch("hello")))
	e, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", e.Content)
	assert.True(t, e.CreatedAt.Equal(epoch))
	assert.True(t, e.UpdatedAt.Equal(epoch.Add(time.Minute)))

	fc.Advance(time.Minute)
	require.NoError(t, s.Update(ctx, id, StylePatch("Arial", 22)))
	e, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", e.Content)
	assert.Equal(t, "Arial", e.Font)
	assert.Equal(t, 22, e.Size)
	assert.True(t, e.UpdatedAt.Equal(epoch.Add(2*time.Minute)))
	assert.Equal(t, id, e.ID)
}

func TestStoreUpdateNeverBelowCreatedAt(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	id, err := s.Create(ctx, "x")
	require.NoError(t, err)

	// A clock that went backwards must not produce updatedAt < createdAt.
	s.clock = clock.NewFake(epoch.Add(-time.Hour))
	require.NoError(t, s.Update(ctx, id, ContentPatch("y")))
	e, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, e.UpdatedAt.Before(e.CreatedAt))
}

func TestStoreUpdateMissingReportsDeleted(t *testing.T) {
	s, _ := openTestStore(t)
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	assert.NoError(t, s.Update(context.Background(), "gone", ContentPatch("late write")))
	assert.Equal(t, []Change{{Deleted, "gone"}}, changes)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreListOrder(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, "a")
	fc.Advance(time.Second)
	b, _ := s.Create(ctx, "b")
	c, _ := s.Create(ctx, "c") // same instant as b
	fc.Advance(time.Second)

	// Editing the oldest entry does not move it.
	require.NoError(t, s.Update(ctx, a, ContentPatch("a, edited")))

	list, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{c, b, a}, ids)
}

func TestStoreDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	id, _ := s.Create(ctx, "bye")

	require.NoError(t, s.Delete(ctx, id))
	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete(ctx, id))
}

func TestStoreNotifications(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })

	id, _ := s.Create(ctx, "")
	_ = s.Update(ctx, id, ContentPatch("x"))
	_ = s.Delete(ctx, id)
	assert.Equal(t, []Change{{Created, id}, {Updated, id}, {Deleted, id}}, changes)

	unsubscribe()
	_, _ = s.Create(ctx, "")
	assert.Len(t, changes, 3)
}

func TestStoreCreateGuardRejectsReentry(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	var nested error
	s.Subscribe(func(c Change) {
		if c.Kind == Created {
			_, nested = s.Create(ctx, "again")
		}
	})

	_, err := s.Create(ctx, "once")
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrCreateInFlight)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreEncryptedContent(t *testing.T) {
	enc := encryption.NewEncryptorWithSalt("pw", make([]byte, encryption.SaltSize))
	s, _ := openTestStore(t, WithEncryptor(enc))
	ctx := context.Background()

	id, err := s.Create(ctx, "private")
	require.NoError(t, err)

	var raw string
	require.NoError(t, s.db.QueryRow(`SELECT content FROM entries WHERE id = ?`, id).Scan(&raw))
	assert.NotEqual(t, "private", raw)

	e, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "private", e.Content)

	locked := NewStore(s.db, WithLogger(quietLogger()))
	_, err = locked.Get(ctx, id)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Entry{}.Preview())
	assert.Equal(t, "one two", Entry{Content: "one\ntwo"}.Preview())
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz0123...", Entry{Content: long}.Preview())
}

func TestShortDate(t *testing.T) {
	e := Entry{CreatedAt: epoch}
	assert.Equal(t, "Mar 1", e.ShortDate(time.UTC))
}
