package adapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

func openTestStore(t *testing.T) SessionStore {
	t.Helper()

	store, err := OpenSessionStore(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, m.Session{
		Strings: []string{"john", "sam"},
		Dates:   []string{"5/3/1990"},
		Numbers: []string{"7"},
		Filter:  m.FilterConfig{MinLength: 8, RequireSymbol: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"john", "sam"}, got.Strings)
	assert.Equal(t, []string{"5/3/1990"}, got.Dates)
	assert.Equal(t, []string{"7"}, got.Numbers)
	assert.Equal(t, m.FilterConfig{MinLength: 8, RequireSymbol: true}, got.Filter)
	assert.Equal(t, m.Cursor{}, got.Cursor)
	assert.False(t, got.Completed)
}

func TestSessionStore_GetUnknownID(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, m.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, m.ErrSessionNotFound)
}

func TestSessionStore_UpdateProgress(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)

	cursor := m.Cursor{RuleIndex: 3, Offset: 412}
	require.NoError(t, store.UpdateProgress(ctx, created.ID, cursor, 900, false))

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, cursor, got.Cursor)
	assert.Equal(t, uint64(900), got.TotalGenerated)
	assert.False(t, got.Completed)

	require.NoError(t, store.UpdateProgress(ctx, created.ID, cursor, 900, true))

	got, err = store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestSessionStore_UpdateProgressUnknownID(t *testing.T) {
	store := openTestStore(t)

	err := store.UpdateProgress(context.Background(), "nope", m.Cursor{}, 0, false)
	assert.ErrorIs(t, err, m.ErrSessionNotFound)
}

func TestSessionStore_AppendOutputFile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)

	require.NoError(t, store.AppendOutputFile(ctx, created.ID, "wordlists/run1.txt"))
	require.NoError(t, store.AppendOutputFile(ctx, created.ID, "wordlists/run2.txt"))

	// Appending a known file again does not duplicate it.
	require.NoError(t, store.AppendOutputFile(ctx, created.ID, "wordlists/run1.txt"))

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wordlists/run1.txt", "wordlists/run2.txt"}, got.OutputFiles)
}

func TestSessionStore_Reset(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)
	require.NoError(t, store.UpdateProgress(ctx, created.ID, m.Cursor{RuleIndex: 1, Offset: 5}, 10, true))

	require.NoError(t, store.Reset(ctx, created.ID))

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Cursor{}, got.Cursor)
	assert.Equal(t, uint64(0), got.TotalGenerated)
	assert.False(t, got.Completed)

	// The inputs survive a reset.
	assert.Equal(t, []string{"john"}, got.Strings)
}

func TestSessionStore_List(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)

	second, err := store.Create(ctx, m.Session{Strings: []string{"sam"}})
	require.NoError(t, err)

	// Touching the first session moves it to the front. Created-at is
	// second resolution, so give the update a strictly later timestamp.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.UpdateProgress(ctx, first.ID, m.Cursor{Offset: 1}, 1, false))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)
}

func TestSessionStore_CorruptRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)

	sqlStore, ok := store.(*sqliteSessionStore)
	require.True(t, ok)

	_, err = sqlStore.db.ExecContext(ctx, `UPDATE sessions SET strings_json = 'not json' WHERE session_id = ?`, created.ID)
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)

	var corrupt *m.SessionCorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, created.ID, corrupt.ID)

	// The partially decoded record still names the session.
	assert.Equal(t, created.ID, got.ID)

	// Listing keeps corrupt rows so the user can see and reset them.
	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")

	store, err := OpenSessionStore(path)
	require.NoError(t, err)

	created, err := store.Create(context.Background(), m.Session{Strings: []string{"john"}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = OpenSessionStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"john"}, got.Strings)
}

func TestNewSessionID(t *testing.T) {
	first := NewSessionID()
	second := NewSessionID()

	assert.Len(t, first, 12)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "-")
}
