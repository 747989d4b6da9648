package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickethub/config"
	"tickethub/internal/status"
	"tickethub/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(&config.Config{DataDir: t.TempDir()})
	require.NoError(t, store.EnsureLayout())
	return store
}

func TestEnsureLayout(t *testing.T) {
	base := t.TempDir()
	store := NewStore(&config.Config{DataDir: filepath.Join(base, "Data")})

	require.NoError(t, store.EnsureLayout())

	assert.DirExists(t, filepath.Join(base, "Data", "Usuarios"))
	assert.DirExists(t, filepath.Join(base, "Data", "Eventos"))

	// idempotent
	require.NoError(t, store.EnsureLayout())
}

func TestSaveLoadUser_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	user := models.NewUser("alice", "hash", "Alice Silva", "12345678901", "alice@example.com", false)
	require.NoError(t, store.SaveUser(user))

	loaded, err := store.LoadUser("12345678901")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, user.Equal(loaded))
	assert.Equal(t, user.Username, loaded.Username)
	assert.Equal(t, user.Email, loaded.Email)
	assert.Empty(t, loaded.Tickets)
	assert.Empty(t, loaded.Receipts)
}

func TestLoadUser_SanitizedKey(t *testing.T) {
	store := newTestStore(t)

	user := models.NewUser("alice", "hash", "Alice", "12345678901", "a@example.com", false)
	require.NoError(t, store.SaveUser(user))

	// formatted and bare tax IDs address the same document
	loaded, err := store.LoadUser("123.456.789-01")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "12345678901", loaded.CPF)
}

func TestLoadUser_NotFound(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadUser("99999999999")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadUser_CorruptRecord(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.usersDir(), "12345678901.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	loaded, err := store.LoadUser("12345678901")
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, status.ErrCorruptRecord)
	assert.NotErrorIs(t, err, status.ErrStorage)
}

func TestLoadEvent_CorruptRecord(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.eventsDir(), "991231-Gala.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	loaded, err := store.LoadEvent("991231-Gala")
	assert.Nil(t, loaded)
	assert.ErrorIs(t, err, status.ErrCorruptRecord)
	assert.NotErrorIs(t, err, status.ErrStorage)
}

func TestSaveLoadEvent_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	date := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
	event, err := models.NewPricedEvent("Gala", "New year gala", date, 50, decimal.RequireFromString("120.50"))
	require.NoError(t, err)
	event.AddReview("alice", "great")

	require.NoError(t, store.SaveEvent(event))

	loaded, err := store.LoadEvent(event.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, event.Equal(loaded))
	assert.Equal(t, event.Remaining, loaded.Remaining)
	assert.True(t, event.Price.Equal(loaded.Price))
	assert.Equal(t, "great", loaded.Reviews["alice"])
	assert.True(t, event.Date.Equal(loaded.Date))
}

func TestLoadEvent_NotFound(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadEvent("991231-Nothing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSave_NoStrayTempFiles(t *testing.T) {
	store := newTestStore(t)

	user := models.NewUser("alice", "hash", "Alice", "12345678901", "a@example.com", false)
	require.NoError(t, store.SaveUser(user))
	require.NoError(t, store.SaveUser(user))

	entries, err := os.ReadDir(store.usersDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "12345678901.json", entries[0].Name())

	// the rename must not carry CreateTemp's restrictive mode over
	info, err := os.Stat(filepath.Join(store.usersDir(), entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestUpcomingEventIDs_FixedClock(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time {
		return time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)
	}

	past, err := models.NewEvent("Gala", "", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	today, err := models.NewEvent("Today", "", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	future, err := models.NewEvent("OldFest", "", time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)

	for _, e := range []*models.Event{past, today, future} {
		require.NoError(t, store.SaveEvent(e))
	}

	// a malformed prefix is skipped, not fatal
	require.NoError(t, os.WriteFile(filepath.Join(store.eventsDir(), "garbage-Event.json"), []byte("{}"), 0o644))

	var ids []string
	for id := range store.UpcomingEventIDs() {
		ids = append(ids, id)
	}

	assert.Equal(t, []string{"991231-OldFest"}, ids)
}

func TestUpcomingEventIDs_RestartableAndUncached(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time {
		return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	event, err := models.NewEvent("Fest", "", time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	require.NoError(t, store.SaveEvent(event))

	seq := store.UpcomingEventIDs()

	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 1, count)

	// a write between ranges is visible on the next scan
	second, err := models.NewEvent("Later", "", time.Date(2099, time.July, 1, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	require.NoError(t, store.SaveEvent(second))

	count = 0
	for range seq {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestUpcomingEventIDs_EarlyBreak(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time {
		return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	for _, name := range []string{"A", "B", "C"} {
		event, err := models.NewEvent(name, "", time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC), 10)
		require.NoError(t, err)
		require.NoError(t, store.SaveEvent(event))
	}

	count := 0
	for range store.UpcomingEventIDs() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
