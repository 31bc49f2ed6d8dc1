package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/db"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSQLiteStore(database)
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", `{"a":1}`))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)

	require.NoError(t, s.Set(ctx, "k", "second"))
	v, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	require.NoError(t, s.Remove(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "k"), "removing an absent key")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, newSQLite(t))
}

func TestSQLiteStore_EntriesTrackSize(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "b", "12345"))
	require.NoError(t, s.Set(ctx, "a", "xy"))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, 2, entries[0].SizeBytes)
	assert.Equal(t, 5, entries[1].SizeBytes)
	assert.False(t, entries[1].UpdatedAt.IsZero())
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/store.db"
	ctx := context.Background()

	first, err := db.OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(first).Set(ctx, "current_draft", "{}"))
	require.NoError(t, first.Close())

	second, err := db.OpenDB(path)
	require.NoError(t, err)
	defer second.Close()
	v, ok, err := NewSQLiteStore(second).Get(ctx, "current_draft")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", v)
}

func TestPrefixed_ScopesKeys(t *testing.T) {
	mem := NewMemoryStore()
	ctx := context.Background()
	a := Prefixed(mem, "app-a")
	b := Prefixed(mem, "app-b")

	require.NoError(t, a.Set(ctx, "current_draft", "A"))
	require.NoError(t, b.Set(ctx, "current_draft", "B"))

	va, _, _ := a.Get(ctx, "current_draft")
	vb, _, _ := b.Get(ctx, "current_draft")
	assert.Equal(t, "A", va)
	assert.Equal(t, "B", vb)
	assert.ElementsMatch(t, []string{"app-a:current_draft", "app-b:current_draft"}, mem.Keys())

	assert.Same(t, mem, Prefixed(mem, "").(*MemoryStore))
	exerciseStore(t, a)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("FORMDRAFT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FORMDRAFT_TEST_REDIS_URL not set")
	}
	s, err := ConnectRedis(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, Prefixed(s, "formdraft-test"))
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
