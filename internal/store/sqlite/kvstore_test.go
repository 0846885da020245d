package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/neighborly/internal/core/kv"
)

func setupTestStore(t *testing.T) *KVStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestKVStore_SetGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "neighborly_viewed_products", `[{"id":"1","timestamp":5}]`))

	entry, err := store.Get(ctx, "neighborly_viewed_products")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","timestamp":5}]`, entry.Value)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestKVStore_UpsertKeepsCreatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v1"))
	first, err := store.Get(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "k", "v2"))
	second, err := store.Get(ctx, "k")
	require.NoError(t, err)

	assert.Equal(t, "v2", second.Value)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestKVStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)
	require.ErrorIs(t, store.Delete(ctx, "missing"), kv.ErrKeyNotFound)
}

func TestKVStore_DeleteAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "neighborly_b", "x")
	_ = store.Set(ctx, "neighborly_a", "x")
	_ = store.Set(ctx, "other", "x")

	entries, err := store.List(ctx, "neighborly_")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "neighborly_a", entries[0].Key)

	require.NoError(t, store.Delete(ctx, "neighborly_a"))
	entries, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entry, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", entry.Value)
}
