package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))

	entry, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", entry.Value)
	assert.False(t, entry.CreatedAt.After(entry.UpdatedAt))

	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.ErrorIs(t, m.Delete(ctx, "a"), ErrKeyNotFound)
}

func TestMemory_ListPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Set(ctx, "neighborly_b", "x")
	_ = m.Set(ctx, "neighborly_a", "x")
	_ = m.Set(ctx, "other", "x")

	entries, err := m.List(ctx, "neighborly_")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "neighborly_a", entries[0].Key)
	assert.Equal(t, "neighborly_b", entries[1].Key)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	var s Store = Unavailable{}

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), ErrUnavailable)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrUnavailable)
	_, err = s.List(ctx, "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
