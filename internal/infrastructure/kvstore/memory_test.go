package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_LazyExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	m.Advance(61 * time.Second)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SetKeepKeepsDeadline(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "count", "1", time.Minute))
	m.Advance(30 * time.Second)
	require.NoError(t, m.SetKeep(ctx, "count", "2", time.Hour))

	// The original one-minute deadline still holds; the fallback did not
	// extend it.
	m.Advance(31 * time.Second)
	_, err := m.Get(ctx, "count")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SetKeepOnFreshKeyGetsFallback(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetKeep(ctx, "count", "1", time.Hour))

	v, err := m.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// Without the fallback the fresh key would have no deadline and
	// survive forever.
	m.Advance(time.Hour + time.Second)
	_, err = m.Get(ctx, "count")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SetKeepAfterExpiryGetsFallback(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "count", "2", time.Minute))
	m.Advance(2 * time.Minute)

	// The key expired between the caller's read and this write; the
	// rewrite must start a fresh window, not resurrect an immortal key.
	require.NoError(t, m.SetKeep(ctx, "count", "3", time.Hour))
	m.Advance(time.Hour + time.Second)
	_, err := m.Get(ctx, "count")
	assert.ErrorIs(t, err, ErrNotFound)
}
