package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisFromClient(rdb), srv
}

func TestRedis_GetMissingKey(t *testing.T) {
	c, _ := newTestRedis(t)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_SetGetDelete(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "otp:a@x.com", "4821", 5*time.Minute))
	v, err := c.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "4821", v)

	require.NoError(t, c.Delete(ctx, "otp:a@x.com"))
	_, err = c.Get(ctx, "otp:a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_ExpiryRemovesKey(t *testing.T) {
	c, srv := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "otp:a@x.com", "4821", 5*time.Minute))
	srv.FastForward(5*time.Minute + time.Second)

	_, err := c.Get(ctx, "otp:a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_SetKeepKeepsRemainingTTL(t *testing.T) {
	c, srv := newTestRedis(t)
	ctx := context.Background()

	// Window anchored at first write: the rewrite must not restart the
	// expiry clock, and the fallback must not extend it.
	require.NoError(t, c.Set(ctx, "otp_request_count:a@x.com", "1", time.Hour))
	srv.FastForward(30 * time.Minute)
	require.NoError(t, c.SetKeep(ctx, "otp_request_count:a@x.com", "2", time.Hour))

	srv.FastForward(30*time.Minute + time.Second)
	_, err := c.Get(ctx, "otp_request_count:a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_SetKeepOnFreshKeyGetsFallback(t *testing.T) {
	c, srv := newTestRedis(t)
	ctx := context.Background()

	// KEEPTTL on an absent key leaves it persistent; the fallback window
	// must apply so the counter cannot outlive it.
	require.NoError(t, c.SetKeep(ctx, "otp_request_count:a@x.com", "1", time.Hour))

	v, err := c.Get(ctx, "otp_request_count:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	srv.FastForward(time.Hour + time.Second)
	_, err = c.Get(ctx, "otp_request_count:a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_DeleteMissingIsNoError(t *testing.T) {
	c, _ := newTestRedis(t)
	assert.NoError(t, c.Delete(context.Background(), "ghost", "ghost2"))
	assert.NoError(t, c.Delete(context.Background()))
}
