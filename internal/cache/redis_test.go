package cache

import (
	"context"
	"testing"
	"time"

	"pocaswap-api/internal/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestQuotaStoreIncrementSetsExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewQuotaStore(rdb)
	ctx := context.Background()

	expireAt := time.Now().Add(2 * time.Hour)
	n, err := store.Increment(ctx, "nearby_quota:u1:20260101", expireAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Increment(ctx, "nearby_quota:u1:20260101", expireAt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl := mr.TTL("nearby_quota:u1:20260101")
	assert.Greater(t, ttl, time.Hour)
	assert.LessOrEqual(t, ttl, 2*time.Hour)

	require.NoError(t, store.Decrement(ctx, "nearby_quota:u1:20260101"))
	got, err := store.Get(ctx, "nearby_quota:u1:20260101")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	mr.FastForward(3 * time.Hour)
	got, err = store.Get(ctx, "nearby_quota:u1:20260101")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestQuotaStoreGetMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	n, err := NewQuotaStore(rdb).Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestQuotaStoreUpstreamError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	_, err := NewQuotaStore(rdb).Increment(context.Background(), "k", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, errs.ErrUpstream)
}

func TestRefreshTokenStoreSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRefreshTokenStore(rdb)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", "user-1", time.Hour))
	assert.True(t, mr.Exists(refreshTokenPrefix+"jti-1"))

	userID, err := store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = store.Consume(ctx, "jti-1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRefreshTokenStoreRevokeAndExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRefreshTokenStore(rdb)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-2", "user-2", time.Minute))
	require.NoError(t, store.Revoke(ctx, "jti-2"))
	_, err := store.Consume(ctx, "jti-2")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// Revoking an unknown id is not an error.
	require.NoError(t, store.Revoke(ctx, "never-issued"))

	require.NoError(t, store.Save(ctx, "jti-3", "user-3", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Consume(ctx, "jti-3")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
