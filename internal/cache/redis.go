// Package cache holds the Redis-backed stores: daily quota counters and
// refresh token ids.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"

	"github.com/go-redis/redis/v8"
)

const refreshTokenPrefix = "refresh_token:"

type RedisQuotaStore struct {
	rdb *redis.Client
}

func NewQuotaStore(rdb *redis.Client) core.QuotaStore {
	return &RedisQuotaStore{rdb: rdb}
}

// Increment bumps the counter and sets EXPIREAT in one MULTI block. Every call
// writes the same absolute deadline for a given day key, so repeating it is harmless.
func (s *RedisQuotaStore) Increment(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, expireAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: quota increment: %v", errs.ErrUpstream, err)
	}
	return incr.Val(), nil
}

func (s *RedisQuotaStore) Decrement(ctx context.Context, key string) error {
	if err := s.rdb.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: quota decrement: %v", errs.ErrUpstream, err)
	}
	return nil
}

func (s *RedisQuotaStore) Get(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: quota read: %v", errs.ErrUpstream, err)
	}
	return n, nil
}

type RedisRefreshTokenStore struct {
	rdb *redis.Client
}

func NewRefreshTokenStore(rdb *redis.Client) core.RefreshTokenStore {
	return &RedisRefreshTokenStore{rdb: rdb}
}

func (s *RedisRefreshTokenStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshTokenPrefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save refresh token: %v", errs.ErrUpstream, err)
	}
	return nil
}

// Consume is GETDEL so a refresh token id can be redeemed once.
func (s *RedisRefreshTokenStore) Consume(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, refreshTokenPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: consume refresh token: %v", errs.ErrUpstream, err)
	}
	return userID, nil
}

func (s *RedisRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, refreshTokenPrefix+jti).Err(); err != nil {
		return fmt.Errorf("%w: revoke refresh token: %v", errs.ErrUpstream, err)
	}
	return nil
}
