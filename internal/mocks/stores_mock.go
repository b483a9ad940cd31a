package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"

	"github.com/stretchr/testify/mock"
)

// MockQuotaStore is a mock implementation of core.QuotaStore
type MockQuotaStore struct {
	mock.Mock
}

var _ core.QuotaStore = (*MockQuotaStore)(nil)

func (m *MockQuotaStore) Increment(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	args := m.Called(ctx, key, expireAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotaStore) Decrement(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockQuotaStore) Get(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockRefreshTokenStore is a mock implementation of core.RefreshTokenStore
type MockRefreshTokenStore struct {
	mock.Mock
}

var _ core.RefreshTokenStore = (*MockRefreshTokenStore)(nil)

func (m *MockRefreshTokenStore) Save(ctx context.Context, jti string, userID string, ttl time.Duration) error {
	return m.Called(ctx, jti, userID, ttl).Error(0)
}

func (m *MockRefreshTokenStore) Consume(ctx context.Context, jti string) (string, error) {
	args := m.Called(ctx, jti)
	return args.String(0), args.Error(1)
}

func (m *MockRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	return m.Called(ctx, jti).Error(0)
}
