package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository is a mock implementation of core.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

var _ core.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

func (m *MockSubscriptionRepository) GetByPurchaseToken(ctx context.Context, token string) (*models.Subscription, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) ActiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) MarkReplaced(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSubscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
