package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockFriendRepository is a mock implementation of core.FriendRepository
type MockFriendRepository struct {
	mock.Mock
}

var _ core.FriendRepository = (*MockFriendRepository)(nil)

func (m *MockFriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockFriendRepository) GetRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) PendingBetween(ctx context.Context, a string, b string) (*models.FriendRequest, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) ListPending(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID, incoming)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) UpdateRequestStatus(ctx context.Context, id string, from models.FriendRequestStatus, to models.FriendRequestStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

func (m *MockFriendRepository) CreateFriendship(ctx context.Context, a string, b string, at time.Time) error {
	return m.Called(ctx, a, b, at).Error(0)
}

func (m *MockFriendRepository) AreFriends(ctx context.Context, a string, b string) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Friend), args.Error(1)
}

func (m *MockFriendRepository) DeleteFriendship(ctx context.Context, a string, b string) error {
	return m.Called(ctx, a, b).Error(0)
}
