package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockChatRepository is a mock implementation of core.ChatRepository
type MockChatRepository struct {
	mock.Mock
}

var _ core.ChatRepository = (*MockChatRepository)(nil)

func (m *MockChatRepository) GetOrCreateDirectRoom(ctx context.Context, a string, b string) (*models.ChatRoom, bool, error) {
	args := m.Called(ctx, a, b)
	var r0 *models.ChatRoom
	if v := args.Get(0); v != nil {
		r0 = v.(*models.ChatRoom)
	}
	return r0, args.Bool(1), args.Error(2)
}

func (m *MockChatRepository) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomSummary), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockChatRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error) {
	args := m.Called(ctx, roomID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, roomID string, userID string, at time.Time) error {
	return m.Called(ctx, roomID, userID, at).Error(0)
}
