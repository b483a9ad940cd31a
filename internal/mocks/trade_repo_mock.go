package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockTradeRepository is a mock implementation of core.TradeRepository
type MockTradeRepository struct {
	mock.Mock
}

var _ core.TradeRepository = (*MockTradeRepository)(nil)

func (m *MockTradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	return m.Called(ctx, trade).Error(0)
}

func (m *MockTradeRepository) GetByID(ctx context.Context, id string) (*models.Trade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockTradeRepository) List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, int, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Trade
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Trade)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockTradeRepository) Transition(ctx context.Context, id string, from models.TradeStatus, to models.TradeStatus, at time.Time) error {
	return m.Called(ctx, id, from, to, at).Error(0)
}

func (m *MockTradeRepository) SetChatRoom(ctx context.Context, id string, roomID string) error {
	return m.Called(ctx, id, roomID).Error(0)
}

func (m *MockTradeRepository) HasOpenTradeForCard(ctx context.Context, cardID string) (bool, error) {
	args := m.Called(ctx, cardID)
	return args.Bool(0), args.Error(1)
}
