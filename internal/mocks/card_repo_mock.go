package mocks

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of core.CardRepository
type MockCardRepository struct {
	mock.Mock
}

var _ core.CardRepository = (*MockCardRepository)(nil)

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Card, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card *models.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Card
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Card)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockCardRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) MarkTraded(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}
