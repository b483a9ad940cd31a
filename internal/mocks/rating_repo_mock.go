package mocks

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockRatingRepository is a mock implementation of core.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

var _ core.RatingRepository = (*MockRatingRepository)(nil)

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockRatingRepository) ListByRatee(ctx context.Context, rateeID string, limit int, offset int) ([]models.Rating, int, error) {
	args := m.Called(ctx, rateeID, limit, offset)
	var r0 []models.Rating
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Rating)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockRatingRepository) Summary(ctx context.Context, rateeID string) (*models.RatingSummary, error) {
	args := m.Called(ctx, rateeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingSummary), args.Error(1)
}
