package mocks

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockGalleryRepository is a mock implementation of core.GalleryRepository
type MockGalleryRepository struct {
	mock.Mock
}

var _ core.GalleryRepository = (*MockGalleryRepository)(nil)

func (m *MockGalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockGalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryItem), args.Error(1)
}

func (m *MockGalleryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGalleryRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.GalleryItem, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	var r0 []models.GalleryItem
	if v := args.Get(0); v != nil {
		r0 = v.([]models.GalleryItem)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockGalleryRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
