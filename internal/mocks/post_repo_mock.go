package mocks

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of core.PostRepository
type MockPostRepository struct {
	mock.Mock
}

var _ core.PostRepository = (*MockPostRepository)(nil)

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) UpdateStatus(ctx context.Context, id string, status models.PostStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Post
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Post)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockPostRepository) FindNearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyPost, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NearbyPost), args.Error(1)
}

func (m *MockPostRepository) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, postID string, userID string) (*models.LikeResult, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeResult), args.Error(1)
}

func (m *MockPostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockPostRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockPostRepository) ListComments(ctx context.Context, postID string, limit int, offset int) ([]models.Comment, int, error) {
	args := m.Called(ctx, postID, limit, offset)
	var r0 []models.Comment
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Comment)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockPostRepository) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}
