package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockGoogleTokenVerifier is a mock implementation of core.GoogleTokenVerifier
type MockGoogleTokenVerifier struct {
	mock.Mock
}

var _ core.GoogleTokenVerifier = (*MockGoogleTokenVerifier)(nil)

func (m *MockGoogleTokenVerifier) Verify(ctx context.Context, idToken string) (*models.GoogleIdentity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GoogleIdentity), args.Error(1)
}

// MockPurchaseVerifier is a mock implementation of core.PurchaseVerifier
type MockPurchaseVerifier struct {
	mock.Mock
}

var _ core.PurchaseVerifier = (*MockPurchaseVerifier)(nil)

func (m *MockPurchaseVerifier) GetSubscription(ctx context.Context, purchaseToken string) (*models.PlayPurchase, error) {
	args := m.Called(ctx, purchaseToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayPurchase), args.Error(1)
}

func (m *MockPurchaseVerifier) Acknowledge(ctx context.Context, productID string, purchaseToken string) error {
	return m.Called(ctx, productID, purchaseToken).Error(0)
}

// MockMediaSigner is a mock implementation of core.MediaSigner
type MockMediaSigner struct {
	mock.Mock
}

var _ core.MediaSigner = (*MockMediaSigner)(nil)

func (m *MockMediaSigner) SignedUploadURL(ctx context.Context, objectName string, contentType string, maxBytes int64, expiresAt time.Time) (string, error) {
	args := m.Called(ctx, objectName, contentType, maxBytes, expiresAt)
	return args.String(0), args.Error(1)
}

func (m *MockMediaSigner) PublicURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}

// MockEventPublisher is a mock implementation of core.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

var _ core.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) PublishToUsers(userIDs []string, event models.RealtimeEvent) {
	m.Called(userIDs, event)
}
