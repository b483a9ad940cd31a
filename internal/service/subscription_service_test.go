package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/mocks"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "purchase-token-0123456789abcdef"

func newSubscriptionFixture() (*SubscriptionService, *mocks.MockSubscriptionRepository, *mocks.MockPurchaseVerifier) {
	repo := new(mocks.MockSubscriptionRepository)
	play := new(mocks.MockPurchaseVerifier)
	s := NewSubscriptionService(repo, play, testConfig(), nil, zerolog.Nop())
	s.now = fixedClock
	return s, repo, play
}

func activePurchase() *models.PlayPurchase {
	return &models.PlayPurchase{
		ProductID:    "premium_monthly",
		OrderID:      "GPA.1234",
		Status:       models.SubscriptionActive,
		AutoRenewing: true,
		StartedAt:    fixedNow.Add(-time.Hour),
		ExpiresAt:    fixedNow.Add(30 * 24 * time.Hour),
	}
}

func verifyRequest() models.VerifyReceiptRequest {
	return models.VerifyReceiptRequest{ProductID: "premium_monthly", PurchaseToken: testToken}
}

func TestSubscriptionService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NewToken", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(activePurchase(), nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
		play.On("Acknowledge", ctx, "premium_monthly", testToken).Return(nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(sub *models.Subscription) bool { return sub.Acknowledged })).Return(nil).Once()

		sub, err := s.Verify(ctx, "user-1", verifyRequest())

		require.NoError(t, err)
		assert.Equal(t, "user-1", sub.UserID)
		assert.Equal(t, models.SubscriptionActive, sub.Status)
		assert.Equal(t, models.PlatformGooglePlay, sub.Platform)
		assert.True(t, sub.Acknowledged)
		assert.True(t, sub.GrantsPremium(fixedNow))
		repo.AssertExpectations(t)
		play.AssertExpectations(t)
	})

	t.Run("Fail_ReplayFromOtherAccount", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		bound := &models.Subscription{UserID: "user-2", ProductID: "premium_monthly", PurchaseToken: testToken}
		repo.On("GetByPurchaseToken", ctx, testToken).Return(bound, nil).Once()

		sub, err := s.Verify(ctx, "user-1", verifyRequest())

		assert.ErrorIs(t, err, errs.ErrPurchaseTokenInUse)
		assert.Nil(t, sub)
		play.AssertNotCalled(t, "GetSubscription", ctx, testToken)
		repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Success_SameUserRefreshes", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		bound := &models.Subscription{
			ID: "sub-1", UserID: "user-1", ProductID: "premium_monthly", PurchaseToken: testToken,
			Status: models.SubscriptionActive, Acknowledged: true, ExpiresAt: fixedNow.Add(time.Hour),
		}
		renewed := activePurchase()
		renewed.Acknowledged = true
		repo.On("GetByPurchaseToken", ctx, testToken).Return(bound, nil).Once()
		play.On("GetSubscription", ctx, testToken).Return(renewed, nil).Once()
		repo.On("Update", ctx, bound).Return(nil).Once()

		sub, err := s.Verify(ctx, "user-1", verifyRequest())

		require.NoError(t, err)
		assert.Equal(t, "sub-1", sub.ID)
		assert.Equal(t, renewed.ExpiresAt, sub.ExpiresAt)
		repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
		play.AssertNotCalled(t, "Acknowledge", ctx, mock.Anything, mock.Anything)
	})

	t.Run("Fail_ConcurrentInsertByOtherAccount", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		winner := &models.Subscription{UserID: "user-2", ProductID: "premium_monthly", PurchaseToken: testToken}
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(activePurchase(), nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Subscription")).Return(errs.ErrConflict).Once()
		repo.On("GetByPurchaseToken", ctx, testToken).Return(winner, nil).Once()

		_, err := s.Verify(ctx, "user-1", verifyRequest())

		assert.ErrorIs(t, err, errs.ErrPurchaseTokenInUse)
		repo.AssertExpectations(t)
	})

	t.Run("Fail_UnknownProduct", func(t *testing.T) {
		s, repo, _ := newSubscriptionFixture()
		req := verifyRequest()
		req.ProductID = "lifetime_hack"

		_, err := s.Verify(ctx, "user-1", req)

		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		repo.AssertNotCalled(t, "GetByPurchaseToken", ctx, mock.Anything)
	})

	t.Run("Fail_StoreRejectsToken", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(nil, errs.ErrInvalidReceipt).Once()

		_, err := s.Verify(ctx, "user-1", verifyRequest())

		assert.ErrorIs(t, err, errs.ErrInvalidReceipt)
		repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Fail_ProductMismatch", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		purchase := activePurchase()
		purchase.ProductID = "premium_yearly"
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(purchase, nil).Once()

		_, err := s.Verify(ctx, "user-1", verifyRequest())

		assert.ErrorIs(t, err, errs.ErrInvalidReceipt)
	})

	t.Run("Fail_PendingOrExpired", func(t *testing.T) {
		for name, mutate := range map[string]func(p *models.PlayPurchase){
			"pending": func(p *models.PlayPurchase) { p.Pending = true; p.Status = models.SubscriptionOnHold },
			"expired": func(p *models.PlayPurchase) { p.Status = models.SubscriptionExpired },
		} {
			t.Run(name, func(t *testing.T) {
				s, repo, play := newSubscriptionFixture()
				purchase := activePurchase()
				mutate(purchase)
				repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
				play.On("GetSubscription", ctx, testToken).Return(purchase, nil).Once()

				_, err := s.Verify(ctx, "user-1", verifyRequest())
				assert.ErrorIs(t, err, errs.ErrInvalidReceipt)
			})
		}
	})

	t.Run("Success_LinkedTokenReplaced", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		purchase := activePurchase()
		purchase.Acknowledged = true
		purchase.LinkedPurchaseToken = "old-token-abcdefgh"
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(purchase, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
		repo.On("MarkReplaced", ctx, "old-token-abcdefgh").Return(nil).Once()

		_, err := s.Verify(ctx, "user-1", verifyRequest())

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Success_AcknowledgeFailureIsNotFatal", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()
		play.On("GetSubscription", ctx, testToken).Return(activePurchase(), nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Subscription")).Return(nil).Once()
		play.On("Acknowledge", ctx, "premium_monthly", testToken).Return(errs.ErrUpstream).Once()

		sub, err := s.Verify(ctx, "user-1", verifyRequest())

		require.NoError(t, err)
		assert.False(t, sub.Acknowledged)
		repo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})
}

func TestSubscriptionService_Entitlements(t *testing.T) {
	ctx := context.Background()

	t.Run("Free", func(t *testing.T) {
		s, repo, _ := newSubscriptionFixture()
		repo.On("ActiveForUser", ctx, "user-1", fixedNow).Return(nil, errs.ErrNotFound).Once()

		ent, err := s.Entitlements(ctx, "user-1")

		require.NoError(t, err)
		assert.False(t, ent.IsPremium)
		assert.Equal(t, 3, ent.NearbyDailyLimit)
		assert.Equal(t, 2, ent.GalleryLimit)
	})

	t.Run("CanceledStillPaid", func(t *testing.T) {
		s, repo, _ := newSubscriptionFixture()
		sub := &models.Subscription{Status: models.SubscriptionCanceled, ExpiresAt: fixedNow.Add(time.Hour)}
		repo.On("ActiveForUser", ctx, "user-1", fixedNow).Return(sub, nil).Once()

		ent, err := s.Entitlements(ctx, "user-1")

		require.NoError(t, err)
		assert.True(t, ent.IsPremium)
		assert.Equal(t, 50, ent.NearbyDailyLimit)
		assert.Equal(t, 10, ent.GalleryLimit)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		s, repo, _ := newSubscriptionFixture()
		repo.On("ActiveForUser", ctx, "user-1", fixedNow).Return(nil, errors.New("boom")).Once()

		premium, err := s.IsPremium(ctx, "user-1")
		assert.Error(t, err)
		assert.False(t, premium)
	})
}

func TestSubscriptionService_HandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownTokenIgnored", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		repo.On("GetByPurchaseToken", ctx, testToken).Return(nil, errs.ErrNotFound).Once()

		assert.NoError(t, s.HandleNotification(ctx, testToken))
		play.AssertNotCalled(t, "GetSubscription", ctx, testToken)
	})

	t.Run("GoneTokenExpires", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		sub := &models.Subscription{
			UserID: "user-1", ProductID: "premium_monthly", PurchaseToken: testToken,
			Status: models.SubscriptionActive, Acknowledged: true, ExpiresAt: fixedNow.Add(-time.Hour),
		}
		repo.On("GetByPurchaseToken", ctx, testToken).Return(sub, nil).Once()
		play.On("GetSubscription", ctx, testToken).Return(nil, errs.ErrInvalidReceipt).Once()
		repo.On("Update", ctx, sub).Return(nil).Once()

		require.NoError(t, s.HandleNotification(ctx, testToken))
		assert.Equal(t, models.SubscriptionExpired, sub.Status)
	})

	t.Run("ReplacedStaysReplaced", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		sub := &models.Subscription{
			UserID: "user-1", ProductID: "premium_monthly", PurchaseToken: testToken,
			Status: models.SubscriptionReplaced, Acknowledged: true,
		}
		purchase := activePurchase()
		purchase.Acknowledged = true
		repo.On("GetByPurchaseToken", ctx, testToken).Return(sub, nil).Once()
		play.On("GetSubscription", ctx, testToken).Return(purchase, nil).Once()
		repo.On("Update", ctx, sub).Return(nil).Once()

		require.NoError(t, s.HandleNotification(ctx, testToken))
		assert.Equal(t, models.SubscriptionReplaced, sub.Status)
	})

	t.Run("UpstreamErrorPropagates", func(t *testing.T) {
		s, repo, play := newSubscriptionFixture()
		sub := &models.Subscription{UserID: "user-1", PurchaseToken: testToken}
		repo.On("GetByPurchaseToken", ctx, testToken).Return(sub, nil).Once()
		play.On("GetSubscription", ctx, testToken).Return(nil, errs.ErrUpstream).Once()

		assert.ErrorIs(t, s.HandleNotification(ctx, testToken), errs.ErrUpstream)
	})
}

func TestSubscriptionService_ExpireLapsed(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newSubscriptionFixture()
	repo.On("ExpireLapsed", ctx, fixedNow).Return(int64(4), nil).Once()

	n, err := s.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
