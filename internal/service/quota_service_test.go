package service

import (
	"context"
	"testing"
	"time"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testConfig() *config.Config {
	return &config.Config{
		App_Secret:              "test-secret-test-secret-test-secret",
		NearbyFreeDailyLimit:    3,
		NearbyPremiumDailyLimit: 50,
		NearbyMaxRadiusKm:       50,
		GalleryFreeLimit:        2,
		GalleryPremiumLimit:     10,
		PlayProductIDs:          []string{"premium_monthly", "premium_yearly"},
		MediaUploadURLMinutes:   15,
		MediaMaxUploadBytes:     1 << 20,
	}
}

func newQuotaFixture() (*QuotaService, *mocks.MockQuotaStore, *mocks.MockPremiumChecker) {
	store := new(mocks.MockQuotaStore)
	premium := new(mocks.MockPremiumChecker)
	s := NewQuotaService(store, premium, testConfig(), nil, zerolog.Nop())
	s.now = fixedClock
	return s, store, premium
}

func TestQuotaService_Consume(t *testing.T) {
	ctx := context.Background()
	key := "nearby_quota:user-1:20260314"
	resetsAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Success_Free", func(t *testing.T) {
		s, store, premium := newQuotaFixture()
		premium.On("IsPremium", ctx, "user-1").Return(false, nil).Once()
		store.On("Increment", ctx, key, resetsAt.Add(time.Hour)).Return(int64(2), nil).Once()

		status, err := s.Consume(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 3, status.Limit)
		assert.Equal(t, 2, status.Used)
		assert.Equal(t, 1, status.Remaining)
		assert.Equal(t, resetsAt, status.ResetsAt)
		store.AssertExpectations(t)
	})

	t.Run("Success_PremiumLimit", func(t *testing.T) {
		s, store, premium := newQuotaFixture()
		premium.On("IsPremium", ctx, "user-1").Return(true, nil).Once()
		store.On("Increment", ctx, key, resetsAt.Add(time.Hour)).Return(int64(4), nil).Once()

		status, err := s.Consume(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 50, status.Limit)
		assert.Equal(t, 46, status.Remaining)
	})

	t.Run("Fail_ExceededRollsBack", func(t *testing.T) {
		s, store, premium := newQuotaFixture()
		premium.On("IsPremium", ctx, "user-1").Return(false, nil).Once()
		store.On("Increment", ctx, key, resetsAt.Add(time.Hour)).Return(int64(4), nil).Once()
		store.On("Decrement", ctx, key).Return(nil).Once()

		status, err := s.Consume(ctx, "user-1")

		assert.ErrorIs(t, err, errs.ErrQuotaExceeded)
		assert.Nil(t, status)
		store.AssertExpectations(t)
	})

	t.Run("Fail_StoreDown", func(t *testing.T) {
		s, store, premium := newQuotaFixture()
		premium.On("IsPremium", ctx, "user-1").Return(false, nil).Once()
		store.On("Increment", ctx, key, resetsAt.Add(time.Hour)).Return(int64(0), errs.ErrUpstream).Once()

		_, err := s.Consume(ctx, "user-1")
		assert.ErrorIs(t, err, errs.ErrUpstream)
		store.AssertNotCalled(t, "Decrement", ctx, key)
	})
}

func TestQuotaService_Status(t *testing.T) {
	ctx := context.Background()
	s, store, premium := newQuotaFixture()
	premium.On("IsPremium", ctx, "user-1").Return(false, nil).Once()
	store.On("Get", ctx, "nearby_quota:user-1:20260314").Return(int64(3), nil).Once()

	status, err := s.Status(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 3, status.Used)
	assert.Equal(t, 0, status.Remaining)
	store.AssertNotCalled(t, "Increment")
}
