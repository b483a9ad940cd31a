package service

import (
	"context"
	"testing"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/mocks"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type galleryFixture struct {
	service *GalleryService
	repo    *mocks.MockGalleryRepository
	cards   *mocks.MockCardRepository
	premium *mocks.MockPremiumChecker
}

func newGalleryFixture() *galleryFixture {
	f := &galleryFixture{
		repo:    new(mocks.MockGalleryRepository),
		cards:   new(mocks.MockCardRepository),
		premium: new(mocks.MockPremiumChecker),
	}
	f.service = NewGalleryService(f.repo, f.cards, f.premium, testConfig(), zerolog.Nop())
	f.service.now = fixedClock
	return f
}

func TestGalleryService_Add(t *testing.T) {
	ctx := context.Background()
	req := models.CreateGalleryItemRequest{ImageURL: "https://cdn.example.com/gallery/1.jpg", Caption: "my bias"}

	tests := []struct {
		name    string
		premium bool
		count   int
		wantErr error
	}{
		{"free under limit", false, 1, nil},
		{"free at limit", false, 2, errs.ErrLimitReached},
		{"premium above free limit", true, 5, nil},
		{"premium at limit", true, 10, errs.ErrLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGalleryFixture()
			f.premium.On("IsPremium", ctx, aliceID).Return(tt.premium, nil).Once()
			f.repo.On("CountByUser", ctx, aliceID).Return(tt.count, nil).Once()
			if tt.wantErr == nil {
				f.repo.On("Create", ctx, mock.AnythingOfType("*models.GalleryItem")).Return(nil).Once()
			}

			item, err := f.service.Add(ctx, aliceID, req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "my bias", item.Caption)
			assert.Equal(t, aliceID, item.UserID)
		})
	}

	t.Run("Fail_ForeignCard", func(t *testing.T) {
		f := newGalleryFixture()
		cardReq := req
		cardReq.CardID = strPtr(cardA)
		f.cards.On("GetByID", ctx, cardA).Return(&models.Card{ID: cardA, OwnerID: bobID}, nil).Once()

		_, err := f.service.Add(ctx, aliceID, cardReq)

		assert.ErrorIs(t, err, errs.ErrForbidden)
		f.premium.AssertNotCalled(t, "IsPremium", ctx, aliceID)
	})
}

func TestGalleryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner", func(t *testing.T) {
		f := newGalleryFixture()
		f.repo.On("GetByID", ctx, "g-1").Return(&models.GalleryItem{ID: "g-1", UserID: aliceID}, nil).Once()
		f.repo.On("Delete", ctx, "g-1").Return(nil).Once()

		assert.NoError(t, f.service.Delete(ctx, aliceID, "g-1"))
	})

	t.Run("Stranger", func(t *testing.T) {
		f := newGalleryFixture()
		f.repo.On("GetByID", ctx, "g-1").Return(&models.GalleryItem{ID: "g-1", UserID: aliceID}, nil).Once()

		assert.ErrorIs(t, f.service.Delete(ctx, bobID, "g-1"), errs.ErrForbidden)
		f.repo.AssertNotCalled(t, "Delete", ctx, "g-1")
	})
}
