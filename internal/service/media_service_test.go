package service

import (
	"context"
	"errors"
	"regexp"
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

func newMediaFixture() (*MediaService, *mocks.MockMediaSigner) {
	signer := new(mocks.MockMediaSigner)
	svc := NewMediaService(signer, testConfig(), zerolog.Nop())
	svc.now = fixedClock
	return svc, signer
}

func TestMediaService_CreateUploadURL(t *testing.T) {
	ctx := context.Background()
	objectPattern := regexp.MustCompile(`^post/` + aliceID + `/[0-9a-f-]{36}\.webp$`)

	t.Run("Success", func(t *testing.T) {
		svc, signer := newMediaFixture()
		expires := fixedNow.Add(15 * time.Minute)
		signer.On("SignedUploadURL", ctx, mock.MatchedBy(objectPattern.MatchString), "image/webp", int64(1<<20), expires).
			Return("https://storage.googleapis.com/signed", nil).Once()
		signer.On("PublicURL", mock.MatchedBy(objectPattern.MatchString)).Return("https://cdn.example.com/obj").Once()

		res, err := svc.CreateUploadURL(ctx, aliceID, models.UploadURLRequest{
			Purpose:     models.MediaPost,
			ContentType: "image/webp",
			Size:        2048,
		})

		require.NoError(t, err)
		assert.Equal(t, "PUT", res.Method)
		assert.Equal(t, "image/webp", res.Headers["Content-Type"])
		assert.Equal(t, "0,1048576", res.Headers["x-goog-content-length-range"])
		assert.Regexp(t, objectPattern, res.ObjectName)
		assert.Equal(t, expires, res.ExpiresAt)
		assert.Equal(t, "https://cdn.example.com/obj", res.PublicURL)
	})

	t.Run("Fail_TooLarge", func(t *testing.T) {
		svc, _ := newMediaFixture()
		_, err := svc.CreateUploadURL(ctx, aliceID, models.UploadURLRequest{Purpose: models.MediaAvatar, ContentType: "image/png", Size: 1<<20 + 1})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_ContentType", func(t *testing.T) {
		svc, _ := newMediaFixture()
		_, err := svc.CreateUploadURL(ctx, aliceID, models.UploadURLRequest{Purpose: models.MediaAvatar, ContentType: "image/svg+xml", Size: 10})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_SignerError", func(t *testing.T) {
		svc, signer := newMediaFixture()
		signer.On("SignedUploadURL", ctx, mock.Anything, "image/jpeg", mock.Anything, mock.Anything).Return("", errors.New("no credentials")).Once()

		_, err := svc.CreateUploadURL(ctx, aliceID, models.UploadURLRequest{Purpose: models.MediaChat, ContentType: "image/jpeg", Size: 10})
		assert.ErrorIs(t, err, errs.ErrUpstream)
	})
}
