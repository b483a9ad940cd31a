package service

import (
	"context"
	"fmt"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
)

type MediaService struct {
	signer core.MediaSigner
	config *config.Config
	logger zerolog.Logger
	now    clock
}

func NewMediaService(signer core.MediaSigner, cfg *config.Config, logger zerolog.Logger) *MediaService {
	return &MediaService{signer: signer, config: cfg, logger: logger, now: utcNow}
}

func validPurpose(p models.MediaPurpose) bool {
	switch p {
	case models.MediaAvatar, models.MediaPost, models.MediaGallery, models.MediaChat, models.MediaCard:
		return true
	}
	return false
}

// CreateUploadURL issues a signed PUT URL for {purpose}/{user}/{uuid}.{ext}.
func (s *MediaService) CreateUploadURL(ctx context.Context, userID string, req models.UploadURLRequest) (*models.UploadURLResponse, error) {
	if !validPurpose(req.Purpose) {
		return nil, fmt.Errorf("%w: unknown purpose %q", errs.ErrInvalidInput, req.Purpose)
	}
	ext, ok := models.ImageExtensions[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", errs.ErrInvalidInput, req.ContentType)
	}
	if req.Size < 1 || req.Size > s.config.MediaMaxUploadBytes {
		return nil, fmt.Errorf("%w: size must be between 1 and %d bytes", errs.ErrInvalidInput, s.config.MediaMaxUploadBytes)
	}

	objectName := fmt.Sprintf("%s/%s/%s.%s", req.Purpose, userID, newID(), ext)
	expiresAt := s.now().Add(s.config.GetUploadURLTTL())

	maxBytes := s.config.MediaMaxUploadBytes
	url, err := s.signer.SignedUploadURL(ctx, objectName, req.ContentType, maxBytes, expiresAt)
	if err != nil {
		s.logger.Error().Err(err).Str("object", objectName).Msg("Failed to sign upload URL")
		return nil, fmt.Errorf("%w: could not sign upload url", errs.ErrUpstream)
	}

	return &models.UploadURLResponse{
		UploadURL: url,
		Method:    "PUT",
		Headers: map[string]string{
			"Content-Type":                  req.ContentType,
			models.ContentLengthRangeHeader: models.ContentLengthRange(maxBytes),
		},
		ObjectName: objectName,
		PublicURL:  s.signer.PublicURL(objectName),
		ExpiresAt:  expiresAt,
	}, nil
}
