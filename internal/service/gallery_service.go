package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

const maxGalleryCaption = 200

type GalleryService struct {
	repo    core.GalleryRepository
	cards   core.CardRepository
	premium core.PremiumChecker
	config  *config.Config
	logger  zerolog.Logger
	now     clock
}

func NewGalleryService(repo core.GalleryRepository, cards core.CardRepository, premium core.PremiumChecker, cfg *config.Config, logger zerolog.Logger) *GalleryService {
	return &GalleryService{repo: repo, cards: cards, premium: premium, config: cfg, logger: logger, now: utcNow}
}

func (s *GalleryService) limitFor(ctx context.Context, userID string) (int, error) {
	premium, err := s.premium.IsPremium(ctx, userID)
	if err != nil {
		return 0, err
	}
	if premium {
		return s.config.GalleryPremiumLimit, nil
	}
	return s.config.GalleryFreeLimit, nil
}

func (s *GalleryService) Add(ctx context.Context, userID string, req models.CreateGalleryItemRequest) (*models.GalleryItem, error) {
	caption := validation.SanitizeString(req.Caption)
	if utf8.RuneCountInString(caption) > maxGalleryCaption {
		return nil, fmt.Errorf("%w: caption must be at most %d characters", errs.ErrInvalidInput, maxGalleryCaption)
	}
	if req.ImageURL == "" {
		return nil, fmt.Errorf("%w: image_url is required", errs.ErrInvalidInput)
	}

	if req.CardID != nil {
		card, err := s.cards.GetByID(ctx, *req.CardID)
		if err != nil {
			return nil, err
		}
		if card.OwnerID != userID {
			return nil, fmt.Errorf("%w: you can only showcase your own cards", errs.ErrForbidden)
		}
	}

	limit, err := s.limitFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= limit {
		return nil, fmt.Errorf("%w: gallery holds at most %d items on your plan", errs.ErrLimitReached, limit)
	}

	item := &models.GalleryItem{
		ID:        newID(),
		UserID:    userID,
		ImageURL:  req.ImageURL,
		Caption:   caption,
		CardID:    req.CardID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *GalleryService) ListForUser(ctx context.Context, userID string, page, limit int) ([]models.GalleryItem, *models.PaginationMetadata, error) {
	page, limit = models.NormalizePage(page, limit)
	items, total, err := s.repo.ListByUser(ctx, userID, limit, models.Offset(page, limit))
	if err != nil {
		return nil, nil, err
	}
	return items, models.NewPagination(page, limit, total), nil
}

func (s *GalleryService) Delete(ctx context.Context, userID, itemID string) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return fmt.Errorf("%w: not your gallery item", errs.ErrForbidden)
	}
	return s.repo.Delete(ctx, itemID)
}
