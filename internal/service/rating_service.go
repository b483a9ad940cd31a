package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

const maxRatingComment = 300

type RatingService struct {
	repo   core.RatingRepository
	trades core.TradeRepository
	logger zerolog.Logger
	now    clock
}

func NewRatingService(repo core.RatingRepository, trades core.TradeRepository, logger zerolog.Logger) *RatingService {
	return &RatingService{repo: repo, trades: trades, logger: logger, now: utcNow}
}

// Rate records the rater's score for the other party of a completed trade.
// A second rating for the same trade fails with ErrConflict.
func (s *RatingService) Rate(ctx context.Context, raterID, tradeID string, req models.CreateRatingRequest) (*models.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", errs.ErrInvalidInput)
	}
	comment := validation.SanitizeString(req.Comment)
	if utf8.RuneCountInString(comment) > maxRatingComment {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", errs.ErrInvalidInput, maxRatingComment)
	}

	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(raterID) {
		return nil, fmt.Errorf("%w: not a party to this trade", errs.ErrForbidden)
	}
	if trade.Status != models.TradeCompleted {
		return nil, fmt.Errorf("%w: only completed trades can be rated", errs.ErrInvalidTransition)
	}

	rating := &models.Rating{
		ID:        newID(),
		TradeID:   trade.ID,
		RaterID:   raterID,
		RateeID:   trade.Counterparty(raterID),
		Score:     req.Score,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) ListForUser(ctx context.Context, userID string, page, limit int) ([]models.Rating, *models.RatingSummary, *models.PaginationMetadata, error) {
	page, limit = models.NormalizePage(page, limit)
	ratings, total, err := s.repo.ListByRatee(ctx, userID, limit, models.Offset(page, limit))
	if err != nil {
		return nil, nil, nil, err
	}
	summary, err := s.repo.Summary(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return ratings, summary, models.NewPagination(page, limit, total), nil
}
