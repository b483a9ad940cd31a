package service

import (
	"context"
	"fmt"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

type CardService struct {
	repo   core.CardRepository
	trades core.TradeRepository
	logger zerolog.Logger
	now    clock
}

func NewCardService(repo core.CardRepository, trades core.TradeRepository, logger zerolog.Logger) *CardService {
	return &CardService{repo: repo, trades: trades, logger: logger, now: utcNow}
}

func (s *CardService) Create(ctx context.Context, ownerID string, req models.CreateCardRequest) (*models.Card, error) {
	status := req.Status
	if status == "" {
		status = models.CardOwned
	}
	now := s.now()
	card := &models.Card{
		ID:         newID(),
		OwnerID:    ownerID,
		GroupName:  validation.SanitizeString(req.GroupName),
		MemberName: validation.SanitizeString(req.MemberName),
		Album:      validation.SanitizeString(req.Album),
		Version:    validation.SanitizeString(req.Version),
		ImageURL:   req.ImageURL,
		Condition:  req.Condition,
		Status:     status,
		Note:       validation.SanitizeString(req.Note),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if card.GroupName == "" || card.MemberName == "" {
		return nil, fmt.Errorf("%w: group_name and member_name are required", errs.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) Get(ctx context.Context, id string) (*models.Card, error) {
	return s.repo.GetByID(ctx, id)
}

// owned loads a card and checks that userID owns it.
func (s *CardService) owned(ctx context.Context, userID, id string) (*models.Card, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != userID {
		return nil, fmt.Errorf("%w: not the owner of this card", errs.ErrForbidden)
	}
	return card, nil
}

func (s *CardService) Update(ctx context.Context, userID, id string, req models.UpdateCardRequest) (*models.Card, error) {
	card, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.GroupName != nil {
		card.GroupName = validation.SanitizeString(*req.GroupName)
	}
	if req.MemberName != nil {
		card.MemberName = validation.SanitizeString(*req.MemberName)
	}
	if req.Album != nil {
		card.Album = validation.SanitizeString(*req.Album)
	}
	if req.Version != nil {
		card.Version = validation.SanitizeString(*req.Version)
	}
	if req.ImageURL != nil {
		card.ImageURL = *req.ImageURL
	}
	if req.Condition != nil {
		card.Condition = *req.Condition
	}
	if req.Note != nil {
		card.Note = validation.SanitizeString(*req.Note)
	}
	if req.Status != nil {
		if card.Status == models.CardTraded {
			return nil, fmt.Errorf("%w: a traded card cannot change status", errs.ErrInvalidTransition)
		}
		card.Status = *req.Status
	}
	if card.GroupName == "" || card.MemberName == "" {
		return nil, fmt.Errorf("%w: group_name and member_name are required", errs.ErrInvalidInput)
	}

	card.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	open, err := s.trades.HasOpenTradeForCard(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return fmt.Errorf("%w: card is part of an open trade", errs.ErrConflict)
	}
	return s.repo.Delete(ctx, id)
}

func (s *CardService) List(ctx context.Context, filter models.CardFilter) ([]models.Card, *models.PaginationMetadata, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	cards, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return cards, models.NewPagination(filter.Page, filter.Limit, total), nil
}
