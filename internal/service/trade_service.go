package service

import (
	"context"
	"fmt"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

const tradeAcceptedMessage = "Trade accepted. Use this chat to arrange the exchange."

type TradeService struct {
	repo    core.TradeRepository
	cards   core.CardRepository
	posts   core.PostRepository
	users   core.UserRepository
	chat    core.ChatRepository
	tx      core.TxManager
	events  core.EventPublisher
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     clock
}

func NewTradeService(
	repo core.TradeRepository,
	cards core.CardRepository,
	posts core.PostRepository,
	users core.UserRepository,
	chat core.ChatRepository,
	tx core.TxManager,
	events core.EventPublisher,
	rec *metrics.Recorder,
	logger zerolog.Logger,
) *TradeService {
	return &TradeService{
		repo:    repo,
		cards:   cards,
		posts:   posts,
		users:   users,
		chat:    chat,
		tx:      tx,
		events:  events,
		metrics: rec,
		logger:  logger,
		now:     utcNow,
	}
}

// canonicalIDs normalizes ids and rejects malformed or repeated entries.
func canonicalIDs(ids []string, seen map[string]bool) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := normalizeID(raw)
		if id == "" {
			return nil, fmt.Errorf("%w: invalid card id %q", errs.ErrInvalidInput, raw)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: card %s listed twice", errs.ErrInvalidInput, id)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (s *TradeService) Create(ctx context.Context, proposerID string, req models.CreateTradeRequest) (*models.Trade, error) {
	recipientID := normalizeID(req.RecipientID)
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient_id must be a valid id", errs.ErrInvalidInput)
	}
	if recipientID == proposerID {
		return nil, fmt.Errorf("%w: cannot trade with yourself", errs.ErrInvalidInput)
	}

	seen := map[string]bool{}
	offered, err := canonicalIDs(req.OfferedCardIDs, seen)
	if err != nil {
		return nil, err
	}
	requested, err := canonicalIDs(req.RequestedCardIDs, seen)
	if err != nil {
		return nil, err
	}
	total := len(offered) + len(requested)
	if total == 0 {
		return nil, fmt.Errorf("%w: a trade needs at least one card", errs.ErrInvalidInput)
	}
	if total > models.MaxTradeCards {
		return nil, fmt.Errorf("%w: at most %d cards per trade", errs.ErrInvalidInput, models.MaxTradeCards)
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive {
		return nil, fmt.Errorf("%w: user not found", errs.ErrNotFound)
	}

	if err := s.checkCards(ctx, offered, proposerID, requested, recipientID, errs.ErrInvalidInput); err != nil {
		return nil, err
	}

	var postID *string
	if req.PostID != nil {
		post, err := s.posts.GetByID(ctx, *req.PostID)
		if err != nil {
			return nil, err
		}
		if post.AuthorID != proposerID && post.AuthorID != recipientID {
			return nil, fmt.Errorf("%w: post does not belong to either party", errs.ErrInvalidInput)
		}
		if post.Status == models.PostSold || post.Status == models.PostClosed {
			return nil, fmt.Errorf("%w: post is %s", errs.ErrInvalidTransition, post.Status)
		}
		postID = &post.ID
	}

	now := s.now()
	trade := &models.Trade{
		ID:               newID(),
		ProposerID:       proposerID,
		RecipientID:      recipientID,
		PostID:           postID,
		OfferedCardIDs:   offered,
		RequestedCardIDs: requested,
		Message:          validation.SanitizeString(req.Message),
		Status:           models.TradeDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Propose {
		trade.Status = models.TradeProposed
		trade.ProposedAt = &now
	}

	if err := s.repo.Create(ctx, trade); err != nil {
		return nil, err
	}

	s.metrics.TradeTransition(string(trade.Status))
	if trade.Status == models.TradeProposed {
		s.notify(trade)
	}
	return trade, nil
}

// checkCards verifies that every card exists, sits on the stated side and is still tradable.
// A card that was already traded fails with unavailable.
func (s *TradeService) checkCards(ctx context.Context, offered []string, proposerID string, requested []string, recipientID string, unavailable error) error {
	owners := make(map[string]string, len(offered)+len(requested))
	ids := make([]string, 0, len(offered)+len(requested))
	for _, id := range offered {
		owners[id] = proposerID
		ids = append(ids, id)
	}
	for _, id := range requested {
		owners[id] = recipientID
		ids = append(ids, id)
	}

	cards, err := s.cards.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(cards) != len(ids) {
		return fmt.Errorf("%w: some cards do not exist", errs.ErrNotFound)
	}
	for _, card := range cards {
		if owners[card.ID] != card.OwnerID {
			return fmt.Errorf("%w: card %s is not owned by the expected party", errs.ErrInvalidInput, card.ID)
		}
		if card.Status == models.CardTraded {
			return fmt.Errorf("%w: card %s was already traded", unavailable, card.ID)
		}
	}
	return nil
}

func (s *TradeService) Get(ctx context.Context, userID, id string) (*models.Trade, error) {
	trade, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: not a party to this trade", errs.ErrForbidden)
	}
	return trade, nil
}

func (s *TradeService) List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, *models.PaginationMetadata, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	switch filter.Role {
	case "", "proposer", "recipient":
	default:
		return nil, nil, fmt.Errorf("%w: role must be proposer or recipient", errs.ErrInvalidInput)
	}

	trades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return trades, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Transition applies action on behalf of userID. Accepting opens the pair's chat room,
// completing marks every card traded and the linked post sold.
func (s *TradeService) Transition(ctx context.Context, userID, id string, action models.TradeAction) (*models.Trade, error) {
	trade, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := trade.NextStatus(action, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := trade.Status

	switch next {
	case models.TradeAccepted:
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.checkTradeCards(ctx, trade); err != nil {
				return err
			}
			if err := s.repo.Transition(ctx, trade.ID, from, next, now); err != nil {
				return err
			}
			room, _, err := s.chat.GetOrCreateDirectRoom(ctx, trade.ProposerID, trade.RecipientID)
			if err != nil {
				return err
			}
			if err := s.repo.SetChatRoom(ctx, trade.ID, room.ID); err != nil {
				return err
			}
			trade.ChatRoomID = &room.ID
			return s.chat.CreateMessage(ctx, systemMessage(room.ID, tradeAcceptedMessage, now))
		})
	case models.TradeCompleted:
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.checkTradeCards(ctx, trade); err != nil {
				return err
			}
			if err := s.repo.Transition(ctx, trade.ID, from, next, now); err != nil {
				return err
			}
			// MarkTraded only touches cards that are not traded yet, so a card shared
			// with a concurrently completed trade rolls this one back.
			if err := s.cards.MarkTraded(ctx, trade.CardIDs()); err != nil {
				return err
			}
			if trade.PostID != nil {
				return s.posts.UpdateStatus(ctx, *trade.PostID, models.PostSold)
			}
			return nil
		})
	default:
		err = s.repo.Transition(ctx, trade.ID, from, next, now)
	}
	if err != nil {
		return nil, err
	}

	trade.Status = next
	trade.UpdatedAt = now
	switch next {
	case models.TradeProposed:
		trade.ProposedAt = &now
	case models.TradeAccepted, models.TradeRejected:
		trade.RespondedAt = &now
	case models.TradeCompleted:
		trade.CompletedAt = &now
	}

	s.metrics.TradeTransition(string(next))
	s.logger.Info().
		Str("trade_id", trade.ID).
		Str("user_id", userID).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("Trade transitioned")
	s.notify(trade)
	return trade, nil
}

// checkTradeCards re-runs the card checks for an existing trade. Another trade may
// have completed with one of its cards since this one was created.
func (s *TradeService) checkTradeCards(ctx context.Context, trade *models.Trade) error {
	return s.checkCards(ctx, trade.OfferedCardIDs, trade.ProposerID, trade.RequestedCardIDs, trade.RecipientID, errs.ErrConflict)
}

func (s *TradeService) notify(trade *models.Trade) {
	event := models.RealtimeEvent{Type: models.EventTradeUpdated, Data: trade}
	if trade.ChatRoomID != nil {
		event.RoomID = *trade.ChatRoomID
	}
	s.events.PublishToUsers([]string{trade.ProposerID, trade.RecipientID}, event)
}
