package service

import (
	"context"
	"errors"
	"fmt"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
)

const friendAcceptedMessage = "You are now friends. Say hi!"

type FriendService struct {
	repo   core.FriendRepository
	users  core.UserRepository
	chat   core.ChatRepository
	tx     core.TxManager
	events core.EventPublisher
	logger zerolog.Logger
	now    clock
}

func NewFriendService(repo core.FriendRepository, users core.UserRepository, chat core.ChatRepository, tx core.TxManager, events core.EventPublisher, logger zerolog.Logger) *FriendService {
	return &FriendService{repo: repo, users: users, chat: chat, tx: tx, events: events, logger: logger, now: utcNow}
}

func (s *FriendService) SendRequest(ctx context.Context, requesterID string, req models.SendFriendRequest) (*models.FriendRequest, error) {
	addresseeID := normalizeID(req.AddresseeID)
	if addresseeID == "" {
		return nil, fmt.Errorf("%w: addressee_id must be a valid id", errs.ErrInvalidInput)
	}
	if addresseeID == requesterID {
		return nil, fmt.Errorf("%w: cannot send a friend request to yourself", errs.ErrInvalidInput)
	}

	addressee, err := s.users.GetByID(ctx, addresseeID)
	if err != nil {
		return nil, err
	}
	if !addressee.IsActive {
		return nil, fmt.Errorf("%w: user not found", errs.ErrNotFound)
	}

	friends, err := s.repo.AreFriends(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, fmt.Errorf("%w: already friends", errs.ErrConflict)
	}

	pending, err := s.repo.PendingBetween(ctx, requesterID, addresseeID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: a friend request is already pending", errs.ErrConflict)
	}

	fr := &models.FriendRequest{
		ID:          newID(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendRequestPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateRequest(ctx, fr); err != nil {
		return nil, err
	}

	s.events.PublishToUsers([]string{addresseeID}, models.RealtimeEvent{Type: models.EventFriendRequest, Data: fr})
	return fr, nil
}

func (s *FriendService) ListRequests(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error) {
	return s.repo.ListPending(ctx, userID, incoming)
}

// pendingFor loads a pending request and checks who may act on it.
func (s *FriendService) pendingFor(ctx context.Context, requestID, actorID string, asAddressee bool) (*models.FriendRequest, error) {
	fr, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	owner := fr.RequesterID
	if asAddressee {
		owner = fr.AddresseeID
	}
	if owner != actorID {
		return nil, fmt.Errorf("%w: not your friend request", errs.ErrForbidden)
	}
	if fr.Status != models.FriendRequestPending {
		return nil, fmt.Errorf("%w: request is already %s", errs.ErrInvalidTransition, fr.Status)
	}
	return fr, nil
}

// Accept makes both users friends and opens their direct chat room in one transaction.
func (s *FriendService) Accept(ctx context.Context, userID, requestID string) (*models.AcceptFriendResult, error) {
	fr, err := s.pendingFor(ctx, requestID, userID, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		room    *models.ChatRoom
		created bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateRequestStatus(ctx, fr.ID, models.FriendRequestPending, models.FriendRequestAccepted, now); err != nil {
			return err
		}
		if err := s.repo.CreateFriendship(ctx, fr.RequesterID, fr.AddresseeID, now); err != nil {
			return err
		}
		room, created, err = s.chat.GetOrCreateDirectRoom(ctx, fr.RequesterID, fr.AddresseeID)
		if err != nil {
			return err
		}
		return s.chat.CreateMessage(ctx, systemMessage(room.ID, friendAcceptedMessage, now))
	})
	if err != nil {
		return nil, err
	}

	fr.Status = models.FriendRequestAccepted
	fr.RespondedAt = &now
	low, high := models.OrderedPair(fr.RequesterID, fr.AddresseeID)

	s.logger.Info().
		Str("request_id", fr.ID).
		Str("room_id", room.ID).
		Bool("room_created", created).
		Msg("Friend request accepted")

	s.events.PublishToUsers([]string{fr.RequesterID, fr.AddresseeID}, models.RealtimeEvent{
		Type:   models.EventRoomCreated,
		RoomID: room.ID,
		Data:   room,
	})

	return &models.AcceptFriendResult{
		Request:    *fr,
		Friendship: models.Friendship{UserID: low, FriendID: high, CreatedAt: now},
		Room:       room,
	}, nil
}

func (s *FriendService) Reject(ctx context.Context, userID, requestID string) error {
	fr, err := s.pendingFor(ctx, requestID, userID, true)
	if err != nil {
		return err
	}
	return s.repo.UpdateRequestStatus(ctx, fr.ID, models.FriendRequestPending, models.FriendRequestRejected, s.now())
}

func (s *FriendService) Cancel(ctx context.Context, userID, requestID string) error {
	fr, err := s.pendingFor(ctx, requestID, userID, false)
	if err != nil {
		return err
	}
	return s.repo.UpdateRequestStatus(ctx, fr.ID, models.FriendRequestPending, models.FriendRequestCanceled, s.now())
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	return s.repo.ListFriends(ctx, userID)
}

// Unfriend drops the friendship. The direct chat room is kept.
func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) error {
	friendID = normalizeID(friendID)
	if friendID == "" || friendID == userID {
		return fmt.Errorf("%w: invalid friend id", errs.ErrInvalidInput)
	}
	return s.repo.DeleteFriendship(ctx, userID, friendID)
}
