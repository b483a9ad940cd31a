package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

type ChatService struct {
	repo    core.ChatRepository
	events  core.EventPublisher
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     clock
}

func NewChatService(repo core.ChatRepository, events core.EventPublisher, rec *metrics.Recorder, logger zerolog.Logger) *ChatService {
	return &ChatService{repo: repo, events: events, metrics: rec, logger: logger, now: utcNow}
}

// memberRoom loads a room the user belongs to.
func (s *ChatService) memberRoom(ctx context.Context, userID, roomID string) (*models.ChatRoom, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, fmt.Errorf("%w: not a member of this room", errs.ErrForbidden)
	}
	return room, nil
}

func (s *ChatService) ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error) {
	return s.repo.ListRooms(ctx, userID)
}

// ListMessages pages backwards from before, newest first.
func (s *ChatService) ListMessages(ctx context.Context, userID, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error) {
	if _, err := s.memberRoom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = models.DefaultMessageLimit
	}
	if limit > models.MaxPageLimit {
		limit = models.MaxPageLimit
	}
	return s.repo.ListMessages(ctx, roomID, before, limit)
}

func (s *ChatService) SendMessage(ctx context.Context, userID, roomID string, req models.SendMessageRequest) (*models.Message, error) {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = models.MessageText
	}
	content := validation.SanitizeString(req.Content)
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", errs.ErrInvalidInput, models.MaxMessageLength)
	}

	switch kind {
	case models.MessageText:
		if content == "" {
			return nil, fmt.Errorf("%w: message content is required", errs.ErrInvalidInput)
		}
		req.ImageURL = ""
	case models.MessageImage:
		if req.ImageURL == "" {
			return nil, fmt.Errorf("%w: image_url is required for image messages", errs.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported message kind %q", errs.ErrInvalidInput, kind)
	}

	sender := userID
	msg := &models.Message{
		ID:        newID(),
		RoomID:    room.ID,
		SenderID:  &sender,
		Kind:      kind,
		Content:   content,
		ImageURL:  req.ImageURL,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.metrics.ChatMessage()
	s.events.PublishToUsers(room.MemberIDs, models.RealtimeEvent{
		Type:   models.EventMessageCreated,
		RoomID: room.ID,
		Data:   msg,
	})
	return msg, nil
}

func (s *ChatService) MarkRead(ctx context.Context, userID, roomID string) error {
	if _, err := s.memberRoom(ctx, userID, roomID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, roomID, userID, s.now())
}
