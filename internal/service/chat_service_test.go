package service

import (
	"context"
	"strings"
	"testing"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/mocks"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	service *ChatService
	repo    *mocks.MockChatRepository
	events  *mocks.MockEventPublisher
}

func newChatFixture() *chatFixture {
	f := &chatFixture{repo: new(mocks.MockChatRepository), events: new(mocks.MockEventPublisher)}
	f.service = NewChatService(f.repo, f.events, nil, zerolog.Nop())
	f.service.now = fixedClock
	return f
}

func directRoom() *models.ChatRoom {
	return &models.ChatRoom{ID: "room-1", Kind: models.RoomDirect, MemberIDs: []string{aliceID, bobID}}
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_TextPublishedToMembers", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()
		f.repo.On("CreateMessage", ctx, mock.AnythingOfType("*models.Message")).Return(nil).Once()
		f.events.On("PublishToUsers", []string{aliceID, bobID}, mock.MatchedBy(func(e models.RealtimeEvent) bool {
			return e.Type == models.EventMessageCreated && e.RoomID == "room-1"
		})).Once()

		msg, err := f.service.SendMessage(ctx, aliceID, "room-1", models.SendMessageRequest{Content: "<b>hello</b>"})

		require.NoError(t, err)
		assert.Equal(t, models.MessageText, msg.Kind)
		assert.Equal(t, "hello", msg.Content)
		require.NotNil(t, msg.SenderID)
		assert.Equal(t, aliceID, *msg.SenderID)
		f.events.AssertExpectations(t)
	})

	t.Run("Success_ImageWithoutCaption", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()
		f.repo.On("CreateMessage", ctx, mock.AnythingOfType("*models.Message")).Return(nil).Once()
		f.events.On("PublishToUsers", mock.Anything, mock.Anything).Once()

		msg, err := f.service.SendMessage(ctx, bobID, "room-1", models.SendMessageRequest{
			Kind:     models.MessageImage,
			ImageURL: "https://cdn.example.com/chat/b/1.jpg",
		})

		require.NoError(t, err)
		assert.Equal(t, models.MessageImage, msg.Kind)
		assert.Equal(t, "https://cdn.example.com/chat/b/1.jpg", msg.ImageURL)
	})

	t.Run("Fail_ImageMissingURL", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()

		_, err := f.service.SendMessage(ctx, bobID, "room-1", models.SendMessageRequest{Kind: models.MessageImage})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_TooLong", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()

		_, err := f.service.SendMessage(ctx, aliceID, "room-1", models.SendMessageRequest{Content: strings.Repeat("가", models.MaxMessageLength+1)})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_EmptyText", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()

		_, err := f.service.SendMessage(ctx, aliceID, "room-1", models.SendMessageRequest{Content: "   "})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_NotMember", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()

		_, err := f.service.SendMessage(ctx, carolID, "room-1", models.SendMessageRequest{Content: "hi"})

		assert.ErrorIs(t, err, errs.ErrForbidden)
		f.repo.AssertNotCalled(t, "CreateMessage", ctx, mock.Anything)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, models.DefaultMessageLimit},
		{"explicit", 10, 10},
		{"clamped", 500, models.MaxPageLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture()
			before := models.MessageCursor{CreatedAt: fixedNow, ID: "m-1"}
			f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()
			f.repo.On("ListMessages", ctx, "room-1", &before, tt.wantLimit).Return([]models.Message{}, nil).Once()

			msgs, err := f.service.ListMessages(ctx, aliceID, "room-1", &before, tt.limit)

			require.NoError(t, err)
			assert.Empty(t, msgs)
			f.repo.AssertExpectations(t)
		})
	}

	t.Run("Fail_NotMember", func(t *testing.T) {
		f := newChatFixture()
		f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()

		_, err := f.service.ListMessages(ctx, carolID, "room-1", nil, 0)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestChatService_MarkRead(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture()
	f.repo.On("GetRoom", ctx, "room-1").Return(directRoom(), nil).Once()
	f.repo.On("MarkRead", ctx, "room-1", bobID, fixedNow).Return(nil).Once()

	require.NoError(t, f.service.MarkRead(ctx, bobID, "room-1"))
	f.repo.AssertExpectations(t)
}
