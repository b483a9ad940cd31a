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

const (
	cardA = "aaaaaaaa-0000-4000-8000-000000000001"
	cardB = "bbbbbbbb-0000-4000-8000-000000000002"
)

type tradeFixture struct {
	service *TradeService
	repo    *mocks.MockTradeRepository
	cards   *mocks.MockCardRepository
	posts   *mocks.MockPostRepository
	users   *mocks.MockUserRepository
	chat    *mocks.MockChatRepository
	tx      *mocks.TxManager
	events  *mocks.MockEventPublisher
}

func newTradeFixture() *tradeFixture {
	f := &tradeFixture{
		repo:   new(mocks.MockTradeRepository),
		cards:  new(mocks.MockCardRepository),
		posts:  new(mocks.MockPostRepository),
		users:  new(mocks.MockUserRepository),
		chat:   new(mocks.MockChatRepository),
		tx:     &mocks.TxManager{},
		events: new(mocks.MockEventPublisher),
	}
	f.service = NewTradeService(f.repo, f.cards, f.posts, f.users, f.chat, f.tx, f.events, nil, zerolog.Nop())
	f.service.now = fixedClock
	return f
}

func TestTradeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Proposed", func(t *testing.T) {
		f := newTradeFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID, IsActive: true}, nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return([]models.Card{
			{ID: cardA, OwnerID: aliceID, Status: models.CardForTrade},
			{ID: cardB, OwnerID: bobID, Status: models.CardOwned},
		}, nil).Once()
		f.repo.On("Create", ctx, mock.AnythingOfType("*models.Trade")).Return(nil).Once()
		f.events.On("PublishToUsers", []string{aliceID, bobID}, mock.Anything).Once()

		trade, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{
			RecipientID:      bobID,
			OfferedCardIDs:   []string{cardA},
			RequestedCardIDs: []string{cardB},
			Message:          "swap?",
			Propose:          true,
		})

		require.NoError(t, err)
		assert.Equal(t, models.TradeProposed, trade.Status)
		require.NotNil(t, trade.ProposedAt)
		assert.Equal(t, fixedNow, *trade.ProposedAt)
		f.events.AssertExpectations(t)
	})

	t.Run("Success_DraftIsQuiet", func(t *testing.T) {
		f := newTradeFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID, IsActive: true}, nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardB}).Return([]models.Card{{ID: cardB, OwnerID: bobID}}, nil).Once()
		f.repo.On("Create", ctx, mock.AnythingOfType("*models.Trade")).Return(nil).Once()

		trade, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: bobID, RequestedCardIDs: []string{cardB}})

		require.NoError(t, err)
		assert.Equal(t, models.TradeDraft, trade.Status)
		assert.Equal(t, []string{}, trade.OfferedCardIDs)
		f.events.AssertNotCalled(t, "PublishToUsers", mock.Anything, mock.Anything)
	})

	t.Run("Fail_Self", func(t *testing.T) {
		f := newTradeFixture()
		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: aliceID, OfferedCardIDs: []string{cardA}})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_NoCards", func(t *testing.T) {
		f := newTradeFixture()
		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: bobID})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_DuplicateCard", func(t *testing.T) {
		f := newTradeFixture()
		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{
			RecipientID:      bobID,
			OfferedCardIDs:   []string{cardA},
			RequestedCardIDs: []string{cardA},
		})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_WrongSide", func(t *testing.T) {
		f := newTradeFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID, IsActive: true}, nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA}).Return([]models.Card{{ID: cardA, OwnerID: bobID}}, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: bobID, OfferedCardIDs: []string{cardA}})

		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Fail_AlreadyTraded", func(t *testing.T) {
		f := newTradeFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID, IsActive: true}, nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA}).Return([]models.Card{{ID: cardA, OwnerID: aliceID, Status: models.CardTraded}}, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: bobID, OfferedCardIDs: []string{cardA}})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_MissingCard", func(t *testing.T) {
		f := newTradeFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID, IsActive: true}, nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA}).Return([]models.Card{}, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateTradeRequest{RecipientID: bobID, OfferedCardIDs: []string{cardA}})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func tradableCards() []models.Card {
	return []models.Card{
		{ID: cardA, OwnerID: aliceID, Status: models.CardForTrade},
		{ID: cardB, OwnerID: bobID, Status: models.CardOwned},
	}
}

func TestTradeService_Transition(t *testing.T) {
	ctx := context.Background()
	postID := "post-1"
	newTrade := func(status models.TradeStatus) *models.Trade {
		return &models.Trade{
			ID:               "trade-1",
			ProposerID:       aliceID,
			RecipientID:      bobID,
			PostID:           &postID,
			OfferedCardIDs:   []string{cardA},
			RequestedCardIDs: []string{cardB},
			Status:           status,
		}
	}

	t.Run("Accept_LinksRoom", func(t *testing.T) {
		f := newTradeFixture()
		room := &models.ChatRoom{ID: "room-1", Kind: models.RoomDirect, MemberIDs: []string{aliceID, bobID}}
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return(tradableCards(), nil).Once()
		f.repo.On("Transition", ctx, "trade-1", models.TradeProposed, models.TradeAccepted, fixedNow).Return(nil).Once()
		f.chat.On("GetOrCreateDirectRoom", ctx, aliceID, bobID).Return(room, false, nil).Once()
		f.repo.On("SetChatRoom", ctx, "trade-1", "room-1").Return(nil).Once()
		f.chat.On("CreateMessage", ctx, mock.MatchedBy(func(m *models.Message) bool {
			return m.RoomID == "room-1" && m.Kind == models.MessageSystem
		})).Return(nil).Once()
		f.events.On("PublishToUsers", []string{aliceID, bobID}, mock.MatchedBy(func(e models.RealtimeEvent) bool {
			return e.Type == models.EventTradeUpdated && e.RoomID == "room-1"
		})).Once()

		trade, err := f.service.Transition(ctx, bobID, "trade-1", models.TradeAccept)

		require.NoError(t, err)
		assert.Equal(t, models.TradeAccepted, trade.Status)
		require.NotNil(t, trade.ChatRoomID)
		assert.Equal(t, "room-1", *trade.ChatRoomID)
		require.NotNil(t, trade.RespondedAt)
		assert.Equal(t, 1, f.tx.Calls)
		f.repo.AssertExpectations(t)
		f.chat.AssertExpectations(t)
	})

	t.Run("Complete_MarksCardsAndPost", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeAccepted), nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return(tradableCards(), nil).Once()
		f.repo.On("Transition", ctx, "trade-1", models.TradeAccepted, models.TradeCompleted, fixedNow).Return(nil).Once()
		f.cards.On("MarkTraded", ctx, []string{cardA, cardB}).Return(nil).Once()
		f.posts.On("UpdateStatus", ctx, "post-1", models.PostSold).Return(nil).Once()
		f.events.On("PublishToUsers", mock.Anything, mock.Anything).Once()

		trade, err := f.service.Transition(ctx, aliceID, "trade-1", models.TradeComplete)

		require.NoError(t, err)
		assert.Equal(t, models.TradeCompleted, trade.Status)
		require.NotNil(t, trade.CompletedAt)
		f.cards.AssertExpectations(t)
		f.posts.AssertExpectations(t)
	})

	t.Run("Fail_CompleteWithTradedCard", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeAccepted), nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return([]models.Card{
			{ID: cardA, OwnerID: aliceID, Status: models.CardTraded},
			{ID: cardB, OwnerID: bobID, Status: models.CardOwned},
		}, nil).Once()

		_, err := f.service.Transition(ctx, bobID, "trade-1", models.TradeComplete)

		assert.ErrorIs(t, err, errs.ErrConflict)
		f.cards.AssertExpectations(t)
		f.repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "PublishToUsers", mock.Anything, mock.Anything)
	})

	t.Run("Fail_CompleteLosesCardRace", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeAccepted), nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return(tradableCards(), nil).Once()
		f.repo.On("Transition", ctx, "trade-1", models.TradeAccepted, models.TradeCompleted, fixedNow).Return(nil).Once()
		f.cards.On("MarkTraded", ctx, []string{cardA, cardB}).Return(errs.ErrConflict).Once()

		_, err := f.service.Transition(ctx, aliceID, "trade-1", models.TradeComplete)

		assert.ErrorIs(t, err, errs.ErrConflict)
		f.posts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "PublishToUsers", mock.Anything, mock.Anything)
	})

	t.Run("Fail_AcceptWithTradedCard", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()
		f.cards.On("GetByIDs", ctx, []string{cardA, cardB}).Return([]models.Card{
			{ID: cardA, OwnerID: aliceID, Status: models.CardForTrade},
			{ID: cardB, OwnerID: bobID, Status: models.CardTraded},
		}, nil).Once()

		_, err := f.service.Transition(ctx, bobID, "trade-1", models.TradeAccept)

		assert.ErrorIs(t, err, errs.ErrConflict)
		f.chat.AssertNotCalled(t, "GetOrCreateDirectRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reject_NoTransaction", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()
		f.repo.On("Transition", ctx, "trade-1", models.TradeProposed, models.TradeRejected, fixedNow).Return(nil).Once()
		f.events.On("PublishToUsers", mock.Anything, mock.Anything).Once()

		trade, err := f.service.Transition(ctx, bobID, "trade-1", models.TradeReject)

		require.NoError(t, err)
		assert.Equal(t, models.TradeRejected, trade.Status)
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("Fail_ProposerCannotAccept", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()

		_, err := f.service.Transition(ctx, aliceID, "trade-1", models.TradeAccept)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("Fail_CompleteTwice", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeCompleted), nil).Once()

		_, err := f.service.Transition(ctx, aliceID, "trade-1", models.TradeComplete)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("Fail_LostRace", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()
		f.repo.On("Transition", ctx, "trade-1", models.TradeProposed, models.TradeCanceled, fixedNow).
			Return(errs.ErrInvalidTransition).Once()

		_, err := f.service.Transition(ctx, aliceID, "trade-1", models.TradeCancel)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		f.events.AssertNotCalled(t, "PublishToUsers", mock.Anything, mock.Anything)
	})

	t.Run("Fail_Stranger", func(t *testing.T) {
		f := newTradeFixture()
		f.repo.On("GetByID", ctx, "trade-1").Return(newTrade(models.TradeProposed), nil).Once()

		_, err := f.service.Transition(ctx, carolID, "trade-1", models.TradeCancel)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestTradeService_Get(t *testing.T) {
	ctx := context.Background()
	f := newTradeFixture()
	f.repo.On("GetByID", ctx, "trade-1").Return(&models.Trade{ID: "trade-1", ProposerID: aliceID, RecipientID: bobID}, nil)

	_, err := f.service.Get(ctx, carolID, "trade-1")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	trade, err := f.service.Get(ctx, bobID, "trade-1")
	require.NoError(t, err)
	assert.Equal(t, "trade-1", trade.ID)
}
