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
	postUUID    = "44444444-4444-4444-8444-444444444444"
	messageUUID = "55555555-5555-4555-8555-555555555555"
)

type reportFixture struct {
	service *ReportService
	repo    *mocks.MockReportRepository
	users   *mocks.MockUserRepository
	posts   *mocks.MockPostRepository
	chat    *mocks.MockChatRepository
	tx      *mocks.TxManager
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		repo:  new(mocks.MockReportRepository),
		users: new(mocks.MockUserRepository),
		posts: new(mocks.MockPostRepository),
		chat:  new(mocks.MockChatRepository),
		tx:    &mocks.TxManager{},
	}
	f.service = NewReportService(f.repo, f.users, f.posts, f.chat, f.tx, zerolog.Nop())
	f.service.now = fixedClock
	return f
}

func TestReportService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Post", func(t *testing.T) {
		f := newReportFixture()
		f.posts.On("GetByID", ctx, postUUID).Return(&models.Post{ID: postUUID, AuthorID: bobID}, nil).Once()
		f.repo.On("HasOpen", ctx, aliceID, models.ReportTargetPost, postUUID).Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.AnythingOfType("*models.Report")).Return(nil).Once()

		report, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{
			TargetType:  models.ReportTargetPost,
			TargetID:    postUUID,
			Reason:      models.ReasonScam,
			Description: "asks for payment outside the app",
		})

		require.NoError(t, err)
		assert.Equal(t, bobID, report.TargetOwnerID)
		assert.Equal(t, models.ReportPending, report.Status)
	})

	t.Run("Fail_Self", func(t *testing.T) {
		f := newReportFixture()
		f.users.On("GetByID", ctx, aliceID).Return(&models.User{ID: aliceID}, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{TargetType: models.ReportTargetUser, TargetID: aliceID, Reason: models.ReasonSpam})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Fail_AlreadyOpen", func(t *testing.T) {
		f := newReportFixture()
		f.users.On("GetByID", ctx, bobID).Return(&models.User{ID: bobID}, nil).Once()
		f.repo.On("HasOpen", ctx, aliceID, models.ReportTargetUser, bobID).Return(true, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{TargetType: models.ReportTargetUser, TargetID: bobID, Reason: models.ReasonAbuse})

		assert.ErrorIs(t, err, errs.ErrConflict)
		f.repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Fail_MissingTarget", func(t *testing.T) {
		f := newReportFixture()
		f.posts.On("GetComment", ctx, postUUID).Return(nil, errs.ErrNotFound).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{TargetType: models.ReportTargetComment, TargetID: postUUID, Reason: models.ReasonOther})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("Fail_MessageFromOtherRoom", func(t *testing.T) {
		f := newReportFixture()
		sender := bobID
		f.chat.On("GetMessage", ctx, messageUUID).Return(&models.Message{ID: messageUUID, RoomID: "room-9", SenderID: &sender}, nil).Once()
		f.chat.On("GetRoom", ctx, "room-9").Return(&models.ChatRoom{ID: "room-9", MemberIDs: []string{bobID, carolID}}, nil).Once()

		_, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{TargetType: models.ReportTargetMessage, TargetID: messageUUID, Reason: models.ReasonAbuse})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("Fail_UnknownReason", func(t *testing.T) {
		f := newReportFixture()
		_, err := f.service.Create(ctx, aliceID, models.CreateReportRequest{TargetType: models.ReportTargetUser, TargetID: bobID, Reason: "boring"})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestReportService_Resolve(t *testing.T) {
	ctx := context.Background()
	adminID := "admin-1"

	t.Run("ActionedUserDeactivates", func(t *testing.T) {
		f := newReportFixture()
		f.repo.On("GetByID", ctx, "rep-1").Return(&models.Report{ID: "rep-1", TargetType: models.ReportTargetUser, TargetID: bobID, Status: models.ReportPending}, nil).Once()
		f.repo.On("Resolve", ctx, "rep-1", models.ReportActioned, "confirmed", adminID, fixedNow).Return(nil).Once()
		f.users.On("SetActive", ctx, bobID, false).Return(nil).Once()

		report, err := f.service.Resolve(ctx, adminID, "rep-1", models.ResolveReportRequest{Status: models.ReportActioned, Note: "confirmed"})

		require.NoError(t, err)
		assert.Equal(t, models.ReportActioned, report.Status)
		assert.Equal(t, 1, f.tx.Calls)
		f.users.AssertExpectations(t)
	})

	t.Run("ActionedPostCloses", func(t *testing.T) {
		f := newReportFixture()
		f.repo.On("GetByID", ctx, "rep-1").Return(&models.Report{ID: "rep-1", TargetType: models.ReportTargetPost, TargetID: postUUID, Status: models.ReportPending}, nil).Once()
		f.repo.On("Resolve", ctx, "rep-1", models.ReportActioned, "", adminID, fixedNow).Return(nil).Once()
		f.posts.On("UpdateStatus", ctx, postUUID, models.PostClosed).Return(nil).Once()

		_, err := f.service.Resolve(ctx, adminID, "rep-1", models.ResolveReportRequest{Status: models.ReportActioned})

		require.NoError(t, err)
		f.posts.AssertExpectations(t)
	})

	t.Run("DismissedHasNoSideEffect", func(t *testing.T) {
		f := newReportFixture()
		f.repo.On("GetByID", ctx, "rep-1").Return(&models.Report{ID: "rep-1", TargetType: models.ReportTargetUser, TargetID: bobID, Status: models.ReportPending}, nil).Once()
		f.repo.On("Resolve", ctx, "rep-1", models.ReportDismissed, "", adminID, fixedNow).Return(nil).Once()

		_, err := f.service.Resolve(ctx, adminID, "rep-1", models.ResolveReportRequest{Status: models.ReportDismissed})

		require.NoError(t, err)
		f.users.AssertNotCalled(t, "SetActive", ctx, bobID, false)
	})

	t.Run("Fail_AlreadyResolved", func(t *testing.T) {
		f := newReportFixture()
		f.repo.On("GetByID", ctx, "rep-1").Return(&models.Report{ID: "rep-1", Status: models.ReportDismissed}, nil).Once()

		_, err := f.service.Resolve(ctx, adminID, "rep-1", models.ResolveReportRequest{Status: models.ReportActioned})
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
