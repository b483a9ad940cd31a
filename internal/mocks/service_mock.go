package mocks

import (
	"context"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of core.AuthService
type MockAuthService struct {
	mock.Mock
}

var _ core.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, req models.GoogleLoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

// MockUserService is a mock implementation of core.UserService
type MockUserService struct {
	mock.Mock
}

var _ core.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateLocation(ctx context.Context, userID string, req models.UpdateLocationRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockUserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

func (m *MockUserService) SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyUser, *models.QuotaStatus, error) {
	args := m.Called(ctx, userID, q)
	var r0 []models.NearbyUser
	if v := args.Get(0); v != nil {
		r0 = v.([]models.NearbyUser)
	}
	var r1 *models.QuotaStatus
	if v := args.Get(1); v != nil {
		r1 = v.(*models.QuotaStatus)
	}
	return r0, r1, args.Error(2)
}

func (m *MockUserService) Deactivate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, page int, limit int) ([]models.User, *models.PaginationMetadata, error) {
	args := m.Called(ctx, page, limit)
	var r0 []models.User
	if v := args.Get(0); v != nil {
		r0 = v.([]models.User)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

// MockQuotaService is a mock implementation of core.QuotaService
type MockQuotaService struct {
	mock.Mock
}

var _ core.QuotaService = (*MockQuotaService)(nil)

func (m *MockQuotaService) Consume(ctx context.Context, userID string) (*models.QuotaStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaStatus), args.Error(1)
}

func (m *MockQuotaService) Status(ctx context.Context, userID string) (*models.QuotaStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaStatus), args.Error(1)
}

// MockCardService is a mock implementation of core.CardService
type MockCardService struct {
	mock.Mock
}

var _ core.CardService = (*MockCardService)(nil)

func (m *MockCardService) Create(ctx context.Context, ownerID string, req models.CreateCardRequest) (*models.Card, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Get(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Update(ctx context.Context, userID string, id string, req models.UpdateCardRequest) (*models.Card, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Delete(ctx context.Context, userID string, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockCardService) List(ctx context.Context, filter models.CardFilter) ([]models.Card, *models.PaginationMetadata, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Card
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Card)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

// MockPostService is a mock implementation of core.PostService
type MockPostService struct {
	mock.Mock
}

var _ core.PostService = (*MockPostService)(nil)

func (m *MockPostService) Create(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, viewerID string, id string) (*models.Post, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, userID string, id string, req models.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdateStatus(ctx context.Context, userID string, id string, status models.PostStatus) (*models.Post, error) {
	args := m.Called(ctx, userID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, userID string, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.PaginationMetadata, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Post
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Post)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

func (m *MockPostService) SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyPost, *models.QuotaStatus, error) {
	args := m.Called(ctx, userID, q)
	var r0 []models.NearbyPost
	if v := args.Get(0); v != nil {
		r0 = v.([]models.NearbyPost)
	}
	var r1 *models.QuotaStatus
	if v := args.Get(1); v != nil {
		r1 = v.(*models.QuotaStatus)
	}
	return r0, r1, args.Error(2)
}

func (m *MockPostService) ToggleLike(ctx context.Context, userID string, postID string) (*models.LikeResult, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeResult), args.Error(1)
}

func (m *MockPostService) AddComment(ctx context.Context, userID string, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, userID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockPostService) ListComments(ctx context.Context, postID string, page int, limit int) ([]models.Comment, *models.PaginationMetadata, error) {
	args := m.Called(ctx, postID, page, limit)
	var r0 []models.Comment
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Comment)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

func (m *MockPostService) DeleteComment(ctx context.Context, userID string, commentID string) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

// MockFriendService is a mock implementation of core.FriendService
type MockFriendService struct {
	mock.Mock
}

var _ core.FriendService = (*MockFriendService)(nil)

func (m *MockFriendService) SendRequest(ctx context.Context, requesterID string, req models.SendFriendRequest) (*models.FriendRequest, error) {
	args := m.Called(ctx, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FriendRequest), args.Error(1)
}

func (m *MockFriendService) ListRequests(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID, incoming)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FriendRequest), args.Error(1)
}

func (m *MockFriendService) Accept(ctx context.Context, userID string, requestID string) (*models.AcceptFriendResult, error) {
	args := m.Called(ctx, userID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcceptFriendResult), args.Error(1)
}

func (m *MockFriendService) Reject(ctx context.Context, userID string, requestID string) error {
	return m.Called(ctx, userID, requestID).Error(0)
}

func (m *MockFriendService) Cancel(ctx context.Context, userID string, requestID string) error {
	return m.Called(ctx, userID, requestID).Error(0)
}

func (m *MockFriendService) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Friend), args.Error(1)
}

func (m *MockFriendService) Unfriend(ctx context.Context, userID string, friendID string) error {
	return m.Called(ctx, userID, friendID).Error(0)
}

// MockChatService is a mock implementation of core.ChatService
type MockChatService struct {
	mock.Mock
}

var _ core.ChatService = (*MockChatService)(nil)

func (m *MockChatService) ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoomSummary), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, userID string, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userID, roomID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, userID string, roomID string, req models.SendMessageRequest) (*models.Message, error) {
	args := m.Called(ctx, userID, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatService) MarkRead(ctx context.Context, userID string, roomID string) error {
	return m.Called(ctx, userID, roomID).Error(0)
}

// MockTradeService is a mock implementation of core.TradeService
type MockTradeService struct {
	mock.Mock
}

var _ core.TradeService = (*MockTradeService)(nil)

func (m *MockTradeService) Create(ctx context.Context, proposerID string, req models.CreateTradeRequest) (*models.Trade, error) {
	args := m.Called(ctx, proposerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockTradeService) Get(ctx context.Context, userID string, id string) (*models.Trade, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

func (m *MockTradeService) List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, *models.PaginationMetadata, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Trade
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Trade)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

func (m *MockTradeService) Transition(ctx context.Context, userID string, id string, action models.TradeAction) (*models.Trade, error) {
	args := m.Called(ctx, userID, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trade), args.Error(1)
}

// MockRatingService is a mock implementation of core.RatingService
type MockRatingService struct {
	mock.Mock
}

var _ core.RatingService = (*MockRatingService)(nil)

func (m *MockRatingService) Rate(ctx context.Context, raterID string, tradeID string, req models.CreateRatingRequest) (*models.Rating, error) {
	args := m.Called(ctx, raterID, tradeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) ListForUser(ctx context.Context, userID string, page int, limit int) ([]models.Rating, *models.RatingSummary, *models.PaginationMetadata, error) {
	args := m.Called(ctx, userID, page, limit)
	var r0 []models.Rating
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Rating)
	}
	var r1 *models.RatingSummary
	if v := args.Get(1); v != nil {
		r1 = v.(*models.RatingSummary)
	}
	var r2 *models.PaginationMetadata
	if v := args.Get(2); v != nil {
		r2 = v.(*models.PaginationMetadata)
	}
	return r0, r1, r2, args.Error(3)
}

// MockReportService is a mock implementation of core.ReportService
type MockReportService struct {
	mock.Mock
}

var _ core.ReportService = (*MockReportService)(nil)

func (m *MockReportService) Create(ctx context.Context, reporterID string, req models.CreateReportRequest) (*models.Report, error) {
	args := m.Called(ctx, reporterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) ListMine(ctx context.Context, reporterID string) ([]models.Report, error) {
	args := m.Called(ctx, reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.PaginationMetadata, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Report
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Report)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

func (m *MockReportService) Resolve(ctx context.Context, adminID string, reportID string, req models.ResolveReportRequest) (*models.Report, error) {
	args := m.Called(ctx, adminID, reportID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

// MockGalleryService is a mock implementation of core.GalleryService
type MockGalleryService struct {
	mock.Mock
}

var _ core.GalleryService = (*MockGalleryService)(nil)

func (m *MockGalleryService) Add(ctx context.Context, userID string, req models.CreateGalleryItemRequest) (*models.GalleryItem, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryItem), args.Error(1)
}

func (m *MockGalleryService) ListForUser(ctx context.Context, userID string, page int, limit int) ([]models.GalleryItem, *models.PaginationMetadata, error) {
	args := m.Called(ctx, userID, page, limit)
	var r0 []models.GalleryItem
	if v := args.Get(0); v != nil {
		r0 = v.([]models.GalleryItem)
	}
	var r1 *models.PaginationMetadata
	if v := args.Get(1); v != nil {
		r1 = v.(*models.PaginationMetadata)
	}
	return r0, r1, args.Error(2)
}

func (m *MockGalleryService) Delete(ctx context.Context, userID string, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

// MockMediaService is a mock implementation of core.MediaService
type MockMediaService struct {
	mock.Mock
}

var _ core.MediaService = (*MockMediaService)(nil)

func (m *MockMediaService) CreateUploadURL(ctx context.Context, userID string, req models.UploadURLRequest) (*models.UploadURLResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadURLResponse), args.Error(1)
}

// MockSubscriptionService is a mock implementation of core.SubscriptionService
type MockSubscriptionService struct {
	mock.Mock
}

var _ core.SubscriptionService = (*MockSubscriptionService)(nil)

func (m *MockSubscriptionService) IsPremium(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionService) Verify(ctx context.Context, userID string, req models.VerifyReceiptRequest) (*models.Subscription, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Entitlements(ctx context.Context, userID string) (*models.Entitlements, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entitlements), args.Error(1)
}

func (m *MockSubscriptionService) HandleNotification(ctx context.Context, purchaseToken string) error {
	return m.Called(ctx, purchaseToken).Error(0)
}

func (m *MockSubscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPremiumChecker is a mock implementation of core.PremiumChecker
type MockPremiumChecker struct {
	mock.Mock
}

var _ core.PremiumChecker = (*MockPremiumChecker)(nil)

func (m *MockPremiumChecker) IsPremium(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
