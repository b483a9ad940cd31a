package core

import (
	"context"

	"pocaswap-api/internal/models"
)

// AuthService defines sign-in and token lifecycle.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, req models.GoogleLoginRequest) (*models.LoginResponse, error)
	AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// UserService defines the business logic.
type UserService interface {
	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
	UpdateLocation(ctx context.Context, userID string, req models.UpdateLocationRequest) error
	GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error)
	SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyUser, *models.QuotaStatus, error)
	Deactivate(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, page, limit int) ([]models.User, *models.PaginationMetadata, error)
}

// PremiumChecker reports whether a user currently holds premium benefits.
type PremiumChecker interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// QuotaService meters the nearby search.
type QuotaService interface {
	Consume(ctx context.Context, userID string) (*models.QuotaStatus, error)
	Status(ctx context.Context, userID string) (*models.QuotaStatus, error)
}

type CardService interface {
	Create(ctx context.Context, ownerID string, req models.CreateCardRequest) (*models.Card, error)
	Get(ctx context.Context, id string) (*models.Card, error)
	Update(ctx context.Context, userID, id string, req models.UpdateCardRequest) (*models.Card, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, *models.PaginationMetadata, error)
}

type PostService interface {
	Create(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error)
	Get(ctx context.Context, viewerID, id string) (*models.Post, error)
	Update(ctx context.Context, userID, id string, req models.UpdatePostRequest) (*models.Post, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.PostStatus) (*models.Post, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.PaginationMetadata, error)
	SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyPost, *models.QuotaStatus, error)
	ToggleLike(ctx context.Context, userID, postID string) (*models.LikeResult, error)

	AddComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, page, limit int) ([]models.Comment, *models.PaginationMetadata, error)
	DeleteComment(ctx context.Context, userID, commentID string) error
}

type FriendService interface {
	SendRequest(ctx context.Context, requesterID string, req models.SendFriendRequest) (*models.FriendRequest, error)
	ListRequests(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error)
	Accept(ctx context.Context, userID, requestID string) (*models.AcceptFriendResult, error)
	Reject(ctx context.Context, userID, requestID string) error
	Cancel(ctx context.Context, userID, requestID string) error
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
	Unfriend(ctx context.Context, userID, friendID string) error
}

type ChatService interface {
	ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error)
	ListMessages(ctx context.Context, userID, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error)
	SendMessage(ctx context.Context, userID, roomID string, req models.SendMessageRequest) (*models.Message, error)
	MarkRead(ctx context.Context, userID, roomID string) error
}

type TradeService interface {
	Create(ctx context.Context, proposerID string, req models.CreateTradeRequest) (*models.Trade, error)
	Get(ctx context.Context, userID, id string) (*models.Trade, error)
	List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, *models.PaginationMetadata, error)
	Transition(ctx context.Context, userID, id string, action models.TradeAction) (*models.Trade, error)
}

type RatingService interface {
	Rate(ctx context.Context, raterID, tradeID string, req models.CreateRatingRequest) (*models.Rating, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]models.Rating, *models.RatingSummary, *models.PaginationMetadata, error)
}

type ReportService interface {
	Create(ctx context.Context, reporterID string, req models.CreateReportRequest) (*models.Report, error)
	ListMine(ctx context.Context, reporterID string) ([]models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.PaginationMetadata, error)
	Resolve(ctx context.Context, adminID, reportID string, req models.ResolveReportRequest) (*models.Report, error)
}

type GalleryService interface {
	Add(ctx context.Context, userID string, req models.CreateGalleryItemRequest) (*models.GalleryItem, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]models.GalleryItem, *models.PaginationMetadata, error)
	Delete(ctx context.Context, userID, itemID string) error
}

type MediaService interface {
	CreateUploadURL(ctx context.Context, userID string, req models.UploadURLRequest) (*models.UploadURLResponse, error)
}

type SubscriptionService interface {
	PremiumChecker
	Verify(ctx context.Context, userID string, req models.VerifyReceiptRequest) (*models.Subscription, error)
	Entitlements(ctx context.Context, userID string) (*models.Entitlements, error)
	HandleNotification(ctx context.Context, purchaseToken string) error
	ExpireLapsed(ctx context.Context) (int64, error)
}
