package core

import (
	"context"
	"time"

	"pocaswap-api/internal/models"
)

// TxManager runs fn inside a database transaction carried on ctx.
// Repositories called with that ctx join the transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines direct database operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)

	Update(ctx context.Context, user *models.User) error
	UpdateLocation(ctx context.Context, userID string, lat, lng float64) error
	UpdateLastLogin(ctx context.Context, userID string) error
	SetActive(ctx context.Context, userID string, active bool) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	FindNearby(ctx context.Context, q models.NearbyQuery, excludeUserID string) ([]models.NearbyUser, error)
}

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id string) (*models.Card, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	MarkTraded(ctx context.Context, ids []string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id string, status models.PostStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	FindNearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyPost, error)
	IncrementViews(ctx context.Context, id string) error
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int, error)
	DeleteComment(ctx context.Context, comment *models.Comment) error
}

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequest(ctx context.Context, id string) (*models.FriendRequest, error)
	PendingBetween(ctx context.Context, a, b string) (*models.FriendRequest, error)
	ListPending(ctx context.Context, userID string, incoming bool) ([]models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, from, to models.FriendRequestStatus, at time.Time) error

	CreateFriendship(ctx context.Context, a, b string, at time.Time) error
	AreFriends(ctx context.Context, a, b string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]models.Friend, error)
	DeleteFriendship(ctx context.Context, a, b string) error
}

type ChatRepository interface {
	// GetOrCreateDirectRoom returns the room shared by a and b and whether it was created.
	GetOrCreateDirectRoom(ctx context.Context, a, b string) (*models.ChatRoom, bool, error)
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	ListRooms(ctx context.Context, userID string) ([]models.RoomSummary, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, roomID string, before *models.MessageCursor, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, roomID, userID string, at time.Time) error
}

type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	GetByID(ctx context.Context, id string) (*models.Trade, error)
	List(ctx context.Context, filter models.TradeFilter) ([]models.Trade, int, error)
	// Transition moves the trade from one status to another only if it is still in from.
	Transition(ctx context.Context, id string, from, to models.TradeStatus, at time.Time) error
	SetChatRoom(ctx context.Context, id, roomID string) error
	HasOpenTradeForCard(ctx context.Context, cardID string) (bool, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	ListByRatee(ctx context.Context, rateeID string, limit, offset int) ([]models.Rating, int, error)
	Summary(ctx context.Context, rateeID string) (*models.RatingSummary, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
	ListByReporter(ctx context.Context, reporterID string) ([]models.Report, error)
	HasOpen(ctx context.Context, reporterID string, targetType models.ReportTargetType, targetID string) (bool, error)
	Resolve(ctx context.Context, id string, status models.ReportStatus, note, adminID string, at time.Time) error
}

type GalleryRepository interface {
	Create(ctx context.Context, item *models.GalleryItem) error
	GetByID(ctx context.Context, id string) (*models.GalleryItem, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.GalleryItem, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type SubscriptionRepository interface {
	GetByPurchaseToken(ctx context.Context, token string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
	ActiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error)
	MarkReplaced(ctx context.Context, token string) error
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

// QuotaStore keeps expiring counters.
type QuotaStore interface {
	Increment(ctx context.Context, key string, expireAt time.Time) (int64, error)
	Decrement(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (int64, error)
}

// RefreshTokenStore tracks issued refresh token ids.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	// Consume returns the owner of jti and deletes it. Unknown ids return errs.ErrNotFound.
	Consume(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

// GoogleTokenVerifier validates Google Sign-In ID tokens.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*models.GoogleIdentity, error)
}

// PurchaseVerifier talks to the store billing API.
type PurchaseVerifier interface {
	GetSubscription(ctx context.Context, purchaseToken string) (*models.PlayPurchase, error)
	Acknowledge(ctx context.Context, productID, purchaseToken string) error
}

// MediaSigner issues direct-upload URLs for object storage.
type MediaSigner interface {
	// SignedUploadURL binds the content type and a maximum body size into the signature.
	SignedUploadURL(ctx context.Context, objectName, contentType string, maxBytes int64, expiresAt time.Time) (string, error)
	PublicURL(objectName string) string
}

// EventPublisher pushes realtime events to connected users.
type EventPublisher interface {
	PublishToUsers(userIDs []string, event models.RealtimeEvent)
}
