// File: internal/models/subscription.go
package models

import "time"

const PlatformGooglePlay = "google_play"

type SubscriptionStatus string

const (
	SubscriptionActive      SubscriptionStatus = "active"
	SubscriptionGracePeriod SubscriptionStatus = "grace_period"
	SubscriptionOnHold      SubscriptionStatus = "on_hold"
	SubscriptionPaused      SubscriptionStatus = "paused"
	SubscriptionCanceled    SubscriptionStatus = "canceled"
	SubscriptionExpired     SubscriptionStatus = "expired"
	SubscriptionRevoked     SubscriptionStatus = "revoked"
	SubscriptionReplaced    SubscriptionStatus = "replaced"
)

// Subscription binds a store purchase token to exactly one user.
type Subscription struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	Platform            string             `json:"platform"`
	ProductID           string             `json:"product_id"`
	PurchaseToken       string             `json:"-"`
	OrderID             string             `json:"order_id"`
	Status              SubscriptionStatus `json:"status"`
	AutoRenewing        bool               `json:"auto_renewing"`
	Acknowledged        bool               `json:"acknowledged"`
	LinkedPurchaseToken string             `json:"-"`
	StartedAt           time.Time          `json:"started_at"`
	ExpiresAt           time.Time          `json:"expires_at"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// GrantsPremium reports whether the subscription entitles premium features at now.
// A canceled subscription keeps its benefits until the paid period ends.
func (s *Subscription) GrantsPremium(now time.Time) bool {
	switch s.Status {
	case SubscriptionActive, SubscriptionGracePeriod, SubscriptionCanceled:
		return s.ExpiresAt.After(now)
	}
	return false
}

// ApplyPurchase copies store state onto the subscription.
func (s *Subscription) ApplyPurchase(p *PlayPurchase) {
	s.Status = p.Status
	s.OrderID = p.OrderID
	s.AutoRenewing = p.AutoRenewing
	s.Acknowledged = p.Acknowledged
	s.LinkedPurchaseToken = p.LinkedPurchaseToken
	s.ExpiresAt = p.ExpiresAt
	if !p.StartedAt.IsZero() {
		s.StartedAt = p.StartedAt
	}
}

// PlayPurchase is the store's view of a subscription purchase.
type PlayPurchase struct {
	ProductID           string
	OrderID             string
	Status              SubscriptionStatus
	Pending             bool
	AutoRenewing        bool
	Acknowledged        bool
	LinkedPurchaseToken string
	StartedAt           time.Time
	ExpiresAt           time.Time
}

type VerifyReceiptRequest struct {
	ProductID     string `json:"product_id" validate:"required,max=100"`
	PurchaseToken string `json:"purchase_token" validate:"required,max=4096"`
}

// Entitlements describes what the caller's plan allows.
type Entitlements struct {
	IsPremium        bool          `json:"is_premium"`
	Subscription     *Subscription `json:"subscription,omitempty"`
	NearbyDailyLimit int           `json:"nearby_daily_limit"`
	GalleryLimit     int           `json:"gallery_limit"`
}
