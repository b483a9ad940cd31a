// Package service implements the use cases of the API on top of the core ports.
package service

import (
	"fmt"
	"math"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
)

var (
	_ core.AuthService         = (*AuthService)(nil)
	_ core.UserService         = (*UserService)(nil)
	_ core.QuotaService        = (*QuotaService)(nil)
	_ core.CardService         = (*CardService)(nil)
	_ core.PostService         = (*PostService)(nil)
	_ core.FriendService       = (*FriendService)(nil)
	_ core.ChatService         = (*ChatService)(nil)
	_ core.TradeService        = (*TradeService)(nil)
	_ core.RatingService       = (*RatingService)(nil)
	_ core.ReportService       = (*ReportService)(nil)
	_ core.GalleryService      = (*GalleryService)(nil)
	_ core.MediaService        = (*MediaService)(nil)
	_ core.SubscriptionService = (*SubscriptionService)(nil)
)

// clock is overridden in tests.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// validateNearby checks a radius search and clamps its limit.
func validateNearby(q models.NearbyQuery, maxRadiusKm float64) (models.NearbyQuery, error) {
	if math.IsNaN(q.Latitude) || q.Latitude < -90 || q.Latitude > 90 {
		return q, fmt.Errorf("%w: latitude must be between -90 and 90", errs.ErrInvalidInput)
	}
	if math.IsNaN(q.Longitude) || q.Longitude < -180 || q.Longitude > 180 {
		return q, fmt.Errorf("%w: longitude must be between -180 and 180", errs.ErrInvalidInput)
	}
	if math.IsNaN(q.RadiusKm) || q.RadiusKm <= 0 || q.RadiusKm > maxRadiusKm {
		return q, fmt.Errorf("%w: radius_km must be greater than 0 and at most %g", errs.ErrInvalidInput, maxRadiusKm)
	}
	_, q.Limit = models.NormalizePage(1, q.Limit)
	return q, nil
}

// tokenSuffix keeps purchase tokens out of logs.
func tokenSuffix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return "..." + token[len(token)-8:]
}

func systemMessage(roomID, content string, at time.Time) *models.Message {
	return &models.Message{
		ID:        newID(),
		RoomID:    roomID,
		Kind:      models.MessageSystem,
		Content:   content,
		CreatedAt: at,
	}
}
