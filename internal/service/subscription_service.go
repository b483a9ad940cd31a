package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/metrics"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
)

type SubscriptionService struct {
	repo    core.SubscriptionRepository
	play    core.PurchaseVerifier
	config  *config.Config
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     clock
}

func NewSubscriptionService(repo core.SubscriptionRepository, play core.PurchaseVerifier, cfg *config.Config, rec *metrics.Recorder, logger zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		play:    play,
		config:  cfg,
		metrics: rec,
		logger:  logger.With().Str("component", "subscriptions").Logger(),
		now:     utcNow,
	}
}

// Verify binds a Google Play purchase token to userID. A token is bound to
// exactly one account; presenting it from another account fails with
// errs.ErrPurchaseTokenInUse. Re-verifying one's own token refreshes it.
func (s *SubscriptionService) Verify(ctx context.Context, userID string, req models.VerifyReceiptRequest) (*models.Subscription, error) {
	productID := strings.TrimSpace(req.ProductID)
	token := strings.TrimSpace(req.PurchaseToken)
	if !slices.Contains(s.config.PlayProductIDs, productID) {
		s.metrics.ReceiptVerification(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: unknown product %q", errs.ErrInvalidInput, productID)
	}
	if token == "" {
		s.metrics.ReceiptVerification(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: purchase_token is required", errs.ErrInvalidInput)
	}

	existing, err := s.repo.GetByPurchaseToken(ctx, token)
	switch {
	case err == nil:
		return s.reverify(ctx, userID, productID, existing)
	case !errors.Is(err, errs.ErrNotFound):
		s.metrics.ReceiptVerification(metrics.ResultError)
		return nil, err
	}

	purchase, err := s.fetch(ctx, token, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &models.Subscription{
		ID:            newID(),
		UserID:        userID,
		Platform:      models.PlatformGooglePlay,
		ProductID:     productID,
		PurchaseToken: token,
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	sub.ApplyPurchase(purchase)

	if err := s.repo.Create(ctx, sub); err != nil {
		if !errors.Is(err, errs.ErrConflict) {
			s.metrics.ReceiptVerification(metrics.ResultError)
			return nil, err
		}
		// Lost a race against a concurrent verify of the same token.
		winner, err := s.repo.GetByPurchaseToken(ctx, token)
		if err != nil {
			s.metrics.ReceiptVerification(metrics.ResultError)
			return nil, err
		}
		return s.reverify(ctx, userID, productID, winner)
	}

	s.replaceLinked(ctx, sub)
	s.acknowledge(ctx, sub)

	s.metrics.ReceiptVerification(metrics.ResultOK)
	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Str("purchase_token_suffix", tokenSuffix(token)).
		Str("status", string(sub.Status)).
		Time("expires_at", sub.ExpiresAt).
		Msg("Subscription verified")
	return sub, nil
}

func (s *SubscriptionService) reverify(ctx context.Context, userID, productID string, sub *models.Subscription) (*models.Subscription, error) {
	if sub.UserID != userID {
		s.metrics.ReceiptVerification(metrics.ResultReplay)
		s.logger.Warn().
			Str("user_id", userID).
			Str("owner_id", sub.UserID).
			Str("purchase_token_suffix", tokenSuffix(sub.PurchaseToken)).
			Msg("Purchase token replay rejected")
		return nil, errs.ErrPurchaseTokenInUse
	}
	if sub.ProductID != productID {
		s.metrics.ReceiptVerification(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: token belongs to product %q", errs.ErrInvalidReceipt, sub.ProductID)
	}

	if err := s.refresh(ctx, sub); err != nil {
		s.metrics.ReceiptVerification(metrics.ResultError)
		return nil, err
	}
	s.metrics.ReceiptVerification(metrics.ResultOK)
	return sub, nil
}

// fetch loads a purchase the store must confirm as a live purchase of productID.
func (s *SubscriptionService) fetch(ctx context.Context, token, productID string) (*models.PlayPurchase, error) {
	purchase, err := s.play.GetSubscription(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidReceipt) {
			s.metrics.ReceiptVerification(metrics.ResultInvalid)
		} else {
			s.metrics.ReceiptVerification(metrics.ResultError)
		}
		return nil, err
	}

	var reason string
	switch {
	case purchase.ProductID != productID:
		reason = fmt.Sprintf("purchase is for product %q", purchase.ProductID)
	case purchase.Pending:
		reason = "purchase is pending"
	case purchase.Status == models.SubscriptionExpired || purchase.Status == models.SubscriptionRevoked:
		reason = "purchase is " + string(purchase.Status)
	}
	if reason != "" {
		s.metrics.ReceiptVerification(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidReceipt, reason)
	}
	return purchase, nil
}

// refresh pulls the current store state into a stored subscription.
func (s *SubscriptionService) refresh(ctx context.Context, sub *models.Subscription) error {
	purchase, err := s.play.GetSubscription(ctx, sub.PurchaseToken)
	if err != nil {
		if !errors.Is(err, errs.ErrInvalidReceipt) {
			return err
		}
		// The store no longer knows the token; the purchase is long gone.
		purchase = &models.PlayPurchase{
			ProductID:    sub.ProductID,
			OrderID:      sub.OrderID,
			Status:       models.SubscriptionExpired,
			Acknowledged: sub.Acknowledged,
			ExpiresAt:    sub.ExpiresAt,
		}
	}

	replaced := sub.Status == models.SubscriptionReplaced
	sub.ApplyPurchase(purchase)
	if replaced {
		sub.Status = models.SubscriptionReplaced
	}
	sub.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sub); err != nil {
		return err
	}
	s.replaceLinked(ctx, sub)
	s.acknowledge(ctx, sub)
	return nil
}

// replaceLinked retires the purchase an upgrade or resubscribe superseded.
func (s *SubscriptionService) replaceLinked(ctx context.Context, sub *models.Subscription) {
	if sub.LinkedPurchaseToken == "" || sub.LinkedPurchaseToken == sub.PurchaseToken {
		return
	}
	err := s.repo.MarkReplaced(ctx, sub.LinkedPurchaseToken)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		s.logger.Error().Err(err).
			Str("purchase_token_suffix", tokenSuffix(sub.LinkedPurchaseToken)).
			Msg("Failed to mark linked subscription replaced")
	}
}

// acknowledge is best effort; an unacknowledged purchase is retried on the next refresh.
func (s *SubscriptionService) acknowledge(ctx context.Context, sub *models.Subscription) {
	if sub.Acknowledged || sub.Status != models.SubscriptionActive && sub.Status != models.SubscriptionGracePeriod {
		return
	}
	if err := s.play.Acknowledge(ctx, sub.ProductID, sub.PurchaseToken); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", sub.UserID).
			Str("purchase_token_suffix", tokenSuffix(sub.PurchaseToken)).
			Msg("Purchase acknowledgement failed")
		return
	}
	sub.Acknowledged = true
	if err := s.repo.Update(ctx, sub); err != nil {
		s.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("Failed to store acknowledgement")
	}
}

func (s *SubscriptionService) IsPremium(ctx context.Context, userID string) (bool, error) {
	now := s.now()
	sub, err := s.repo.ActiveForUser(ctx, userID, now)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.GrantsPremium(now), nil
}

func (s *SubscriptionService) Entitlements(ctx context.Context, userID string) (*models.Entitlements, error) {
	now := s.now()
	ent := &models.Entitlements{
		NearbyDailyLimit: s.config.NearbyFreeDailyLimit,
		GalleryLimit:     s.config.GalleryFreeLimit,
	}

	sub, err := s.repo.ActiveForUser(ctx, userID, now)
	if errors.Is(err, errs.ErrNotFound) {
		return ent, nil
	}
	if err != nil {
		return nil, err
	}

	ent.Subscription = sub
	if sub.GrantsPremium(now) {
		ent.IsPremium = true
		ent.NearbyDailyLimit = s.config.NearbyPremiumDailyLimit
		ent.GalleryLimit = s.config.GalleryPremiumLimit
	}
	return ent, nil
}

// HandleNotification refreshes a stored subscription after a store notification.
// Unknown tokens are ignored; the purchase is bound when the app verifies it.
func (s *SubscriptionService) HandleNotification(ctx context.Context, purchaseToken string) error {
	sub, err := s.repo.GetByPurchaseToken(ctx, purchaseToken)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Debug().Str("purchase_token_suffix", tokenSuffix(purchaseToken)).Msg("Notification for unknown purchase token")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.refresh(ctx, sub); err != nil {
		return err
	}
	s.logger.Info().
		Str("user_id", sub.UserID).
		Str("purchase_token_suffix", tokenSuffix(purchaseToken)).
		Str("status", string(sub.Status)).
		Msg("Subscription refreshed from notification")
	return nil
}

func (s *SubscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.repo.ExpireLapsed(ctx, s.now())
}
