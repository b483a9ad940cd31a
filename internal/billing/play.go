// Package billing talks to the Google Play Developer API for subscription
// purchases and parses Real-time Developer Notifications.
package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
	androidpublisher "google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const acknowledged = "ACKNOWLEDGEMENT_STATE_ACKNOWLEDGED"

// PlayVerifier implements core.PurchaseVerifier for one application package.
type PlayVerifier struct {
	svc         *androidpublisher.Service
	packageName string
	logger      zerolog.Logger
}

var _ core.PurchaseVerifier = (*PlayVerifier)(nil)

// NewPlayVerifier builds the API client. Extra options are appended after the
// credentials option, so tests can point the client at a local server.
func NewPlayVerifier(ctx context.Context, packageName, credentialsFile string, logger zerolog.Logger, opts ...option.ClientOption) (*PlayVerifier, error) {
	if packageName == "" {
		return nil, errors.New("play package name is required")
	}
	clientOpts := []option.ClientOption{option.WithScopes(androidpublisher.AndroidpublisherScope)}
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := androidpublisher.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create android publisher client: %w", err)
	}
	return &PlayVerifier{svc: svc, packageName: packageName, logger: logger}, nil
}

// GetSubscription fetches the subscriptionsv2 view of a purchase token.
// Tokens Google does not recognise return errs.ErrInvalidReceipt.
func (v *PlayVerifier) GetSubscription(ctx context.Context, purchaseToken string) (*models.PlayPurchase, error) {
	resp, err := v.svc.Purchases.Subscriptionsv2.Get(v.packageName, purchaseToken).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("get subscription", err)
	}
	return toPlayPurchase(resp)
}

func (v *PlayVerifier) Acknowledge(ctx context.Context, productID, purchaseToken string) error {
	err := v.svc.Purchases.Subscriptions.Acknowledge(v.packageName, productID, purchaseToken,
		&androidpublisher.SubscriptionPurchasesAcknowledgeRequest{}).Context(ctx).Do()
	if err != nil {
		return mapAPIError("acknowledge subscription", err)
	}
	return nil
}

func mapAPIError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%w: %s: %s", errs.ErrInvalidReceipt, op, gerr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", errs.ErrUpstream, op, err)
}

// toPlayPurchase maps the API response onto the store-neutral purchase view.
// With several line items the one expiring last wins.
func toPlayPurchase(resp *androidpublisher.SubscriptionPurchaseV2) (*models.PlayPurchase, error) {
	if len(resp.LineItems) == 0 {
		return nil, fmt.Errorf("%w: subscription has no line items", errs.ErrInvalidReceipt)
	}

	p := &models.PlayPurchase{
		OrderID:             resp.LatestOrderId,
		Acknowledged:        resp.AcknowledgementState == acknowledged,
		LinkedPurchaseToken: resp.LinkedPurchaseToken,
	}

	for _, item := range resp.LineItems {
		expiry, err := parseTime(item.ExpiryTime)
		if err != nil {
			return nil, fmt.Errorf("%w: bad expiry time: %v", errs.ErrUpstream, err)
		}
		if p.ProductID == "" || expiry.After(p.ExpiresAt) {
			p.ProductID = item.ProductId
			p.ExpiresAt = expiry
			p.AutoRenewing = item.AutoRenewingPlan != nil && item.AutoRenewingPlan.AutoRenewEnabled
		}
	}

	started, err := parseTime(resp.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start time: %v", errs.ErrUpstream, err)
	}
	p.StartedAt = started

	switch resp.SubscriptionState {
	case "SUBSCRIPTION_STATE_ACTIVE":
		p.Status = models.SubscriptionActive
	case "SUBSCRIPTION_STATE_IN_GRACE_PERIOD":
		p.Status = models.SubscriptionGracePeriod
	case "SUBSCRIPTION_STATE_ON_HOLD":
		p.Status = models.SubscriptionOnHold
	case "SUBSCRIPTION_STATE_PAUSED":
		p.Status = models.SubscriptionPaused
	case "SUBSCRIPTION_STATE_CANCELED":
		p.Status = models.SubscriptionCanceled
	case "SUBSCRIPTION_STATE_PENDING":
		p.Pending = true
		p.Status = models.SubscriptionOnHold
	default:
		// EXPIRED, PENDING_PURCHASE_CANCELED and anything newer than this client.
		p.Status = models.SubscriptionExpired
	}
	return p, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Disabled stands in for the Play client when no credentials are configured.
// Every call fails with ErrUpstream.
type Disabled struct{}

var _ core.PurchaseVerifier = Disabled{}

func (Disabled) GetSubscription(context.Context, string) (*models.PlayPurchase, error) {
	return nil, fmt.Errorf("%w: google play billing is not configured", errs.ErrUpstream)
}

func (Disabled) Acknowledge(context.Context, string, string) error {
	return fmt.Errorf("%w: google play billing is not configured", errs.ErrUpstream)
}
