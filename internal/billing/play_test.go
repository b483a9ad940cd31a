package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testPackage = "com.pocaswap.app"

type fakePlay struct {
	subscriptions map[string]map[string]any
	acked         atomic.Int32
}

func (f *fakePlay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	prefix := "/androidpublisher/v3/applications/" + testPackage + "/purchases/"

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":acknowledge"):
		f.acked.Add(1)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix+"subscriptionsv2/tokens/"):
		token := strings.TrimPrefix(r.URL.Path, prefix+"subscriptionsv2/tokens/")
		sub, ok := f.subscriptions[token]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Purchase token not found"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"unexpected"}}`))
	}
}

func newTestVerifier(t *testing.T, fake *fakePlay) *PlayVerifier {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	v, err := NewPlayVerifier(context.Background(), testPackage, "", zerolog.Nop(),
		option.WithEndpoint(server.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return v
}

func TestGetSubscriptionActive(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	fake := &fakePlay{subscriptions: map[string]map[string]any{
		"tok-active": {
			"subscriptionState":    "SUBSCRIPTION_STATE_ACTIVE",
			"acknowledgementState": "ACKNOWLEDGEMENT_STATE_PENDING",
			"latestOrderId":        "GPA.1234-5678",
			"startTime":            "2026-01-01T00:00:00Z",
			"linkedPurchaseToken":  "tok-old",
			"lineItems": []map[string]any{{
				"productId":        "premium_monthly",
				"expiryTime":       expiry.Format(time.RFC3339),
				"autoRenewingPlan": map[string]any{"autoRenewEnabled": true},
			}},
		},
	}}
	v := newTestVerifier(t, fake)

	p, err := v.GetSubscription(context.Background(), "tok-active")
	require.NoError(t, err)
	assert.Equal(t, "premium_monthly", p.ProductID)
	assert.Equal(t, models.SubscriptionActive, p.Status)
	assert.False(t, p.Pending)
	assert.False(t, p.Acknowledged)
	assert.True(t, p.AutoRenewing)
	assert.Equal(t, "GPA.1234-5678", p.OrderID)
	assert.Equal(t, "tok-old", p.LinkedPurchaseToken)
	assert.True(t, expiry.Equal(p.ExpiresAt))
	assert.Equal(t, 2026, p.StartedAt.Year())
}

func TestGetSubscriptionUnknownToken(t *testing.T) {
	v := newTestVerifier(t, &fakePlay{subscriptions: map[string]map[string]any{}})

	_, err := v.GetSubscription(context.Background(), "tok-missing")
	assert.ErrorIs(t, err, errs.ErrInvalidReceipt)
}

func TestAcknowledge(t *testing.T) {
	fake := &fakePlay{}
	v := newTestVerifier(t, fake)

	require.NoError(t, v.Acknowledge(context.Background(), "premium_monthly", "tok-active"))
	assert.Equal(t, int32(1), fake.acked.Load())
}

func TestToPlayPurchaseStates(t *testing.T) {
	tests := []struct {
		state   string
		status  models.SubscriptionStatus
		pending bool
	}{
		{"SUBSCRIPTION_STATE_ACTIVE", models.SubscriptionActive, false},
		{"SUBSCRIPTION_STATE_IN_GRACE_PERIOD", models.SubscriptionGracePeriod, false},
		{"SUBSCRIPTION_STATE_ON_HOLD", models.SubscriptionOnHold, false},
		{"SUBSCRIPTION_STATE_PAUSED", models.SubscriptionPaused, false},
		{"SUBSCRIPTION_STATE_CANCELED", models.SubscriptionCanceled, false},
		{"SUBSCRIPTION_STATE_EXPIRED", models.SubscriptionExpired, false},
		{"SUBSCRIPTION_STATE_PENDING_PURCHASE_CANCELED", models.SubscriptionExpired, false},
		{"SUBSCRIPTION_STATE_PENDING", models.SubscriptionOnHold, true},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			fake := &fakePlay{subscriptions: map[string]map[string]any{
				"tok": {
					"subscriptionState": tt.state,
					"lineItems":         []map[string]any{{"productId": "premium_monthly", "expiryTime": "2030-01-01T00:00:00Z"}},
				},
			}}
			p, err := newTestVerifier(t, fake).GetSubscription(context.Background(), "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.pending, p.Pending)
		})
	}
}

func TestToPlayPurchaseLatestLineItemWins(t *testing.T) {
	fake := &fakePlay{subscriptions: map[string]map[string]any{
		"tok": {
			"subscriptionState": "SUBSCRIPTION_STATE_ACTIVE",
			"lineItems": []map[string]any{
				{"productId": "premium_monthly", "expiryTime": "2030-01-01T00:00:00Z"},
				{"productId": "premium_yearly", "expiryTime": "2031-01-01T00:00:00Z"},
			},
		},
	}}
	p, err := newTestVerifier(t, fake).GetSubscription(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "premium_yearly", p.ProductID)
}

func TestToPlayPurchaseWithoutLineItems(t *testing.T) {
	fake := &fakePlay{subscriptions: map[string]map[string]any{
		"tok": {"subscriptionState": "SUBSCRIPTION_STATE_ACTIVE"},
	}}
	_, err := newTestVerifier(t, fake).GetSubscription(context.Background(), "tok")
	assert.ErrorIs(t, err, errs.ErrInvalidReceipt)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.GetSubscription(context.Background(), "token")
	assert.ErrorIs(t, err, errs.ErrUpstream)
	assert.ErrorIs(t, Disabled{}.Acknowledge(context.Background(), "premium_monthly", "token"), errs.ErrUpstream)
}
