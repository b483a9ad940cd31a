package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"

	"pocaswap-api/internal/billing"
	"pocaswap-api/internal/models"
)

// VerifySubscription handles POST /api/v1/subscriptions/verify
func (h *Handlers) VerifySubscription(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyReceiptRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sub, err := h.svc.Subscriptions.Verify(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, sub)
}

// GetMySubscription handles GET /api/v1/subscriptions/me
func (h *Handlers) GetMySubscription(w http.ResponseWriter, r *http.Request) {
	ent, err := h.svc.Subscriptions.Entitlements(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, ent)
}

// PlayWebhook handles POST /webhooks/google-play?token=...
// A non-2xx answer makes Pub/Sub redeliver, so only failures worth retrying
// (store or database trouble) return one.
func (h *Handlers) PlayWebhook(w http.ResponseWriter, r *http.Request) {
	expected := h.app.Config.PlayWebhookToken
	token := r.URL.Query().Get("token")
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		h.writeErrorCode(w, r, http.StatusUnauthorized, "unauthorized", "Invalid webhook token")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeErrorCode(w, r, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	n, err := billing.ParsePushMessage(body)
	if err != nil {
		h.app.Logger.Warn().Str("request_id", getRequestID(r)).Err(err).Msg("Unreadable Play notification dropped")
		h.writeSuccess(w, map[string]bool{"processed": false})
		return
	}

	log := h.app.Logger.With().
		Str("request_id", getRequestID(r)).
		Str("message_id", n.MessageID).
		Logger()

	if n.Test || n.PurchaseToken == "" {
		log.Info().Bool("test", n.Test).Msg("Play notification acknowledged without action")
		h.writeSuccess(w, map[string]bool{"processed": false})
		return
	}
	if pkg := h.app.Config.PlayPackageName; pkg != "" && n.PackageName != pkg {
		log.Warn().Str("package_name", n.PackageName).Msg("Play notification for another package ignored")
		h.writeSuccess(w, map[string]bool{"processed": false})
		return
	}

	if err := h.svc.Subscriptions.HandleNotification(r.Context(), n.PurchaseToken); err != nil {
		log.Error().Err(err).Int("notification_type", n.NotificationType).Msg("Failed to process Play notification")
		h.writeError(w, r, err)
		return
	}

	log.Info().
		Int("notification_type", n.NotificationType).
		Str("subscription_id", n.SubscriptionID).
		Msg("Play notification processed")
	h.writeSuccess(w, map[string]bool{"processed": true})
}
