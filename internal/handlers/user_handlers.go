package handlers

import (
	"net/http"

	"pocaswap-api/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// GetMe handles GET /api/v1/me
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	tracer := otel.Tracer("handlers")
	ctx, span := tracer.Start(r.Context(), "Handlers.GetMe")
	defer span.End()

	userID := currentUser(r)
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := h.svc.Users.GetMe(ctx, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, user)
}

// UpdateMe handles PUT /api/v1/me
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.Users.UpdateProfile(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, user)
}

// DeleteMe handles DELETE /api/v1/me by deactivating the account.
func (h *Handlers) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	if err := h.svc.Users.Deactivate(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.app.Logger.Info().
		Str("request_id", getRequestID(r)).
		Str("user_id", userID).
		Msg("User deactivated own account")

	h.writeSuccess(w, map[string]bool{"deactivated": true})
}

// UpdateLocation handles PUT /api/v1/me/location
func (h *Handlers) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.Users.UpdateLocation(r.Context(), currentUser(r), req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, map[string]float64{"latitude": *req.Latitude, "longitude": *req.Longitude})
}

// GetUser handles GET /api/v1/users/{id}
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Users.GetPublicProfile(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, profile)
}

// SearchNearbyUsers handles GET /api/v1/users/nearby. Each call uses one unit
// of the daily nearby quota, reported in meta.quota.
func (h *Handlers) SearchNearbyUsers(w http.ResponseWriter, r *http.Request) {
	q, err := nearbyParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users, quota, err := h.svc.Users.SearchNearby(r.Context(), currentUser(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, users, map[string]any{"quota": quota})
}

// QuotaStatus handles GET /api/v1/search/quota
func (h *Handlers) QuotaStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Quota.Status(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, status)
}

// ListUsers handles GET /api/v1/admin/users with pagination
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	users, meta, err := h.svc.Users.ListUsers(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, users, meta)
}

// DeactivateUser handles POST /api/v1/admin/users/{id}/deactivate
func (h *Handlers) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	target := pathVar(r, "id")
	if err := h.svc.Users.Deactivate(r.Context(), target); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.app.Logger.Info().
		Str("request_id", getRequestID(r)).
		Str("admin_id", currentUser(r)).
		Str("user_id", target).
		Msg("Admin deactivated user")

	h.writeSuccess(w, map[string]any{"user_id": target, "deactivated": true})
}
