package handlers

import (
	"fmt"
	"net/http"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
)

// SendFriendRequest handles POST /api/v1/friends/requests
func (h *Handlers) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req models.SendFriendRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	fr, err := h.svc.Friends.SendRequest(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, fr)
}

// ListFriendRequests handles GET /api/v1/friends/requests?direction=incoming|outgoing
func (h *Handlers) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	var incoming bool
	switch r.URL.Query().Get("direction") {
	case "", "incoming":
		incoming = true
	case "outgoing":
	default:
		h.writeError(w, r, fmt.Errorf("%w: direction must be incoming or outgoing", errs.ErrInvalidInput))
		return
	}

	requests, err := h.svc.Friends.ListRequests(r.Context(), currentUser(r), incoming)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, requests)
}

// AcceptFriendRequest handles POST /api/v1/friends/requests/{id}/accept
func (h *Handlers) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Friends.Accept(r.Context(), currentUser(r), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, result)
}

// RejectFriendRequest handles POST /api/v1/friends/requests/{id}/reject
func (h *Handlers) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Friends.Reject(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, map[string]string{"status": string(models.FriendRequestRejected)})
}

// CancelFriendRequest handles DELETE /api/v1/friends/requests/{id}
func (h *Handlers) CancelFriendRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Friends.Cancel(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, map[string]string{"status": string(models.FriendRequestCanceled)})
}

// ListFriends handles GET /api/v1/friends
func (h *Handlers) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.Friends.ListFriends(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, friends)
}

// Unfriend handles DELETE /api/v1/friends/{userId}
func (h *Handlers) Unfriend(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Friends.Unfriend(r.Context(), currentUser(r), pathVar(r, "userId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDeleted(w)
}
