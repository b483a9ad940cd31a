package handlers

import (
	"net/http"
	"strconv"

	"pocaswap-api/internal/models"
)

// ListRooms handles GET /api/v1/chat/rooms
func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.Chat.ListRooms(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, rooms)
}

// ListMessages handles GET /api/v1/chat/rooms/{id}/messages?before=&before_id=&limit=
// Messages come newest first; meta.next_before and meta.next_before_id fetch the next page.
func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	before, err := cursorParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.svc.Chat.ListMessages(r.Context(), currentUser(r), pathVar(r, "id"), before, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	meta := map[string]any{"has_more": false}
	if n := len(messages); n > 0 {
		meta["next_before"] = messages[n-1].CreatedAt
		meta["next_before_id"] = messages[n-1].ID
		meta["has_more"] = n >= effectiveMessageLimit(limit)
	}
	h.writeData(w, http.StatusOK, messages, meta)
}

func effectiveMessageLimit(limit int) int {
	if limit < 1 {
		return models.DefaultMessageLimit
	}
	if limit > models.MaxPageLimit {
		return models.MaxPageLimit
	}
	return limit
}

// SendMessage handles POST /api/v1/chat/rooms/{id}/messages
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.svc.Chat.SendMessage(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, msg)
}

// MarkRead handles POST /api/v1/chat/rooms/{id}/read
func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Chat.MarkRead(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, map[string]bool{"read": true})
}

// Websocket handles GET /api/v1/ws. Auth has already run, so the caller is known.
func (h *Handlers) Websocket(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.app.Logger.Warn().
			Str("request_id", getRequestID(r)).
			Str("user_id", userID).
			Err(err).
			Msg("Websocket upgrade failed")
		return
	}

	h.app.Logger.Debug().
		Str("request_id", getRequestID(r)).
		Str("user_id", userID).
		Msg("Websocket connected")

	h.socket.Serve(conn, userID)
}
