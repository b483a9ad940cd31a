package handlers

import (
	"net/http"

	"pocaswap-api/internal/models"
)

// CreateTrade handles POST /api/v1/trades. Set propose to send it right away,
// otherwise the trade is kept as a draft.
func (h *Handlers) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTradeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	trade, err := h.svc.Trades.Create(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, trade)
}

// ListTrades handles GET /api/v1/trades?role=proposer|recipient&status=
func (h *Handlers) ListTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)
	filter := models.TradeFilter{
		UserID: currentUser(r),
		Role:   q.Get("role"),
		Status: models.TradeStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}

	trades, meta, err := h.svc.Trades.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, trades, meta)
}

// GetTrade handles GET /api/v1/trades/{id}
func (h *Handlers) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.svc.Trades.Get(r.Context(), currentUser(r), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, trade)
}

// TradeAction handles POST /api/v1/trades/{id}/{action}. The router limits
// action to the known verbs.
func (h *Handlers) TradeAction(w http.ResponseWriter, r *http.Request) {
	action := models.TradeAction(pathVar(r, "action"))

	trade, err := h.svc.Trades.Transition(r.Context(), currentUser(r), pathVar(r, "id"), action)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, trade)
}

// RateTrade handles POST /api/v1/trades/{id}/ratings
func (h *Handlers) RateTrade(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRatingRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	rating, err := h.svc.Ratings.Rate(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, rating)
}

// ListUserRatings handles GET /api/v1/users/{id}/ratings
func (h *Handlers) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	ratings, summary, meta, err := h.svc.Ratings.ListForUser(r.Context(), pathVar(r, "id"), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, ratings, map[string]any{
		"pagination": meta,
		"summary":    summary,
	})
}
