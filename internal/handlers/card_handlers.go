package handlers

import (
	"fmt"
	"net/http"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/google/uuid"
)

// CreateCard handles POST /api/v1/cards
func (h *Handlers) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCardRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.svc.Cards.Create(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, card)
}

// ListCards handles GET /api/v1/cards?owner_id=&group=&member=&status=
func (h *Handlers) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ownerID := q.Get("owner_id")
	if ownerID != "" {
		id, err := uuid.Parse(ownerID)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: owner_id must be a uuid", errs.ErrInvalidInput))
			return
		}
		ownerID = id.String()
	}
	h.listCards(w, r, ownerID)
}

// ListUserCards handles GET /api/v1/users/{id}/cards
func (h *Handlers) ListUserCards(w http.ResponseWriter, r *http.Request) {
	h.listCards(w, r, pathVar(r, "id"))
}

func (h *Handlers) listCards(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	page, limit := pageParams(r)
	filter := models.CardFilter{
		OwnerID:    ownerID,
		GroupName:  q.Get("group"),
		MemberName: q.Get("member"),
		Status:     models.CardStatus(q.Get("status")),
		Page:       page,
		Limit:      limit,
	}

	cards, meta, err := h.svc.Cards.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, cards, meta)
}

// GetCard handles GET /api/v1/cards/{id}
func (h *Handlers) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Cards.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, card)
}

// UpdateCard handles PUT /api/v1/cards/{id}
func (h *Handlers) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCardRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.svc.Cards.Update(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, card)
}

// DeleteCard handles DELETE /api/v1/cards/{id}
func (h *Handlers) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cards.Delete(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDeleted(w)
}
