package handlers

import (
	"net/http"

	"pocaswap-api/internal/models"
)

// CreateUploadURL handles POST /api/v1/media/upload-url
func (h *Handlers) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req models.UploadURLRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.svc.Media.CreateUploadURL(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, resp)
}

// AddGalleryItem handles POST /api/v1/gallery
func (h *Handlers) AddGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGalleryItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.svc.Gallery.Add(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, item)
}

// ListUserGallery handles GET /api/v1/users/{id}/gallery
func (h *Handlers) ListUserGallery(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	items, meta, err := h.svc.Gallery.ListForUser(r.Context(), pathVar(r, "id"), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, items, meta)
}

// DeleteGalleryItem handles DELETE /api/v1/gallery/{id}
func (h *Handlers) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Gallery.Delete(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDeleted(w)
}
