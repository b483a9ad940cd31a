package handlers

import (
	"fmt"
	"net/http"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/google/uuid"
)

// CreatePost handles POST /api/v1/posts
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.svc.Posts.Create(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, post)
}

// ListPosts handles GET /api/v1/posts?kind=&status=&group=&q=&author_id=
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)
	filter := models.PostFilter{
		Kind:      models.PostKind(q.Get("kind")),
		Status:    models.PostStatus(q.Get("status")),
		GroupName: q.Get("group"),
		Query:     q.Get("q"),
		Page:      page,
		Limit:     limit,
	}
	if raw := q.Get("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: author_id must be a uuid", errs.ErrInvalidInput))
			return
		}
		filter.AuthorID = id.String()
	}

	posts, meta, err := h.svc.Posts.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, posts, meta)
}

// SearchNearbyPosts handles GET /api/v1/posts/nearby
func (h *Handlers) SearchNearbyPosts(w http.ResponseWriter, r *http.Request) {
	q, err := nearbyParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	posts, quota, err := h.svc.Posts.SearchNearby(r.Context(), currentUser(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeData(w, http.StatusOK, posts, map[string]any{"quota": quota})
}

// GetPost handles GET /api/v1/posts/{id}
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Posts.Get(r.Context(), currentUser(r), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, post)
}

// UpdatePost handles PUT /api/v1/posts/{id}
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.svc.Posts.Update(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, post)
}

// UpdatePostStatus handles PATCH /api/v1/posts/{id}/status
func (h *Handlers) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.svc.Posts.UpdateStatus(r.Context(), currentUser(r), pathVar(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, post)
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Posts.Delete(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDeleted(w)
}

// ToggleLike handles POST /api/v1/posts/{id}/like
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Posts.ToggleLike(r.Context(), currentUser(r), pathVar(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, result)
}

// ListComments handles GET /api/v1/posts/{id}/comments
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	comments, meta, err := h.svc.Posts.ListComments(r.Context(), pathVar(r, "id"), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, comments, meta)
}

// AddComment handles POST /api/v1/posts/{id}/comments
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.svc.Posts.AddComment(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, comment)
}

// DeleteComment handles DELETE /api/v1/comments/{id}
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Posts.DeleteComment(r.Context(), currentUser(r), pathVar(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDeleted(w)
}
