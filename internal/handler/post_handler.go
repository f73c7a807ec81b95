package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
	"sakhi-junction/pkg/apierror"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("sort"))
}

// Trending is the feed with the sort pinned; everything else behaves as List.
func (h *PostHandler) Trending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "trending")
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, sort string) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	viewer := viewerFromContext(r)
	posts, meta, err := h.service.List(r.Context(), viewer, page, limit,
		q.Get("category"), q.Get("search"), sort)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", posts, &meta)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), viewerFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", post, nil)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	var payload model.CreatePostRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Post created successfully", post, nil)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := postFromContext(r)
	if !ok {
		writeError(w, apierror.NotFound("Resource not found"))
		return
	}

	var payload model.UpdatePostRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), post, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Post updated successfully", updated, nil)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := postFromContext(r)
	if !ok {
		writeError(w, apierror.NotFound("Resource not found"))
		return
	}

	if err := h.service.Delete(r.Context(), post); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Post deleted successfully", nil, nil)
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	liked, count, err := h.service.ToggleLike(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"is_liked":   liked,
		"like_count": count,
	}, nil)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	var payload model.CommentRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), identity, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Comment added successfully", comment, nil)
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", comments, nil)
}

func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	shares, err := h.service.Share(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"shares": shares}, nil)
}

func viewerFromContext(r *http.Request) *model.AuthUser {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return &identity
}

func postFromContext(r *http.Request) (model.Post, bool) {
	resource, ok := middleware.ResourceFromContext(r.Context())
	if !ok {
		return model.Post{}, false
	}
	post, ok := resource.(model.Post)
	return post, ok
}
