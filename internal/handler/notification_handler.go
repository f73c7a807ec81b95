package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/repository"
	"sakhi-junction/pkg/apierror"
)

const defaultNotificationLimit = 20

type NotificationHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultNotificationLimit
	}

	notifications, err := h.repo.ListByUser(r.Context(), identity.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", notifications, nil)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	if err := h.repo.MarkRead(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Notification marked as read", nil, nil)
}
