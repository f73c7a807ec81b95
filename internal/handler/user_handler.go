package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
	"sakhi-junction/pkg/apierror"
)

type userVerifier interface {
	SetEmailVerified(ctx context.Context, userID string, verified bool) error
}

type UserHandler struct {
	service *service.AuthService
	users   userVerifier
}

func NewUserHandler(service *service.AuthService, users userVerifier) *UserHandler {
	return &UserHandler{service: service, users: users}
}

// profileResponse exposes the account flags the identity struct keeps out of
// regular API payloads.
type profileResponse struct {
	model.AuthUser
	IsActive        *bool `json:"is_active,omitempty"`
	IsEmailVerified *bool `json:"is_email_verified,omitempty"`
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	fresh, err := h.service.Me(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", profileResponse{
		AuthUser:        fresh,
		IsActive:        fresh.Status.Ptr(),
		IsEmailVerified: fresh.EmailVerification.Ptr(),
	}, nil)
}

// VerifyEmail flags an account as verified. Admin-only; the self-service
// verification link flow lives outside this API.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SetEmailVerified(r.Context(), chi.URLParam(r, "id"), true); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Email verified successfully", nil, nil)
}
