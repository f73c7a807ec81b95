package handler

import (
	"net/http"
	"time"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
	"sakhi-junction/pkg/apierror"
)

type AuthHandler struct {
	service  *service.AuthService
	tokenTTL time.Duration
}

func NewAuthHandler(service *service.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{service: service, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeSuccess(w, http.StatusCreated, "User registered successfully", result, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeSuccess(w, http.StatusOK, "Login successful", result, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	writeSuccess(w, http.StatusOK, "", identity, nil)
}

// setTokenCookie mirrors the token into an HttpOnly cookie for browser
// clients; the Authorization header remains the primary transport.
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
