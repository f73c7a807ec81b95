package handler

import (
	"net/http"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
	"sakhi-junction/pkg/apierror"
)

type HealthDataHandler struct {
	service *service.HealthService
}

func NewHealthDataHandler(service *service.HealthService) *HealthDataHandler {
	return &HealthDataHandler{service: service}
}

func (h *HealthDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	data, err := h.service.Get(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", data, nil)
}

func (h *HealthDataHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	var payload model.HealthDataRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Empty() {
		writeError(w, apierror.BadRequest("No health data provided"))
		return
	}

	data, err := h.service.Update(r.Context(), identity.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Health data saved successfully", data, nil)
}

func (h *HealthDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	deleted, err := h.service.Delete(r.Context(), identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Health data deleted successfully",
		map[string]any{"deleted_count": deleted}, nil)
}
