package handler

import (
	"net/http"

	"sakhi-junction/internal/middleware"
	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
	"sakhi-junction/pkg/apierror"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(service *service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", messages, nil)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("Not authorized to access this route"))
		return
	}

	var payload model.ChatMessageRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.service.Send(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "", msg, nil)
}
