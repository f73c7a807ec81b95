package handler

import (
	"net/http"

	"sakhi-junction/internal/model"
	"sakhi-junction/internal/service"
)

type ChatbotHandler struct {
	service *service.ChatbotService
}

func NewChatbotHandler(service *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{service: service}
}

func (h *ChatbotHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var payload model.ChatbotRequest
	if err := decodeAndValidate(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"reply": h.service.Reply(payload.Message),
	}, nil)
}
