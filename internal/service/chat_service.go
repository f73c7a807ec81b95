package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sakhi-junction/internal/event"
	"sakhi-junction/internal/model"
	"sakhi-junction/pkg/apierror"
)

type chatStore interface {
	Insert(ctx context.Context, m model.ChatMessage) error
	ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

// ChatService persists community chat messages and fans them out to live
// websocket clients through the event bus.
type ChatService struct {
	store        chatStore
	bus          event.Bus
	historyLimit int
}

func NewChatService(store chatStore, bus event.Bus, historyLimit int) *ChatService {
	if historyLimit <= 0 {
		historyLimit = 50
	}

	return &ChatService{
		store:        store,
		bus:          bus,
		historyLimit: historyLimit,
	}
}

func (s *ChatService) Send(ctx context.Context, sender model.AuthUser, req model.ChatMessageRequest) (model.ChatMessage, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.ChatMessage{}, apierror.BadRequest("Message content is required")
	}

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    sender.ID,
		Sender:    model.PostAuthor{ID: sender.ID, Name: sender.Name},
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, msg); err != nil {
		return model.ChatMessage{}, err
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeChatMessage,
			Payload:   msg,
			Timestamp: msg.CreatedAt.Format(time.RFC3339),
			ActorID:   sender.ID,
		})
	}

	return msg, nil
}

// History returns the newest messages in chronological order so the client
// can render them top to bottom as received.
func (s *ChatService) History(ctx context.Context) ([]model.ChatMessage, error) {
	return s.store.ListRecent(ctx, s.historyLimit)
}
