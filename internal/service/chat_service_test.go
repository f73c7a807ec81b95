package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sakhi-junction/internal/event"
	"sakhi-junction/internal/model"
)

type memoryChatStore struct {
	messages []model.ChatMessage
}

func (s *memoryChatStore) Insert(_ context.Context, m model.ChatMessage) error {
	s.messages = append(s.messages, m)
	return nil
}

func (s *memoryChatStore) ListRecent(_ context.Context, limit int) ([]model.ChatMessage, error) {
	if len(s.messages) > limit {
		return s.messages[len(s.messages)-limit:], nil
	}
	return s.messages, nil
}

func TestChatService_SendPersistsAndPublishes(t *testing.T) {
	store := &memoryChatStore{}
	bus := event.NewBus()
	svc := NewChatService(store, bus, 50)

	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	sender := model.AuthUser{ID: "u1", Name: "Asha"}
	msg, err := svc.Send(context.Background(), sender, model.ChatMessageRequest{Content: "  hello everyone  "})
	require.NoError(t, err)

	assert.Equal(t, "hello everyone", msg.Content)
	assert.Equal(t, "Asha", msg.Sender.Name)
	require.Len(t, store.messages, 1)

	select {
	case e := <-events:
		assert.Equal(t, event.TypeChatMessage, e.Type)
		assert.Equal(t, "u1", e.ActorID)
	case <-time.After(time.Second):
		t.Fatal("expected a chat.message event")
	}
}

func TestChatService_SendRejectsBlank(t *testing.T) {
	svc := NewChatService(&memoryChatStore{}, event.NewBus(), 50)

	_, err := svc.Send(context.Background(), model.AuthUser{ID: "u1"}, model.ChatMessageRequest{Content: "   "})
	assert.Error(t, err)
}

func TestChatService_HistoryUsesLimit(t *testing.T) {
	store := &memoryChatStore{}
	svc := NewChatService(store, event.NewBus(), 2)

	for i := 0; i < 5; i++ {
		_, err := svc.Send(context.Background(), model.AuthUser{ID: "u1"}, model.ChatMessageRequest{Content: "msg"})
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
