package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sakhi-junction/internal/model"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) Insert(ctx context.Context, m model.ChatMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, user_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		m.ID, m.UserID, m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListRecent returns the newest messages in chronological order.
func (r *ChatRepository) ListRecent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.user_id, u.name, m.content, m.created_at
		 FROM (SELECT * FROM chat_messages ORDER BY created_at DESC LIMIT $1) m
		 JOIN users u ON u.id = m.user_id
		 ORDER BY m.created_at ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.ChatMessage, 0)
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender.Name, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.Sender.ID = m.UserID
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
