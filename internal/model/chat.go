package model

import "time"

type ChatMessage struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	Sender    PostAuthor `json:"sender"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Type      string    `json:"type"`
	ActorName string    `json:"actor_name,omitempty"`
	PostID    string    `json:"post_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	NotificationPostLiked     = "post.liked"
	NotificationPostCommented = "post.commented"
)
