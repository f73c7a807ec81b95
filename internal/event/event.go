package event

type Type string

const (
	TypePostCreated    Type = "post.created"
	TypePostLiked      Type = "post.liked"
	TypePostUnliked    Type = "post.unliked"
	TypePostCommented  Type = "post.commented"
	TypePostShared     Type = "post.shared"
	TypeChatMessage    Type = "chat.message"
	TypeUserRegistered Type = "user.registered"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
