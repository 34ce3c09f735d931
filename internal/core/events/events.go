package events

import (
	"time"

	"github.com/google/uuid"
)

// NATS subjects.
const (
	PostCreated   = "post.created"
	PostLiked     = "post.liked"
	PostCommented = "post.commented"
)

type PostCreatedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type PostLikedEvent struct {
	PostID  uuid.UUID `json:"post_id"`
	UserID  uuid.UUID `json:"user_id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Liked   bool      `json:"liked"`
	Likes   int       `json:"likes"`
}

type PostCommentedEvent struct {
	PostID    uuid.UUID `json:"post_id"`
	CommentID uuid.UUID `json:"comment_id"`
	UserID    uuid.UUID `json:"user_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
