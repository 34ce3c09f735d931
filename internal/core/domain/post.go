package domain

import (
	"time"

	"github.com/google/uuid"
)

type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
	PostTypeGIF   PostType = "gif"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeGIF:
		return true
	}
	return false
}

// Post is owned by exactly one user. UserName and UserAvatar are snapshots
// taken at creation time and are not updated when the author's profile
// changes. Likes is always the cardinality of LikedBy.
type Post struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	UserName   string      `json:"userName"`
	UserAvatar string      `json:"userAvatar"`
	Type       PostType    `json:"type"`
	Media      string      `json:"media,omitempty"`
	Caption    string      `json:"caption"`
	Likes      int         `json:"likes"`
	LikedBy    []uuid.UUID `json:"likedBy"`
	Comments   []Comment   `json:"comments"`
	CreatedAt  time.Time   `json:"timestamp"`
	UpdatedAt  time.Time   `json:"-"`
}

// Comment carries a creation-time snapshot of the commenter's name.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}
