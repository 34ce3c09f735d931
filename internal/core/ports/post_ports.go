package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
)

// FeedFilter narrows the post listing. Exactly one of OwnerID or ExcludeOwnerID
// is set: creators see their own posts, consumers see everyone else's. Search
// is a case-insensitive substring match on caption or author name.
type FeedFilter struct {
	OwnerID        *uuid.UUID
	ExcludeOwnerID *uuid.UUID
	Search         string
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	// GetByID returns the post with likes and comments hydrated, or
	// domain.ErrPostNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	// List returns hydrated posts matching the filter, newest first.
	List(ctx context.Context, filter FeedFilter) ([]*domain.Post, error)
	UpdateCaption(ctx context.Context, id uuid.UUID, caption string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLike and RemoveLike report whether membership actually changed, so a
	// toggle can be decided from the write itself.
	AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	ListLikers(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)

	AddComment(ctx context.Context, comment *domain.Comment) error
	// GetComment returns domain.ErrCommentNotFound when the comment does not
	// belong to the post.
	GetComment(ctx context.Context, postID, commentID uuid.UUID) (*domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID uuid.UUID) error
}

type CreatePostInput struct {
	Type     domain.PostType
	Caption  string
	MediaURL string
	Media    *Upload
}

type PostService interface {
	Feed(ctx context.Context, viewer *domain.User, search string) ([]*domain.Post, error)
	Create(ctx context.Context, author *domain.User, input CreatePostInput) (*domain.Post, error)
	UpdateCaption(ctx context.Context, actor *domain.User, postID uuid.UUID, caption string) (*domain.Post, error)
	Delete(ctx context.Context, actor *domain.User, postID uuid.UUID) error
	ToggleLike(ctx context.Context, actor *domain.User, postID uuid.UUID) ([]uuid.UUID, error)
	AddComment(ctx context.Context, actor *domain.User, postID uuid.UUID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor *domain.User, postID, commentID uuid.UUID) error
}
