package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/events"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

const maxMediaSize = 50 * 1024 * 1024

type postService struct {
	posts     ports.PostRepository
	store     ports.ObjectStore
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewPostService builds the post service. publisher may be nil when no event
// broker is configured; publishing is skipped entirely in that case.
func NewPostService(posts ports.PostRepository, store ports.ObjectStore, publisher ports.EventPublisher, logger *slog.Logger) ports.PostService {
	return &postService{
		posts:     posts,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Feed returns the viewer's feed: creators see only their own posts, consumers
// see everyone else's. The search filter is a consumer-only feature.
func (s *postService) Feed(ctx context.Context, viewer *domain.User, search string) ([]*domain.Post, error) {
	filter := ports.FeedFilter{}
	if viewer.UserType == domain.UserTypeCreator {
		id := viewer.ID
		filter.OwnerID = &id
	} else {
		id := viewer.ID
		filter.ExcludeOwnerID = &id
		filter.Search = strings.TrimSpace(search)
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Create(ctx context.Context, author *domain.User, input ports.CreatePostInput) (*domain.Post, error) {
	if author.UserType != domain.UserTypeCreator {
		return nil, domain.ErrForbidden
	}

	postType := input.Type
	if postType == "" {
		postType = domain.PostTypeImage
	}
	if !postType.Valid() {
		return nil, domain.NewValidationError("type must be text, image, video or gif")
	}

	caption := strings.TrimSpace(input.Caption)
	if postType == domain.PostTypeText && caption == "" {
		return nil, domain.NewValidationError("caption required for text posts")
	}

	var media string
	if postType != domain.PostTypeText {
		var err error
		media, err = s.resolveMedia(ctx, author, postType, input)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	post := &domain.Post{
		ID:         uuid.New(),
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar(),
		Type:       postType,
		Media:      media,
		Caption:    caption,
		LikedBy:    []uuid.UUID{},
		Comments:   []domain.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publish(func(p ports.EventPublisher) error {
		return p.PublishPostCreated(events.PostCreatedEvent{
			PostID:    post.ID,
			UserID:    post.UserID,
			Type:      string(post.Type),
			Caption:   post.Caption,
			CreatedAt: post.CreatedAt,
		})
	})

	return post, nil
}

func (s *postService) UpdateCaption(ctx context.Context, actor *domain.User, postID uuid.UUID, caption string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}

	// An empty caption keeps the existing one.
	caption = strings.TrimSpace(caption)
	if caption == "" {
		caption = post.Caption
	}
	if err := s.posts.UpdateCaption(ctx, postID, caption); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post.Caption = caption
	return post, nil
}

// Delete removes the post, then best-effort deletes the backing media object.
// The two writes are not atomic: a failed blob delete leaves an orphaned
// object, never a failed request.
func (s *postService) Delete(ctx context.Context, actor *domain.User, postID uuid.UUID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actor.ID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if post.Media != "" && s.store.Owns(post.Media) {
		if _, err := s.store.Delete(ctx, post.Media); err != nil {
			s.logger.Warn("failed to delete post media", "post_id", postID, "error", err)
		}
	}
	return nil
}

// ToggleLike flips the actor's membership in the post's liked-by set and
// returns the resulting set. The like count is always the set's cardinality.
func (s *postService) ToggleLike(ctx context.Context, actor *domain.User, postID uuid.UUID) ([]uuid.UUID, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	removed, err := s.posts.RemoveLike(ctx, postID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	liked := false
	if !removed {
		if _, err := s.posts.AddLike(ctx, postID, actor.ID); err != nil {
			return nil, fmt.Errorf("failed to toggle like: %w", err)
		}
		liked = true
	}

	likedBy, err := s.posts.ListLikers(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}

	s.publish(func(p ports.EventPublisher) error {
		return p.PublishPostLiked(events.PostLikedEvent{
			PostID:  postID,
			UserID:  actor.ID,
			OwnerID: post.UserID,
			Liked:   liked,
			Likes:   len(likedBy),
		})
	})

	return likedBy, nil
}

func (s *postService) AddComment(ctx context.Context, actor *domain.User, postID uuid.UUID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("comment text required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    actor.ID,
		UserName:  actor.Name,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.publish(func(p ports.EventPublisher) error {
		return p.PublishPostCommented(events.PostCommentedEvent{
			PostID:    postID,
			CommentID: comment.ID,
			UserID:    actor.ID,
			OwnerID:   post.UserID,
			CreatedAt: comment.CreatedAt,
		})
	})

	return comment, nil
}

// DeleteComment allows the comment's author or the post's owner, nobody else.
func (s *postService) DeleteComment(ctx context.Context, actor *domain.User, postID, commentID uuid.UUID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actor.ID && post.UserID != actor.ID {
		return domain.ErrForbidden
	}
	return s.posts.DeleteComment(ctx, postID, commentID)
}

func (s *postService) resolveMedia(ctx context.Context, author *domain.User, postType domain.PostType, input ports.CreatePostInput) (string, error) {
	if upload := input.Media; upload != nil {
		if upload.Size > maxMediaSize {
			return "", domain.NewValidationError("file too large, max 50MB")
		}
		if !strings.HasPrefix(upload.ContentType, "image/") && !strings.HasPrefix(upload.ContentType, "video/") {
			return "", domain.NewValidationError("only image and video files are allowed")
		}

		fallbackExt := "jpg"
		switch postType {
		case domain.PostTypeVideo:
			fallbackExt = "mp4"
		case domain.PostTypeGIF:
			fallbackExt = "gif"
		}
		name := fmt.Sprintf("post-%s-%d.%s", author.ID, time.Now().UnixMilli(), fileExtension(upload.Name, fallbackExt))

		url, err := s.store.Upload(ctx, upload.Data, name, upload.ContentType, string(postType))
		if err != nil {
			return "", fmt.Errorf("failed to upload media file to storage: %w", err)
		}
		return url, nil
	}

	if input.MediaURL != "" {
		return input.MediaURL, nil
	}
	return "", domain.NewValidationError("media file or URL required")
}

func (s *postService) publish(fn func(ports.EventPublisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Warn("failed to publish event", "error", err)
	}
}
