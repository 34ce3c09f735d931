package ports

import "github.com/vibeshare/vibeshare/internal/core/events"

// EventPublisher fans domain events out to interested consumers. Publishing is
// best-effort: callers log failures and carry on.
type EventPublisher interface {
	PublishPostCreated(event events.PostCreatedEvent) error
	PublishPostLiked(event events.PostLikedEvent) error
	PublishPostCommented(event events.PostCommentedEvent) error
}
