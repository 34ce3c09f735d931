package nats

import (
	"encoding/json"

	"github.com/vibeshare/vibeshare/internal/core/events"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type EventPublisher struct {
	client *Client
}

func NewEventPublisher(client *Client) ports.EventPublisher {
	return &EventPublisher{client: client}
}

func (p *EventPublisher) PublishPostCreated(event events.PostCreatedEvent) error {
	return p.publish(events.PostCreated, event)
}

func (p *EventPublisher) PublishPostLiked(event events.PostLikedEvent) error {
	return p.publish(events.PostLiked, event)
}

func (p *EventPublisher) PublishPostCommented(event events.PostCommentedEvent) error {
	return p.publish(events.PostCommented, event)
}

func (p *EventPublisher) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(subject, data)
}
