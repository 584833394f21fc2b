package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"xchange/internal/models"
)

// EventPublisher handles publishing archive events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishArchiveCreated publishes an ArchiveCreated event, keyed by the
// container name so replays of the same archive land in order.
func (ep *EventPublisher) PublishArchiveCreated(ctx context.Context, event *models.ArchiveCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, event.Name, event)
}

// DecodeArchiveCreated parses an incoming message as an ArchiveCreated event.
func DecodeArchiveCreated(msg kafka.Message) (*models.ArchiveCreatedEvent, error) {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return nil, fmt.Errorf("failed to unmarshal base event: %w", err)
	}
	if base.EventType != models.EventTypeArchiveCreated {
		return nil, fmt.Errorf("unexpected event type %q", base.EventType)
	}
	var event models.ArchiveCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ArchiveCreated event: %w", err)
	}
	if event.Bucket == "" || event.Name == "" {
		return nil, fmt.Errorf("event missing bucket or name")
	}
	return &event, nil
}
