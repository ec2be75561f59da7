package orders

import (
	"context"
	"encoding/json"
	"fmt"

	pubsubv2 "cloud.google.com/go/pubsub/v2"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderCreatedEvent is published when checkout persists a new order.
type OrderCreatedEvent struct {
	OrderID          uuid.UUID         `json:"order_id"`
	UserID           string            `json:"user_id"`
	TotalAmountCents int               `json:"total_amount_cents"`
	ItemCount        int               `json:"item_count"`
	Status           enums.OrderStatus `json:"status"`
}

// EventPublisher delivers order lifecycle events to downstream consumers.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
}

// PubSubPublisher publishes order events on a Pub/Sub topic.
type PubSubPublisher struct {
	publisher *pubsubv2.Publisher
}

// NewPubSubPublisher wraps a topic publisher handle.
func NewPubSubPublisher(publisher *pubsubv2.Publisher) *PubSubPublisher {
	return &PubSubPublisher{publisher: publisher}
}

func (p *PubSubPublisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	if p == nil || p.publisher == nil {
		return fmt.Errorf("order publisher not configured")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	result := p.publisher.Publish(ctx, &pubsubv2.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": "order.created",
			"order_id":   event.OrderID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
