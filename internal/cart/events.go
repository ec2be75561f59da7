package cart

import (
	"context"
	"time"
)

// EventType labels a cart event for downstream consumers.
type EventType string

const (
	EventItemAdded EventType = "item_added"
)

// Event is the fire-and-forget notification emitted by cart mutations.
// Consumers render toasts ("Added: <name>") or record in-app notifications.
type Event struct {
	Type        EventType
	UserID      string
	Key         LineKey
	ProductName string
	Quantity    int
	OccurredAt  time.Time
}

// publish hands the event to the subscriber channel without blocking. A full
// buffer drops the event; notification delivery never stalls a mutation.
func (s *Store) publish(ctx context.Context, evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.events <- evt:
	default:
		s.logg.Warn(ctx, "cart event dropped, buffer full")
	}
}
