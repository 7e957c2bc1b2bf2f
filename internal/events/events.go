// AngelaMos | 2026
// events.go

package events

import (
	"context"
	"time"
)

// Event is a domain fact mirrored to downstream consumers. Routing keys
// take the form "activity.<type>".
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Event) RoutingKey() string {
	return "activity." + e.Type
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Ping(ctx context.Context) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher is used when the broker is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Ping(context.Context) error           { return nil }
func (noopPublisher) Close() error                         { return nil }
