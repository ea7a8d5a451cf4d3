// Package events carries domain events emitted by the assistant tool layer
// after a successful mutation. The notifier service consumes them.
package events

import (
	"context"
	"time"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	OrderPlaced      Type = "order.placed"
	OrderCancelled   Type = "order.cancelled"
	ReviewSubmitted  Type = "review.submitted"
)

type Event struct {
	Type         Type      `json:"type"`
	RestaurantID uint64    `json:"restaurant_id,omitempty"`
	EntityID     uint64    `json:"entity_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher emits events after a mutation commits. Publish failures must not
// fail the already-committed mutation; callers log and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when NATS is not configured and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
