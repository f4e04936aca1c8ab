// Package pubsub provides a small generic publish/subscribe broker. It fans
// out log lines and change notifications to UI subscribers; it is deliberately
// not used on the coordinator's mutation path, which requires synchronous
// in-order delivery (see internal/extensions).
package pubsub

import (
	"context"
	"time"
)

// EventType labels a published event.
type EventType string

const (
	// LogLineEvent carries a formatted log entry.
	LogLineEvent EventType = "log-line"
	// StoreSavedEvent fires after the placeholder store is written.
	StoreSavedEvent EventType = "store-saved"
	// BarChangedEvent fires when the activity bar needs a repaint.
	BarChangedEvent EventType = "bar-changed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
