package bus

import "time"

// EventBus is the engine's in-process pub/sub hub. World open/close, stage
// transitions, mod and asset notifications all travel through it.
//
// Delivery is synchronous: Publish invokes handlers on the caller goroutine,
// which for engine events is the main loop. Handler errors are joined and
// returned from Publish. Observers see every event regardless of type, which
// is how the inspector mirrors the stream to external tools.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for one event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	// PublishAsync publishes on a separate goroutine; the returned channel
	// receives the joined handler error (or nil) and is then closed.
	PublishAsync(event Event) <-chan error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// GetMetrics returns counters; they only move while an observer is registered.
	GetMetrics() Metrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
)

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about every publish. Observers should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
