package shared

import "context"

// EventHandler processes domain events
type EventHandler interface {
	// Handle processes a single event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	EventTypes() []string
}

// EventBus dispatches domain events to registered handlers
type EventBus interface {
	// Publish publishes events to all registered handlers.
	// A failing handler must not prevent delivery to the others.
	Publish(ctx context.Context, events ...DomainEvent) error

	// Subscribe registers a handler for specific event types.
	// If no event types are given, the handler's own EventTypes are used.
	Subscribe(handler EventHandler, eventTypes ...string)

	// Unsubscribe removes a handler
	Unsubscribe(handler EventHandler)
}
