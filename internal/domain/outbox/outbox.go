package outbox

import "context"

// Event is any domain event carrying a stable name identifier.
type Event interface {
	EventName() string
}

// Handler processes one published event. Returning an error marks the
// delivery failed for that handler only; other subscribers still run.
type Handler func(ctx context.Context, e Event) error

// Publisher enqueues events for delivery to interested subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers handlers keyed by event name.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}

// Bus is both ends of the event pipe, as wired in the composition root.
type Bus interface {
	Publisher
	Subscriber
}
