package queue

import "context"

// EventsQueueName is the durable queue carrying every production
// lifecycle event for downstream consumers (reporting, ETL).
const EventsQueueName = "production.events"

// Publisher publishes production events to the broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
