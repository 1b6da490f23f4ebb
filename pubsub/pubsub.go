package pubsub

import "context"

// BlogEventsChannel carries every blog lifecycle event.
const BlogEventsChannel = "blog-events"

type PubSub interface {
	Publish(ctx context.Context, channel string, message []byte) error
	// Subscribe delivers messages to handler until ctx is cancelled.
	Subscribe(ctx context.Context, channel string, handler func(message []byte)) error
}
