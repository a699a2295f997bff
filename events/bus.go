package events

import "io"

// SubscriptionOpt configures a subscription.
type SubscriptionOpt = func(interface{}) error

// Subscription is a live subscription to one or more event types.
type Subscription interface {
	io.Closer

	// Out returns the channel from which to consume events.
	Out() <-chan interface{}
}

// Bus is a type-based in-process event delivery system. API handlers and
// scheduled jobs emit domain events onto the bus; the notifier consumes
// them and turns them into notifications.
type Bus interface {
	// Subscribe creates a new Subscription.
	//
	// eventType is either a pointer to a single event type or a slice of
	// pointers to subscribe to several types on one channel. Failing to
	// drain the channel may block publishers.
	Subscribe(eventType interface{}, opts ...SubscriptionOpt) (Subscription, error)

	// Emit publishes an event to all subscribers of its type. If a
	// subscriber's channel is full the call blocks until it drains.
	Emit(event interface{})
}
