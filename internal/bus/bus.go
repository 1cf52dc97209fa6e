// Package bus is the session-scoped fan-out for terminal output. Each
// terminal session has one channel; every connected viewer subscribes to
// it. Delivery is at-most-once with no persistence or replay; a late
// subscriber simply starts from the next snapshot.
package bus

import "context"

// Publisher publishes complete output snapshots to a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload string) error
}

// Subscription is a live feed of payloads from one channel. Close must
// be called to release the underlying subscription.
type Subscription interface {
	// Messages returns the payload stream. The channel is closed when
	// the subscription ends.
	Messages() <-chan string
	Close() error
}

// Subscriber opens subscriptions on channels.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Bus combines both halves; the Redis implementation satisfies it with
// one client.
type Bus interface {
	Publisher
	Subscriber
}

// TerminalChannel names the fan-out channel for one terminal session.
func TerminalChannel(sessionID string) string {
	return "terminal:" + sessionID
}
