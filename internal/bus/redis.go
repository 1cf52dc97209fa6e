package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus implements Bus over Redis pub/sub. The client is shared and
// safe for concurrent use; each Subscribe opens its own PubSub
// connection as go-redis requires.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, payload string) error {
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channel)

	// Receive confirms the subscription is established before the
	// caller starts relying on it.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", channel, err)
	}

	sub := &redisSubscription{
		pubsub:   pubsub,
		messages: make(chan string),
		done:     make(chan struct{}),
	}
	go sub.pump(pubsub.Channel())
	return sub, nil
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	messages  chan string
	done      chan struct{}
	closeOnce sync.Once
}

// pump forwards payloads until go-redis closes its channel or the
// subscription is closed. The done check keeps a closed subscription
// whose reader already stopped from blocking this goroutine forever.
func (s *redisSubscription) pump(in <-chan *redis.Message) {
	defer close(s.messages)
	for msg := range in {
		select {
		case s.messages <- msg.Payload:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Messages() <-chan string {
	return s.messages
}

// Close unsubscribes and ends the message stream.
func (s *redisSubscription) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.pubsub.Close()
}
