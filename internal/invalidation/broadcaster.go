package invalidation

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Topics broadcast when catalog data changes. Clients holding a local copy
// of the catalog re-fetch on receipt.
const (
	TopicMarkets  = "markets"
	TopicProducts = "products"
	TopicWaves    = "waves"
)

const channel = "catalog:invalidate"

// Listener receives invalidation topics. Callbacks must not block.
type Listener func(topic string)

// Broadcaster fans invalidation topics out to in-process listeners and,
// when a Redis client is available, to other instances via pub/sub.
type Broadcaster struct {
	mu        sync.Mutex
	listeners []Listener
	rdb       *redis.Client
}

// New creates a Broadcaster. rdb may be nil, in which case broadcasts stay
// in-process only.
func New(rdb *redis.Client) *Broadcaster {
	return &Broadcaster{rdb: rdb}
}

// Subscribe registers an in-process listener for all topics.
func (b *Broadcaster) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Invalidate notifies local listeners and publishes the topic for other
// instances. Safe to call on a nil Broadcaster.
func (b *Broadcaster) Invalidate(ctx context.Context, topic string) {
	if b == nil {
		return
	}
	b.notify(topic)
	if b.rdb != nil {
		if err := b.rdb.Publish(ctx, channel, topic).Err(); err != nil {
			log.Printf("[Invalidation] publish %s failed: %v", topic, err)
		}
	}
}

func (b *Broadcaster) notify(topic string) {
	b.mu.Lock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()
	for _, l := range listeners {
		l(topic)
	}
}

// Listen consumes invalidation topics published by other instances and
// replays them to local listeners. Blocks until ctx is cancelled; run it
// in its own goroutine. No-op without a Redis client.
func (b *Broadcaster) Listen(ctx context.Context) {
	if b == nil || b.rdb == nil {
		return
	}
	sub := b.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.notify(msg.Payload)
		}
	}
}
