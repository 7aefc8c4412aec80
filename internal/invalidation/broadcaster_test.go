package invalidation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	b := New(nil)
	var got []string
	b.Subscribe(func(topic string) { got = append(got, topic) })

	b.Invalidate(context.Background(), TopicMarkets)
	b.Invalidate(context.Background(), TopicWaves)

	assert.Equal(t, []string{TopicMarkets, TopicWaves}, got)
}

func TestInvalidateFansOutToAllSubscribers(t *testing.T) {
	b := New(nil)
	first, second := 0, 0
	b.Subscribe(func(string) { first++ })
	b.Subscribe(func(string) { second++ })

	b.Invalidate(context.Background(), TopicProducts)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestNilBroadcasterIsSafe(t *testing.T) {
	var b *Broadcaster
	b.Invalidate(context.Background(), TopicProducts)
}

func TestListenWithoutRedisReturns(t *testing.T) {
	b := New(nil)
	b.Listen(context.Background())
}
