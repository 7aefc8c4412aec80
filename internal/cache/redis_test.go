package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without a Redis connection every cache operation degrades to a no-op, so
// the read-through list paths always fall back to the database.
func TestNilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()

	SetCached(ctx, "markets:all", []byte("[]"), time.Minute)
	_, ok := GetCached(ctx, "markets:all")
	assert.False(t, ok)

	InvalidateMarketCaches(ctx)
	InvalidateProductCaches(ctx)
	InvalidateWaveCaches(ctx)

	assert.False(t, IsHealthy())
	assert.Nil(t, GetClient())
}
