package service

import (
	"context"
	"testing"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichmentKey(t *testing.T) {
	a := EnrichmentKey([]string{"ab", "c"})
	b := EnrichmentKey([]string{"a", "bc"})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, EnrichmentKey([]string{"ab", "c"}))
	assert.Contains(t, a, enrichmentKeyPrefix)
	assert.NotEqual(t, EnrichmentKey([]string{"x", "y"}), EnrichmentKey([]string{"y", "x"}))
}

func TestRedisEnrichmentCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewRedisEnrichmentCacheFromClient(client, time.Minute, logging.NewNop())
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "k", &Enrichment{Summary: "s"})

	e, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Nil(t, e)
	assert.Error(t, cache.Ping(ctx))
}

func TestNewRedisEnrichmentCache_BadURL(t *testing.T) {
	_, err := NewRedisEnrichmentCache("not a url", time.Minute, logging.NewNop())
	require.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	var c EnrichmentCache = noopCache{}
	c.Set(context.Background(), "k", &Enrichment{})
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
