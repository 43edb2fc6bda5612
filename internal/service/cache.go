package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jjenkins/econsult/internal/logging"
	"github.com/redis/go-redis/v9"
)

const enrichmentKeyPrefix = "econsult:enrichment:"

// Enrichment is the externally computed part of an analysis
type Enrichment struct {
	Summary   string    `json:"summary"`
	WordCloud WordCloud `json:"wordCloud"`
}

// EnrichmentCache stores enrichment results keyed by the comment texts they
// were computed from. Implementations treat every failure as a miss.
type EnrichmentCache interface {
	Get(ctx context.Context, key string) (*Enrichment, bool)
	Set(ctx context.Context, key string, e *Enrichment)
}

// EnrichmentKey derives a cache key from the ordered comment texts
func EnrichmentKey(texts []string) string {
	h := sha256.New()
	var n [8]byte
	for _, t := range texts {
		binary.BigEndian.PutUint64(n[:], uint64(len(t)))
		h.Write(n[:])
		h.Write([]byte(t))
	}
	return enrichmentKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// RedisEnrichmentCache implements EnrichmentCache on Redis
type RedisEnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logging.Logger
}

// NewRedisEnrichmentCache connects to the Redis instance at url
// (redis://[:password@]host:port/db)
func NewRedisEnrichmentCache(url string, ttl time.Duration, log *logging.Logger) (*RedisEnrichmentCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisEnrichmentCacheFromClient(redis.NewClient(opts), ttl, log), nil
}

// NewRedisEnrichmentCacheFromClient wraps an existing client
func NewRedisEnrichmentCacheFromClient(client *redis.Client, ttl time.Duration, log *logging.Logger) *RedisEnrichmentCache {
	return &RedisEnrichmentCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached enrichment for key, if any
func (c *RedisEnrichmentCache) Get(ctx context.Context, key string) (*Enrichment, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("enrichment cache read failed", "key", key, "error", err)
		return nil, false
	}

	var e Enrichment
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn("enrichment cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return &e, true
}

// Set stores e under key with the configured TTL
func (c *RedisEnrichmentCache) Set(ctx context.Context, key string, e *Enrichment) {
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("failed to encode enrichment for cache", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("enrichment cache write failed", "key", key, "error", err)
	}
}

// Ping checks the Redis connection
func (c *RedisEnrichmentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool
func (c *RedisEnrichmentCache) Close() error {
	return c.client.Close()
}

// noopCache is used when no cache is configured
type noopCache struct{}

func (noopCache) Get(context.Context, string) (*Enrichment, bool) { return nil, false }
func (noopCache) Set(context.Context, string, *Enrichment)        {}
