package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// summaryCache is a read-through Redis cache for summaries, keyed by user id
// with a short fixed expiry. Reads fail open: any Redis error is treated as
// a miss so the report path keeps working without the cache.
type summaryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newSummaryCache(client *redis.Client, ttl time.Duration) *summaryCache {
	return &summaryCache{
		client: client,
		prefix: "report:summary:",
		ttl:    ttl,
	}
}

// Get returns the cached summary for a user, or false on a miss.
func (c *summaryCache) Get(ctx context.Context, userID string) (*Summary, bool) {
	data, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[report] cache read failed: %v", err)
		}
		return nil, false
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		log.Printf("[report] cache decode failed: %v", err)
		return nil, false
	}
	return &summary, true
}

// Set stores a summary under the user's key with the cache TTL.
func (c *summaryCache) Set(ctx context.Context, userID string, summary *Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+userID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *summaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (c *summaryCache) Close() error {
	return c.client.Close()
}
