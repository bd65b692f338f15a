package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// SummaryCache keeps computed summaries in Redis for a short TTL so repeated
// dashboard polls don't recompute over the full expense list. Keys are scoped
// per user and timeframe; any mutation to a user's expenses drops all of
// that user's entries.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(userID, timeframe string) string {
	return "summary:" + userID + ":" + timeframe
}

// Get unmarshals the cached summary into dest, reporting whether it was found.
func (c *SummaryCache) Get(ctx context.Context, userID, timeframe string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, summaryKey(userID, timeframe)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the summary under the user+timeframe key.
func (c *SummaryCache) Set(ctx context.Context, userID, timeframe string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryKey(userID, timeframe), data, c.ttl).Err()
}

// Invalidate drops every cached summary for the user.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	keys := make([]string, 0, 3)
	for _, tf := range []string{"week", "month", "year"} {
		keys = append(keys, summaryKey(userID, tf))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
