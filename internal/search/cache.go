package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Cache stores search results in Redis so repeated queries skip the
// database. A nil Cache (or one built on a nil client) disables caching
// without callers having to check.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

func cacheKey(query string, locations []string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(query)) +
		":" + strings.ToLower(strings.Join(locations, ","))
}

// GetResults returns cached results and whether the key was present.
func (c *Cache) GetResults(ctx context.Context, query string, locations []string) ([]Result, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, cacheKey(query, locations)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("search cache read failed", "error", err)
		return nil, false
	}

	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn("search cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return results, true
}

// SetResults caches results with the configured TTL. Failures are
// logged and dropped; caching is an optimization, never a dependency.
func (c *Cache) SetResults(ctx context.Context, query string, locations []string, results []Result) {
	if c == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("failed to encode search results for cache", "error", err)
		return
	}
	if err := c.redis.Set(ctx, cacheKey(query, locations), data, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache write failed", "error", err)
	}
}
