// Package placecache caches place-search results in Redis so repeated
// queries (type-ahead search boxes hammer the same prefixes) do not burn
// provider quota. A cache failure is never fatal — callers fall back to the
// provider.
package placecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joyroute/backend/internal/domain"
)

// DefaultTTL is how long a cached search result stays valid.
// Provider data for a query barely changes day to day.
const DefaultTTL = 24 * time.Hour

// Cache stores normalized place suggestions keyed by search parameters.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New constructs a Cache on the given Redis client. ttl <= 0 falls back to
// DefaultTTL.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// key builds a deterministic cache key from the search parameters.
func key(query string, autocomplete bool, limit int) string {
	return "place-search:" + strconv.FormatBool(autocomplete) + ":" + strconv.Itoa(limit) + ":" + query
}

// Get returns the cached suggestions for the search parameters.
// The second return value is false on a cache miss.
func (c *Cache) Get(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, bool, error) {
	raw, err := c.rdb.Get(ctx, key(query, autocomplete, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("placecache.Cache.Get: %w", err)
	}

	var suggestions []domain.PlaceSuggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, false, nil
	}
	return suggestions, true, nil
}

// Set stores the suggestions for the search parameters with the cache TTL.
func (c *Cache) Set(ctx context.Context, query string, autocomplete bool, limit int, suggestions []domain.PlaceSuggestion) error {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("placecache.Cache.Set: marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, key(query, autocomplete, limit), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("placecache.Cache.Set: %w", err)
	}
	return nil
}
