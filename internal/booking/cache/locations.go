// Package cache keeps location suggestions for repeated autocomplete queries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

const keyPrefix = "staybook:locations:"

type LocationCache interface {
	Get(ctx context.Context, query string) ([]model.Location, bool)
	Set(ctx context.Context, query string, locations []model.Location)
}

// store is the part of *redis.Client the cache uses.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisLocationCache keys entries by the trimmed lower-case query. Cache
// failures are logged and treated as misses.
type RedisLocationCache struct {
	rdb    store
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisLocationCache(rdb store, ttl time.Duration, log *logger.Logger) *RedisLocationCache {
	return &RedisLocationCache{rdb: rdb, ttl: ttl, logger: log}
}

func Key(query string) string {
	return keyPrefix + sanitizer.NormalizeQuery(query)
}

func (c *RedisLocationCache) Get(ctx context.Context, query string) ([]model.Location, bool) {
	data, err := c.rdb.Get(ctx, Key(query)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Location cache read failed", "query", query, "error", err)
		}
		return nil, false
	}

	var locations []model.Location
	if err := json.Unmarshal(data, &locations); err != nil {
		c.logger.Warn("Location cache entry is corrupt", "query", query, "error", err)
		return nil, false
	}
	return locations, true
}

func (c *RedisLocationCache) Set(ctx context.Context, query string, locations []model.Location) {
	if err := c.set(ctx, query, locations); err != nil {
		c.logger.Warn("Location cache write failed", "query", query, "error", err)
	}
}

func (c *RedisLocationCache) set(ctx context.Context, query string, locations []model.Location) error {
	if locations == nil {
		locations = []model.Location{}
	}
	data, err := json.Marshal(locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}
	return c.rdb.Set(ctx, Key(query), data, c.ttl).Err()
}

// NopLocationCache never hits.
type NopLocationCache struct{}

func (NopLocationCache) Get(context.Context, string) ([]model.Location, bool) { return nil, false }
func (NopLocationCache) Set(context.Context, string, []model.Location)        {}
