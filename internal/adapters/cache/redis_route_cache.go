package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:"

// Redis backed route cache shared across service replicas.
// Expiry is delegated to Redis; a zero TTL stores keys without expiry.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// Fetch a cached route by key.
func (c *RedisRouteCache) GetRoute(
	ctx context.Context,
	key string,
) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.GetRoute")(&err)

	if c.Client == nil {
		return nil, false, errors.New("route cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	payload, err := c.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: redis get %q: %w", key, err)
	}

	var route domain.Route
	if err := json.Unmarshal(payload, &route); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode payload for %q: %w", key, err)
	}

	return &route, true, nil
}

// Store a route under key with the configured TTL.
func (c *RedisRouteCache) PutRoute(ctx context.Context, key string, route *domain.Route) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if route == nil {
		return errors.New("insert route cache: route is nil")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode route: %w", err)
	}

	if err := c.Client.Set(ctx, redisKeyPrefix+key, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
