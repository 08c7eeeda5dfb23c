package cache

import (
	"context"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/platform/obs"
	"delivery-assign-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "travel:"

// RedisTravelCache stores travel estimates as JSON values with an optional TTL.
type RedisTravelCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTravelCache connects using a redis:// URL.
func NewRedisTravelCache(redisURL string, ttl time.Duration) (*RedisTravelCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis travel cache: parse url: %w", err)
	}
	return &RedisTravelCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

func NewRedisTravelCacheFromClient(rdb *redis.Client, ttl time.Duration) *RedisTravelCache {
	return &RedisTravelCache{rdb: rdb, ttl: ttl}
}

type redisTravelEntry struct {
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
}

func (c *RedisTravelCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisTravelCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisTravelCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.TravelResult, err error) {
	defer obs.Time(ctx, "travel.cache.redis.Get")(&err)

	raw, err := c.rdb.Get(ctx, c.key(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.TravelResult{}, ports.ErrCacheMiss
	}
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel cache: %w", err)
	}

	var e redisTravelEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel cache: decode entry: %w", err)
	}
	return ports.TravelResult{DurationMinutes: e.DurationMinutes, DistanceKm: e.DistanceKm}, nil
}

func (c *RedisTravelCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	r ports.TravelResult,
) error {
	data, err := json.Marshal(redisTravelEntry{DurationMinutes: r.DurationMinutes, DistanceKm: r.DistanceKm})
	if err != nil {
		return fmt.Errorf("put travel cache: encode entry: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(origin, destination), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("put travel cache: %w", err)
	}
	return nil
}

func (c *RedisTravelCache) key(origin, destination domain.Coordinates) string {
	return redisKeyPrefix + coordKey(origin) + "|" + coordKey(destination)
}
