// Package cache holds read-through caching for latest optimization results.
// Map views poll the latest result far more often than operators recompute
// it, so the hot read is served from Redis when one is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

// RedisResultCache stores the most recent RouteOptimizationResult per vehicle.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisResultCache{client: client, ttl: ttl}
}

func resultKey(vehicleID int64) string {
	return fmt.Sprintf("vehicle_route:latest:%d", vehicleID)
}

// Get returns the cached latest result for a vehicle and whether one was
// present.
func (c *RedisResultCache) Get(ctx context.Context, vehicleID int64) (*domain.RouteOptimizationResult, bool, error) {
	raw, err := c.client.Get(ctx, resultKey(vehicleID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("result cache: get vehicle %d: %w", vehicleID, err)
	}

	var result domain.RouteOptimizationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("result cache: decode vehicle %d: %w", vehicleID, err)
	}

	return &result, true, nil
}

// Put stores a result as the vehicle's latest.
func (c *RedisResultCache) Put(ctx context.Context, result *domain.RouteOptimizationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result cache: encode vehicle %d: %w", result.VehicleID, err)
	}

	if err := c.client.Set(ctx, resultKey(result.VehicleID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("result cache: set vehicle %d: %w", result.VehicleID, err)
	}

	return nil
}

// Invalidate drops the cached entry for a vehicle.
func (c *RedisResultCache) Invalidate(ctx context.Context, vehicleID int64) error {
	if err := c.client.Del(ctx, resultKey(vehicleID)).Err(); err != nil {
		return fmt.Errorf("result cache: del vehicle %d: %w", vehicleID, err)
	}
	return nil
}
