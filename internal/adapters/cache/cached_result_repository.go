package cache

import (
	"context"
	"log"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// CachedResultRepository decorates a ResultRepository with the Redis cache.
// A nil cache degrades to pass-through, and cache failures never fail the
// underlying operation: the database row remains the source of truth for
// "latest", the cache is only a read accelerator.
type CachedResultRepository struct {
	Inner ports.ResultRepository
	Cache *RedisResultCache
}

func NewCachedResultRepository(inner ports.ResultRepository, cache *RedisResultCache) *CachedResultRepository {
	return &CachedResultRepository{Inner: inner, Cache: cache}
}

func (r *CachedResultRepository) Insert(ctx context.Context, result *domain.RouteOptimizationResult) (*domain.RouteOptimizationResult, error) {
	saved, err := r.Inner.Insert(ctx, result)
	if err != nil {
		return nil, err
	}

	// Two overlapping optimize runs may insert in either order; dropping the
	// key instead of overwriting it lets the next read re-resolve "latest"
	// from the database.
	if r.Cache != nil {
		if err := r.Cache.Invalidate(ctx, saved.VehicleID); err != nil {
			log.Printf("result cache invalidate failed: %v", err)
		}
	}

	return saved, nil
}

func (r *CachedResultRepository) GetLatest(ctx context.Context, vehicleID int64) (*domain.RouteOptimizationResult, error) {
	if r.Cache != nil {
		cached, ok, err := r.Cache.Get(ctx, vehicleID)
		if err != nil {
			log.Printf("result cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := r.Inner.GetLatest(ctx, vehicleID)
	if err != nil || result == nil {
		return result, err
	}

	if r.Cache != nil {
		if err := r.Cache.Put(ctx, result); err != nil {
			log.Printf("result cache write failed: %v", err)
		}
	}

	return result, nil
}
