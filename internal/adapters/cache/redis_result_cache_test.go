package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

func newTestCache(t *testing.T) *RedisResultCache {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisResultCache(client, time.Minute)
}

func sampleResult() *domain.RouteOptimizationResult {
	return &domain.RouteOptimizationResult{
		ID:        12,
		VehicleID: 7,
		Polyline:  "abc123",
		StopOrder: []domain.StopVisit{
			{StudentID: "S-1", StudentCode: "C100", StudentName: "Asha", Location: domain.Coordinates{Lat: 17.4, Lng: 78.4}, Position: 1},
		},
		TotalDistanceMeters:  5400,
		TotalDurationSeconds: 1260,
		CreatedAt:            time.Date(2026, 8, 30, 7, 30, 0, 0, time.UTC),
	}
}

func TestResultCachePutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, 7); err != nil || ok {
		t.Fatalf("empty cache Get = ok=%v err=%v, want miss without error", ok, err)
	}

	want := sampleResult()
	if err := c.Put(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("cache miss after Put")
	}
	if got.ID != want.ID || got.Polyline != want.Polyline || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.StopOrder) != 1 || got.StopOrder[0] != want.StopOrder[0] {
		t.Errorf("stop order = %+v, want %+v", got.StopOrder, want.StopOrder)
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Invalidate(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, err := c.Get(ctx, 7); err != nil || ok {
		t.Fatalf("Get after Invalidate = ok=%v err=%v, want miss", ok, err)
	}
}

type stubResultRepo struct {
	latest      *domain.RouteOptimizationResult
	getCalls    int
	insertCalls int
}

func (s *stubResultRepo) Insert(ctx context.Context, r *domain.RouteOptimizationResult) (*domain.RouteOptimizationResult, error) {
	s.insertCalls++
	s.latest = r
	return r, nil
}

func (s *stubResultRepo) GetLatest(ctx context.Context, vehicleID int64) (*domain.RouteOptimizationResult, error) {
	s.getCalls++
	return s.latest, nil
}

func TestCachedResultRepositoryReadThrough(t *testing.T) {
	c := newTestCache(t)
	inner := &stubResultRepo{latest: sampleResult()}
	repo := NewCachedResultRepository(inner, c)
	ctx := context.Background()

	// First read misses the cache and fills it.
	if _, err := repo.GetLatest(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second read is served from the cache.
	if _, err := repo.GetLatest(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 1 {
		t.Errorf("inner GetLatest calls = %d, want 1", inner.getCalls)
	}

	// Insert drops the cached entry so the next read re-resolves latest.
	if _, err := repo.Insert(ctx, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetLatest(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 2 {
		t.Errorf("inner GetLatest calls after insert = %d, want 2", inner.getCalls)
	}
}

// historyResultRepo keeps every inserted row and resolves latest by greatest
// creation timestamp, the same selection rule the postgres repository applies.
type historyResultRepo struct {
	rows []*domain.RouteOptimizationResult
	now  time.Time
}

func (h *historyResultRepo) Insert(ctx context.Context, r *domain.RouteOptimizationResult) (*domain.RouteOptimizationResult, error) {
	saved := *r
	saved.ID = int64(len(h.rows) + 1)
	h.now = h.now.Add(time.Minute)
	saved.CreatedAt = h.now
	h.rows = append(h.rows, &saved)
	return &saved, nil
}

func (h *historyResultRepo) GetLatest(ctx context.Context, vehicleID int64) (*domain.RouteOptimizationResult, error) {
	var latest *domain.RouteOptimizationResult
	for _, r := range h.rows {
		if r.VehicleID != vehicleID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest, nil
}

// A second optimization run for the same vehicle must supersede the first on
// read, even when the first result sits in the cache.
func TestCachedResultRepositoryNewestRunWins(t *testing.T) {
	c := newTestCache(t)
	inner := &historyResultRepo{now: time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)}
	repo := NewCachedResultRepository(inner, c)
	ctx := context.Background()

	first, err := repo.Insert(ctx, &domain.RouteOptimizationResult{VehicleID: 7, Polyline: "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cache the first run.
	got, err := repo.GetLatest(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("latest = %d, want first run %d", got.ID, first.ID)
	}

	second, err := repo.Insert(ctx, &domain.RouteOptimizationResult{VehicleID: 7, Polyline: "def"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Fatalf("second run created at %v, want after %v", second.CreatedAt, first.CreatedAt)
	}

	got, err = repo.GetLatest(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("latest = %d, want the newer run %d", got.ID, second.ID)
	}
	if got.Polyline != "def" {
		t.Errorf("polyline = %q, want the newer run's geometry", got.Polyline)
	}
}

func TestCachedResultRepositoryNilCache(t *testing.T) {
	inner := &stubResultRepo{latest: sampleResult()}
	repo := NewCachedResultRepository(inner, nil)

	got, err := repo.GetLatest(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("nil cache must pass through to the inner repository")
	}
}
