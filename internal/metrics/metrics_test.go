package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

func TestNewRegistersMetrics(t *testing.T) {
	m := New()

	if m.Registry == nil {
		t.Fatal("registry is nil")
	}

	m.OptimizeRunsTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(m.OptimizeRunsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("optimize runs counter = %v, want 1", got)
	}

	m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Errorf("http requests counter = %v, want 1", got)
	}
}

type noopEngine struct{}

func (noopEngine) OptimizeWaypoints(ctx context.Context, req ports.EngineRequest) (ports.EngineRoute, error) {
	return ports.EngineRoute{}, nil
}

func TestInstrumentedEngineObservesDuration(t *testing.T) {
	m := New()
	engine := &InstrumentedEngine{Engine: noopEngine{}, Metrics: m}

	if _, err := engine.OptimizeWaypoints(context.Background(), ports.EngineRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.CollectAndCount(m.EngineCallDuration); got != 1 {
		t.Errorf("engine duration series = %d, want 1", got)
	}
}
