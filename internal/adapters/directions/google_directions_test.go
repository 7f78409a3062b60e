package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

func newTestEngine(t *testing.T, handler http.HandlerFunc) (*GoogleDirections, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	engine, err := NewGoogleDirections("test-key", 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.baseURL = server.URL

	return engine, server
}

func testRequest() ports.EngineRequest {
	origin := domain.Coordinates{Lat: 17.3850, Lng: 78.4867}
	return ports.EngineRequest{
		Origin:      origin,
		Destination: origin,
		Waypoints: []domain.Coordinates{
			{Lat: 17.4000, Lng: 78.4000},
			{Lat: 17.4100, Lng: 78.4200},
		},
		Optimize: true,
	}
}

func TestOptimizeWaypointsSuccess(t *testing.T) {
	var gotQuery map[string][]string

	engine, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"overview_polyline": {"points": "abc123"},
				"waypoint_order": [1, 0],
				"legs": [
					{"distance": {"value": 1200}, "duration": {"value": 300}},
					{"distance": {"value": 800}, "duration": {"value": 200}},
					{"distance": {"value": 1500}, "duration": {"value": 350}}
				]
			}]
		}`))
	})

	route, err := engine.OptimizeWaypoints(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.Polyline != "abc123" {
		t.Errorf("polyline = %q, want %q", route.Polyline, "abc123")
	}
	if len(route.WaypointOrder) != 2 || route.WaypointOrder[0] != 1 || route.WaypointOrder[1] != 0 {
		t.Errorf("waypoint order = %v, want [1 0]", route.WaypointOrder)
	}
	if len(route.Legs) != 3 {
		t.Fatalf("legs = %d, want 3", len(route.Legs))
	}
	if route.Legs[0].DistanceMeters != 1200 || route.Legs[0].DurationSeconds != 300 {
		t.Errorf("first leg = %+v, want 1200m/300s", route.Legs[0])
	}

	wp := gotQuery["waypoints"]
	if len(wp) != 1 || wp[0] != "optimize:true|17.4,78.4|17.41,78.42" {
		t.Errorf("waypoints param = %v", wp)
	}
	if got := gotQuery["origin"]; len(got) != 1 || got[0] != "17.385,78.4867" {
		t.Errorf("origin param = %v", got)
	}
	if got := gotQuery["destination"]; len(got) != 1 || got[0] != "17.385,78.4867" {
		t.Errorf("destination param = %v", got)
	}
	if got := gotQuery["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("key param = %v", got)
	}
}

func TestOptimizeWaypointsProviderStatus(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "error_message": "no route", "routes": []}`))
	})

	_, err := engine.OptimizeWaypoints(context.Background(), testRequest())

	var svcErr *domain.ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *domain.ExternalServiceError", err)
	}
	if svcErr.Status != "ZERO_RESULTS" || svcErr.Message != "no route" {
		t.Errorf("got status=%q message=%q", svcErr.Status, svcErr.Message)
	}
}

func TestOptimizeWaypointsHTTPFailure(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := engine.OptimizeWaypoints(context.Background(), testRequest())

	var svcErr *domain.ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *domain.ExternalServiceError", err)
	}
	if svcErr.Status != "HTTP 502" {
		t.Errorf("status = %q, want %q", svcErr.Status, "HTTP 502")
	}
}

func TestOptimizeWaypointsTimeout(t *testing.T) {
	engine, _ := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": "OK", "routes": []}`))
	})
	engine.session.Timeout = 20 * time.Millisecond

	_, err := engine.OptimizeWaypoints(context.Background(), testRequest())

	var svcErr *domain.ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want *domain.ExternalServiceError", err)
	}
	if svcErr.Status != "timeout" {
		t.Errorf("status = %q, want %q", svcErr.Status, "timeout")
	}
}
