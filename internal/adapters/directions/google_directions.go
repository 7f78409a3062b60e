// Package directions adapts the Google Maps Directions API to the RouteEngine
// port. Failures are never retried here: the optimizer's contract is one
// synchronous engine call per run, surfaced verbatim to the operator.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// GoogleDirections implements RouteEngine using the Directions web service
// with waypoint optimization enabled. The client timeout bounds every call;
// an abandoned caller cannot stop an in-flight request beyond that bound.
//
// The adapter is safe for concurrent use.
type GoogleDirections struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewGoogleDirections(apiKey string, timeout time.Duration) (*GoogleDirections, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google directions: api key is empty")
	}

	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &GoogleDirections{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
	}, nil
}

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	WaypointOrder []int           `json:"waypoint_order"`
	Legs          []directionsLeg `json:"legs"`
}

type directionsLeg struct {
	Distance directionsMetric `json:"distance"`
	Duration directionsMetric `json:"duration"`
}

type directionsMetric struct {
	Value int `json:"value"`
}

// OptimizeWaypoints submits one round trip and returns the engine's waypoint
// permutation, overview geometry and per-leg metrics.
func (g *GoogleDirections) OptimizeWaypoints(ctx context.Context, req ports.EngineRequest) (ports.EngineRoute, error) {
	if len(req.Waypoints) == 0 {
		return ports.EngineRoute{}, errors.New("optimize waypoints: at least one waypoint is required")
	}

	endpoint := g.baseURL + "/maps/api/directions/json"

	waypoints := make([]string, 0, len(req.Waypoints))
	for _, w := range req.Waypoints {
		waypoints = append(waypoints, w.String())
	}

	waypointParam := strings.Join(waypoints, "|")
	if req.Optimize {
		waypointParam = "optimize:true|" + waypointParam
	}

	params := url.Values{}
	params.Set("origin", req.Origin.String())
	params.Set("destination", req.Destination.String())
	params.Set("waypoints", waypointParam)
	params.Set("key", g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return ports.EngineRoute{}, fmt.Errorf("optimize waypoints: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.session.Do(httpReq)
	if err != nil {
		return ports.EngineRoute{}, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ports.EngineRoute{}, &domain.ExternalServiceError{
			Status:  fmt.Sprintf("HTTP %d", resp.StatusCode),
			Message: strings.TrimSpace(string(b)),
		}
	}

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.EngineRoute{}, &domain.ExternalServiceError{
			Status:  "INVALID_RESPONSE",
			Message: "decode directions response: " + err.Error(),
			Err:     err,
		}
	}

	if dr.Status != "OK" {
		return ports.EngineRoute{}, &domain.ExternalServiceError{
			Status:  dr.Status,
			Message: dr.ErrorMessage,
		}
	}

	if len(dr.Routes) == 0 {
		return ports.EngineRoute{}, &domain.ExternalServiceError{
			Status:  "INVALID_RESPONSE",
			Message: "status OK but no routes returned",
		}
	}

	route := dr.Routes[0]

	legs := make([]ports.RouteLeg, 0, len(route.Legs))
	for _, leg := range route.Legs {
		legs = append(legs, ports.RouteLeg{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
		})
	}

	return ports.EngineRoute{
		Polyline:      route.OverviewPolyline.Points,
		WaypointOrder: route.WaypointOrder,
		Legs:          legs,
	}, nil
}

// transportError classifies network failures. Deadline hits are reported as
// "timeout", everything else as a generic network error.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.ExternalServiceError{Status: "timeout", Message: err.Error(), Err: err}
	}

	return &domain.ExternalServiceError{Status: "network_error", Message: err.Error(), Err: err}
}
