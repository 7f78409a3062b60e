package directions

import (
	"context"

	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// MockEngine is a deterministic RouteEngine test double. It records the last
// request and answers with a fixed route, so optimizer tests can supply exact
// permutations and geometries without network access.
type MockEngine struct {
	Route ports.EngineRoute
	Err   error

	Calls       int
	LastRequest ports.EngineRequest
}

func (m *MockEngine) OptimizeWaypoints(ctx context.Context, req ports.EngineRequest) (ports.EngineRoute, error) {
	m.Calls++
	m.LastRequest = req

	if m.Err != nil {
		return ports.EngineRoute{}, m.Err
	}
	return m.Route, nil
}
