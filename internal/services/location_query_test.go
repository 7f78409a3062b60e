package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/geo"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

func TestGetOptimizedViewDecoratesLatestResult(t *testing.T) {
	path := []domain.Coordinates{
		{Lat: 17.3850, Lng: 78.4867},
		{Lat: 17.4000, Lng: 78.4000},
		{Lat: 17.3850, Lng: 78.4867},
	}

	repo := &fakeStopRepo{vehicleForRoute: 7}
	results := &fakeResultRepo{
		latest: &domain.RouteOptimizationResult{
			ID:        4,
			VehicleID: 7,
			Polyline:  geo.EncodePath(path),
			StopOrder: []domain.StopVisit{
				{StudentCode: "C100", Position: 1, Location: path[1]},
			},
			TotalDistanceMeters:  5400,
			TotalDurationSeconds: 1260,
			CreatedAt:            time.Now().UTC(),
		},
	}

	view, err := GetOptimizedView(context.Background(), "Madhapur", "Route 1", repo, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil {
		t.Fatal("view is nil, want decorated result")
	}

	if view.ID != 4 || view.VehicleID != 7 {
		t.Errorf("view carries result id=%d vehicle=%d, want 4/7", view.ID, view.VehicleID)
	}
	if len(view.Path) != len(path) {
		t.Fatalf("decoded path has %d points, want %d", len(view.Path), len(path))
	}
	for i, p := range path {
		if math.Abs(view.Path[i].Lat-p.Lat) > 1e-5 || math.Abs(view.Path[i].Lng-p.Lng) > 1e-5 {
			t.Errorf("path point %d = %v, want %v within 1e-5", i, view.Path[i], p)
		}
	}
}

func TestGetOptimizedViewAbsentCases(t *testing.T) {
	cases := []struct {
		name    string
		repo    *fakeStopRepo
		results *fakeResultRepo
	}{
		{
			name:    "branch unknown",
			repo:    &fakeStopRepo{resolveErr: &domain.NotFoundError{Entity: "branch"}},
			results: &fakeResultRepo{},
		},
		{
			name:    "no vehicle serves route",
			repo:    &fakeStopRepo{resolveErr: &domain.AmbiguousRouteError{BranchName: "Madhapur", RouteName: "Route 1", Vehicles: 0}},
			results: &fakeResultRepo{},
		},
		{
			name:    "multiple vehicles serve route",
			repo:    &fakeStopRepo{resolveErr: &domain.AmbiguousRouteError{BranchName: "Madhapur", RouteName: "Route 1", Vehicles: 2}},
			results: &fakeResultRepo{},
		},
		{
			name:    "vehicle never optimized",
			repo:    &fakeStopRepo{vehicleForRoute: 7},
			results: &fakeResultRepo{latest: nil},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := GetOptimizedView(context.Background(), "Madhapur", "Route 1", tc.repo, tc.results)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if view != nil {
				t.Fatalf("view = %+v, want absent", view)
			}
		})
	}
}

func TestGetOptimizedViewCorruptPolylineDegrades(t *testing.T) {
	repo := &fakeStopRepo{vehicleForRoute: 7}
	results := &fakeResultRepo{
		latest: &domain.RouteOptimizationResult{ID: 9, VehicleID: 7, Polyline: "}}garbage"},
	}

	view, err := GetOptimizedView(context.Background(), "Madhapur", "Route 1", repo, results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view == nil {
		t.Fatal("view is nil, want result with empty path")
	}
	if len(view.Path) != 0 {
		t.Errorf("path = %v, want empty for corrupt geometry", view.Path)
	}
}

func TestListStopsPassesFilter(t *testing.T) {
	repo := &fakeStopRepo{
		locations: []domain.StopLocation{
			{StudentCode: "C100", RouteName: "Route 1", Location: domain.Coordinates{Lat: 17.4, Lng: 78.4}},
			{StudentCode: "C200", RouteName: "Route 1", Location: domain.Coordinates{Lat: 17.41, Lng: 78.42}},
		},
	}

	got, err := ListStops(context.Background(), ports.StopLocationFilter{BranchName: "Madhapur"}, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d stops, want 2", len(got))
	}
}

func TestListPendingStudentsPassesScope(t *testing.T) {
	repo := &fakeStopRepo{
		pending: []domain.PendingStudent{
			{StudentCode: "C400", StudentName: "Dana", BranchName: "Madhapur", RouteName: "Route 2"},
		},
	}

	got, err := ListPendingStudents(context.Background(), "Madhapur", "Route 2", repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].StudentCode != "C400" {
		t.Fatalf("pending = %+v, want the one unlogged student", got)
	}
	if repo.pendingBranch != "Madhapur" || repo.pendingRoute != "Route 2" {
		t.Errorf("repo scoped to branch=%q route=%q, want Madhapur/Route 2", repo.pendingBranch, repo.pendingRoute)
	}
}
