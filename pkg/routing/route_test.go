package routing

import (
	"context"
	"testing"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
)

func TestEngineComputeRouteEndToEnd(t *testing.T) {
	s := buildLineGraph(t)
	engine, err := NewEngine(s, 0)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	start := geo.Coordinate{Lat: 47.000, Lon: 11.000}
	end := geo.Coordinate{Lat: 47.003, Lon: 11.000}

	route, err := engine.ComputeRoute(context.Background(), start, end, ModeWalk)
	if err != nil {
		t.Fatalf("ComputeRoute failed: %v", err)
	}
	if route.TotalDistanceM != 300 {
		t.Errorf("TotalDistanceM = %v, want 300", route.TotalDistanceM)
	}

	cached, err := engine.ComputeRoute(context.Background(), start, end, ModeWalk)
	if err != nil {
		t.Fatalf("cached ComputeRoute failed: %v", err)
	}
	if cached != route {
		t.Error("expected the second call to return the cached *PlannedRoute instance")
	}
}

func TestEngineComputeRouteEndpointUnreachable(t *testing.T) {
	s := buildLineGraph(t)
	engine, err := NewEngine(s, 0)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	farAway := geo.Coordinate{Lat: 10.0, Lon: 10.0}
	end := geo.Coordinate{Lat: 47.003, Lon: 11.000}

	_, err = engine.ComputeRoute(context.Background(), farAway, end, ModeWalk)
	if err == nil {
		t.Fatal("expected an error snapping an unreachable start coordinate")
	}
	pipelineErr, ok := err.(*core.PipelineError)
	if !ok || pipelineErr.Code != core.ErrEndpointUnreachable {
		t.Errorf("err = %v, want a PipelineError with code %v", err, core.ErrEndpointUnreachable)
	}
}
