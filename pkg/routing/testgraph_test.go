package routing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/graph"
	"github.com/hikepath/routepipe/pkg/store"
)

// buildLineGraph lays out a straight 4-node line A-B-C-D with uniform
// 100m-per-edge distance and cost, used by both A* and instruction tests.
func buildLineGraph(t *testing.T) *store.Store {
	t.Helper()

	const A, B, C, D = 1, 2, 3, 4
	nodes := []graph.Node{
		{ID: A, Coord: geo.Coordinate{Lat: 47.000, Lon: 11.000}},
		{ID: B, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.000}},
		{ID: C, Coord: geo.Coordinate{Lat: 47.002, Lon: 11.000}},
		{ID: D, Coord: geo.Coordinate{Lat: 47.003, Lon: 11.000}},
	}
	edges := []graph.Edge{
		{From: A, To: B, Distance: 100, ForwardCost: 100, ReverseCost: 100, Name: "forest path"},
		{From: B, To: C, Distance: 100, ForwardCost: 100, ReverseCost: 100, Name: "forest path"},
		{From: C, To: D, Distance: 100, ForwardCost: 100, ReverseCost: 100, Name: "forest path"},
	}

	path := filepath.Join(t.TempDir(), "graph.sqlite")
	s, err := store.Create(context.Background(), path, &graph.Result{Nodes: nodes, Edges: edges}, store.Metadata{ElevationSource: "test"})
	if err != nil {
		t.Fatalf("store.Create failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// buildClimbGraph lays out a straight 3-node line A-B-C where each edge
// climbs 50m and descends 10m, for exercising elevation-gain accumulation
// independently of the flat buildLineGraph fixture.
func buildClimbGraph(t *testing.T) *store.Store {
	t.Helper()

	const A, B, C = 1, 2, 3
	nodes := []graph.Node{
		{ID: A, Coord: geo.Coordinate{Lat: 47.000, Lon: 11.000}},
		{ID: B, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.000}},
		{ID: C, Coord: geo.Coordinate{Lat: 47.002, Lon: 11.000}},
	}
	edges := []graph.Edge{
		{From: A, To: B, Distance: 100, ForwardCost: 100, ReverseCost: 100, ElevationGain: 50, ElevationLoss: 10, Name: "ridge trail"},
		{From: B, To: C, Distance: 100, ForwardCost: 100, ReverseCost: 100, ElevationGain: 50, ElevationLoss: 10, Name: "ridge trail"},
	}

	path := filepath.Join(t.TempDir(), "graph.sqlite")
	s, err := store.Create(context.Background(), path, &graph.Result{Nodes: nodes, Edges: edges}, store.Metadata{ElevationSource: "test"})
	if err != nil {
		t.Fatalf("store.Create failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// buildTurnGraph lays out A-B-C with a 90-degree turn at B: A is due south
// of B, C is due east of B, so the bearing change at B falls in the normal
// 45-135 degree bucket rather than the sharp one.
func buildTurnGraph(t *testing.T) *store.Store {
	t.Helper()

	const A, B, C = 1, 2, 3
	nodes := []graph.Node{
		{ID: A, Coord: geo.Coordinate{Lat: 47.000, Lon: 11.000}},
		{ID: B, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.000}},
		{ID: C, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.002}},
	}
	edges := []graph.Edge{
		{From: A, To: B, Distance: 111, ForwardCost: 111, ReverseCost: 111, Name: "north trail"},
		{From: B, To: C, Distance: 150, ForwardCost: 150, ReverseCost: 150, Name: "east trail"},
	}

	path := filepath.Join(t.TempDir(), "graph.sqlite")
	s, err := store.Create(context.Background(), path, &graph.Result{Nodes: nodes, Edges: edges}, store.Metadata{ElevationSource: "test"})
	if err != nil {
		t.Fatalf("store.Create failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
