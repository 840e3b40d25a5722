package graph

import (
	"context"
	"testing"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/osm"
)

func TestBuildRejectsEmptyWays(t *testing.T) {
	_, err := Build(context.Background(), map[int64]*osm.Node{}, nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an empty way set")
	}
	pipelineErr, ok := err.(*core.PipelineError)
	if !ok {
		t.Fatalf("expected *core.PipelineError, got %T", err)
	}
	if pipelineErr.Code != core.ErrNoTrailsFound {
		t.Errorf("Code = %v, want %v", pipelineErr.Code, core.ErrNoTrailsFound)
	}
}

func TestBuildReportsProgressCheckpoints(t *testing.T) {
	const A, B, C = 1, 2, 3
	nodes := map[int64]*osm.Node{
		A: {ID: A, Coord: geo.Coordinate{Lat: 47.0, Lon: 11.0}},
		B: {ID: B, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.001}},
		C: {ID: C, Coord: geo.Coordinate{Lat: 47.002, Lon: 11.002}},
	}
	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C}, Tags: map[string]string{"highway": "path"}},
	}

	var fractions []float64
	progress := func(description string, fraction float64) {
		fractions = append(fractions, fraction)
	}

	result, err := Build(context.Background(), nodes, ways, nil, progress)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Nodes) != 2 {
		t.Errorf("expected 2 routing nodes (the two endpoints), got %d", len(result.Nodes))
	}
	if len(result.Edges) != 1 {
		t.Errorf("expected 1 edge, got %d", len(result.Edges))
	}

	want := []float64{0, progressJunctions, progressSplit, progressElevation, progressCosts, progressWriting, progressDone}
	if len(fractions) != len(want) {
		t.Fatalf("expected %d progress callbacks, got %d: %v", len(want), len(fractions), fractions)
	}
	for i, f := range want {
		if fractions[i] != f {
			t.Errorf("progress[%d] = %v, want %v", i, fractions[i], f)
		}
	}
}

func TestBuildPropagatesInconsistentDataFromSplitWays(t *testing.T) {
	const A, B = 1, 2
	nodes := map[int64]*osm.Node{
		A: {ID: A, Coord: geo.Coordinate{Lat: 47.0, Lon: 11.0}},
	}
	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B}, Tags: map[string]string{"highway": "path"}},
	}

	_, err := Build(context.Background(), nodes, ways, nil, nil)
	if err == nil {
		t.Fatal("expected an error for a way referencing a missing node")
	}
	pipelineErr, ok := err.(*core.PipelineError)
	if !ok {
		t.Fatalf("expected *core.PipelineError, got %T", err)
	}
	if pipelineErr.Code != core.ErrInconsistentData {
		t.Errorf("Code = %v, want %v", pipelineErr.Code, core.ErrInconsistentData)
	}
}

func TestBuildReturnsCancelledWhenContextAlreadyDone(t *testing.T) {
	const A, B, C = 1, 2, 3
	nodes := map[int64]*osm.Node{
		A: {ID: A, Coord: geo.Coordinate{Lat: 47.0, Lon: 11.0}},
		B: {ID: B, Coord: geo.Coordinate{Lat: 47.001, Lon: 11.001}},
		C: {ID: C, Coord: geo.Coordinate{Lat: 47.002, Lon: 11.002}},
	}
	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C}, Tags: map[string]string{"highway": "path"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, nodes, ways, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an already-cancelled context")
	}
	pipelineErr, ok := err.(*core.PipelineError)
	if !ok {
		t.Fatalf("expected *core.PipelineError, got %T", err)
	}
	if pipelineErr.Code != core.ErrCancelled {
		t.Errorf("Code = %v, want %v", pipelineErr.Code, core.ErrCancelled)
	}
}
