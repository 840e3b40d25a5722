package graph

import (
	"testing"

	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/osm"
)

func makeNode(id int64, lat, lon float64) *osm.Node {
	return &osm.Node{ID: id, Coord: geo.Coordinate{Lat: lat, Lon: lon}}
}

// TestSplitWaysScenarioS1 reproduces spec.md's S1: raw edges A-B, B-C,
// D-B, B-E.
func TestSplitWaysScenarioS1(t *testing.T) {
	const A, B, C, D, E = 1, 2, 3, 4, 5

	nodes := map[int64]*osm.Node{
		A: makeNode(A, 47.0, 11.0),
		B: makeNode(B, 47.001, 11.001),
		C: makeNode(C, 47.002, 11.002),
		D: makeNode(D, 47.003, 11.000),
		E: makeNode(E, 47.004, 11.003),
	}

	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C}, Tags: map[string]string{"highway": "path"}},
		{ID: 2, Nodes: []int64{D, B, E}, Tags: map[string]string{"highway": "track"}},
	}

	junctions := Junctions(ways)
	edges, err := SplitWays(ways, nodes, junctions)
	if err != nil {
		t.Fatalf("SplitWays failed: %v", err)
	}

	want := map[[2]int64]bool{
		{A, B}: true,
		{B, C}: true,
		{D, B}: true,
		{B, E}: true,
	}
	if len(edges) != len(want) {
		t.Fatalf("expected %d raw edges, got %d", len(want), len(edges))
	}
	for _, e := range edges {
		if !want[[2]int64{e.From, e.To}] {
			t.Errorf("unexpected edge %d-%d", e.From, e.To)
		}
		if len(e.Intermediates) != 0 {
			t.Errorf("expected no intermediates for a two-node segment, got %v", e.Intermediates)
		}
		if e.Distance <= 0 {
			t.Errorf("expected positive distance for edge %d-%d", e.From, e.To)
		}
	}
}

func TestSplitWaysKeepsIntermediates(t *testing.T) {
	const A, B, C, D = 1, 2, 3, 4

	nodes := map[int64]*osm.Node{
		A: makeNode(A, 47.0, 11.0),
		B: makeNode(B, 47.001, 11.0),
		C: makeNode(C, 47.002, 11.0),
		D: makeNode(D, 47.003, 11.0),
	}

	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C, D}, Tags: map[string]string{"highway": "path"}},
	}

	junctions := Junctions(ways)
	edges, err := SplitWays(ways, nodes, junctions)
	if err != nil {
		t.Fatalf("SplitWays failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge (no interior junctions), got %d", len(edges))
	}
	edge := edges[0]
	if edge.From != A || edge.To != D {
		t.Errorf("expected edge A-D, got %d-%d", edge.From, edge.To)
	}
	if len(edge.Intermediates) != 2 || edge.Intermediates[0] != B || edge.Intermediates[1] != C {
		t.Errorf("expected intermediates [B, C], got %v", edge.Intermediates)
	}
}

func TestSplitWaysReportsInconsistentData(t *testing.T) {
	const A, B = 1, 2

	nodes := map[int64]*osm.Node{
		A: makeNode(A, 47.0, 11.0),
	}

	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B}, Tags: map[string]string{"highway": "path"}},
	}

	junctions := Junctions(ways)
	_, err := SplitWays(ways, nodes, junctions)
	if err == nil {
		t.Fatal("expected an error for a way referencing a missing node")
	}
}
