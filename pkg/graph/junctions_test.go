package graph

import (
	"testing"

	"github.com/hikepath/routepipe/pkg/osm"
)

// TestJunctionsScenarioS1 reproduces spec.md's end-to-end scenario S1:
// two ways sharing node B, which must be a junction both because it is
// shared and because A/C/D/E are forced endpoints.
func TestJunctionsScenarioS1(t *testing.T) {
	const A, B, C, D, E = 1, 2, 3, 4, 5

	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C}, Tags: map[string]string{"highway": "path"}},
		{ID: 2, Nodes: []int64{D, B, E}, Tags: map[string]string{"highway": "track"}},
	}

	junctions := Junctions(ways)

	for _, id := range []int64{A, B, C, D, E} {
		if !junctions[id] {
			t.Errorf("expected node %d to be a junction", id)
		}
	}
	if len(junctions) != 5 {
		t.Errorf("expected exactly 5 junctions, got %d", len(junctions))
	}
}

func TestJunctionsInteriorNodeNotSharedIsNotAJunction(t *testing.T) {
	const A, B, C = 1, 2, 3

	ways := []*osm.Way{
		{ID: 1, Nodes: []int64{A, B, C}, Tags: map[string]string{"highway": "path"}},
	}

	junctions := Junctions(ways)

	if junctions[B] {
		t.Error("expected interior node B, appearing in only one way, to not be a junction")
	}
	if !junctions[A] || !junctions[C] {
		t.Error("expected both endpoints to be junctions")
	}
}
