package graph

import (
	"context"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/elevation"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/osm"
)

// Node is a routing node destined for storage: an OSM node that turned out
// to be a junction, plus its (possibly absent) elevation.
type Node struct {
	ID        int64
	Coord     geo.Coordinate
	Elevation *float64
}

// Result is the complete in-memory routing graph a Build call produces,
// ready for pkg/store to persist.
type Result struct {
	Nodes []Node
	Edges []Edge
}

// progressCheckpoints mirrors spec.md §4.3's fractional progress points.
const (
	progressJunctions = 0.05
	progressSplit     = 0.15
	progressElevation = 0.30
	progressCosts     = 0.55
	progressWriting   = 0.70
	progressDone      = 1.0
)

// Build runs the full graph-building pipeline: junction identification,
// way splitting, elevation resolution, and cost computation. It does not
// write anything to disk; pkg/store's bulk loader consumes the Result.
func Build(ctx context.Context, nodes map[int64]*osm.Node, ways []*osm.Way, elev *elevation.Store, progress core.ProgressFunc) (*Result, error) {
	if len(ways) == 0 {
		return nil, core.NewError(core.ErrNoTrailsFound, "no routable ways to build a graph from")
	}

	report(progress, "identifying junctions", 0)
	junctions := Junctions(ways)
	report(progress, "identifying junctions", progressJunctions)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	rawEdges, err := SplitWays(ways, nodes, junctions)
	if err != nil {
		return nil, err
	}
	report(progress, "splitting ways", progressSplit)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	elevations, err := resolveElevations(ctx, nodes, junctions, elev)
	if err != nil {
		return nil, err
	}
	report(progress, "resolving elevations", progressElevation)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(rawEdges))
	for _, raw := range rawEdges {
		edges = append(edges, ComputeCost(raw, nodes, elevations))
	}
	report(progress, "computing costs", progressCosts)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	routingNodes := make([]Node, 0, len(junctions))
	for id := range junctions {
		n, ok := nodes[id]
		if !ok {
			return nil, core.NewError(core.ErrInconsistentData, "junction references a node absent from the node set")
		}
		var elevPtr *float64
		if e, ok := elevations[id]; ok {
			v := e
			elevPtr = &v
		}
		routingNodes = append(routingNodes, Node{ID: id, Coord: n.Coord, Elevation: elevPtr})
	}
	report(progress, "preparing for write", progressWriting)

	report(progress, "done", progressDone)
	return &Result{Nodes: routingNodes, Edges: edges}, nil
}

// resolveElevations batch-resolves every junction node's elevation,
// recording only the ones that actually resolved (spec.md §4.3 stage 3).
func resolveElevations(ctx context.Context, nodes map[int64]*osm.Node, junctions map[int64]bool, elev *elevation.Store) (map[int64]float64, error) {
	result := make(map[int64]float64, len(junctions))
	if elev == nil {
		return result, nil
	}

	ids := make([]int64, 0, len(junctions))
	coords := make([]geo.Coordinate, 0, len(junctions))
	for id := range junctions {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		ids = append(ids, id)
		coords = append(coords, n.Coord)
	}

	values, oks, err := elev.Elevations(ctx, coords)
	if err != nil {
		return nil, err
	}

	for i, id := range ids {
		if oks[i] {
			result[id] = values[i]
		}
	}
	return result, nil
}

func report(progress core.ProgressFunc, description string, fraction float64) {
	if progress != nil {
		progress(description, fraction)
	}
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.NewError(core.ErrCancelled, "graph build cancelled")
	}
	return nil
}
