package graph

import (
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/osm"
)

// Edge is a routable directional pair of junctions with its traversal
// costs and geometry, shaped to match the routing_edges schema in
// pkg/store: the graph builder produces these, the store persists them.
type Edge struct {
	From, To         int64
	Distance         float64
	ElevationGain    float64
	ElevationLoss    float64
	ForwardCost      float64
	ReverseCost      float64
	IsOneway         bool
	Geometry         []byte
	Surface          string
	HighwayType      string
	SACScale         string
	TrailVisibility  string
	Name             string
	SourceWayID      int64
}

// ComputeCost converts one raw edge into a costed Edge, resolving its
// intermediate geometry and forward/reverse traversal costs per spec.md
// §4.3 stage 4.
func ComputeCost(raw RawEdge, nodes map[int64]*osm.Node, elevations map[int64]float64) Edge {
	fromElev, fromOK := elevations[raw.From]
	toElev, toOK := elevations[raw.To]

	var gain, loss float64
	if fromOK && toOK {
		delta := toElev - fromElev
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
	}

	surface := raw.Tags["surface"]
	highway := raw.Tags["highway"]
	sacScale := raw.Tags["sac_scale"]
	oneway := isOneway(raw.Tags["oneway"])

	surfaceMult := lookupSurfaceMultiplier(surface)
	sacMult := lookupSACMultiplier(sacScale)
	steps := lookupStepsPenalty(highway)

	forward := raw.Distance*surfaceMult*sacMult*steps + gain*ClimbPenaltyPerM + descentTerm(loss, raw.Distance)

	var reverse float64
	if oneway {
		reverse = ImpassableCost
	} else {
		reverse = raw.Distance*surfaceMult*sacMult*steps + loss*ClimbPenaltyPerM + descentTerm(gain, raw.Distance)
	}

	var intermediateCoords []geo.Coordinate
	for _, id := range raw.Intermediates {
		if n, ok := nodes[id]; ok {
			intermediateCoords = append(intermediateCoords, n.Coord)
		}
	}

	return Edge{
		From:            raw.From,
		To:              raw.To,
		Distance:        raw.Distance,
		ElevationGain:   gain,
		ElevationLoss:   loss,
		ForwardCost:     forward,
		ReverseCost:     reverse,
		IsOneway:        oneway,
		Geometry:        geo.PackCoordinates(intermediateCoords),
		Surface:         surface,
		HighwayType:     highway,
		SACScale:        sacScale,
		TrailVisibility: raw.Tags["trail_visibility"],
		Name:            raw.Tags["name"],
		SourceWayID:     raw.SourceWayID,
	}
}
