package routing

import (
	"context"

	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/store"
)

// Direction-change thresholds from spec.md §4.5's turn-instruction
// synthesis: |Δ| < 20° straight, 20-45° slight, 45-135° normal,
// 135-170° sharp, ≥170° u-turn.
const (
	thresholdStraight = 20.0
	thresholdSlight   = 45.0
	thresholdSharp    = 135.0
	thresholdUTurn    = 170.0
)

// classifyTurn maps a signed bearing delta (positive = clockwise/right) to
// a direction bucket.
func classifyTurn(delta float64) TurnDirection {
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < thresholdStraight:
		return DirectionStraight
	case abs >= thresholdUTurn:
		return DirectionUTurn
	case abs >= thresholdSharp:
		if delta > 0 {
			return DirectionSharpRight
		}
		return DirectionSharpLeft
	case abs >= thresholdSlight:
		if delta > 0 {
			return DirectionRight
		}
		return DirectionLeft
	default:
		if delta > 0 {
			return DirectionSlightRight
		}
		return DirectionSlightLeft
	}
}

// junctionPoint is one interior endpoint along a planned route's edge
// sequence, with its cumulative distance from the route's start.
type junctionPoint struct {
	coord    geo.Coordinate
	distance float64
	name     string
}

// assembleRoute expands a sequence of traversed edges into a full polyline
// and turn-instruction list, per spec.md §4.5.
func assembleRoute(ctx context.Context, s *store.Store, start, end geo.Coordinate, path []store.AdjacentEdge) (*PlannedRoute, error) {
	polyline := []geo.Coordinate{start}
	var totalDistance, totalGain, totalLoss float64
	var junctions []junctionPoint

	for _, e := range path {
		points, err := s.EdgeGeometry(ctx, e.EdgeID)
		if err != nil {
			return nil, err
		}
		// points[0] is the edge's own from-endpoint, already present in
		// the polyline as the previous junction (or the raw start).
		if len(points) > 1 {
			polyline = append(polyline, points[1:]...)
		}
		totalDistance += e.Distance
		totalGain += e.ElevationGain
		totalLoss += e.ElevationLoss
		junctions = append(junctions, junctionPoint{
			coord:    points[len(points)-1],
			distance: totalDistance,
			name:     e.Name,
		})
	}
	polyline = append(polyline, end)

	instructions := []TurnInstruction{
		{Direction: DirectionStart, CumulativeDistance: 0, Coord: start},
	}

	if len(junctions) == 0 {
		instructions = append(instructions, TurnInstruction{
			Direction:          DirectionArrive,
			CumulativeDistance: totalDistance,
			Coord:              end,
		})
	}

	for i, j := range junctions {
		if i == len(junctions)-1 {
			instructions = append(instructions, TurnInstruction{
				Direction:          DirectionArrive,
				CumulativeDistance: totalDistance,
				Coord:              end,
			})
			continue
		}

		var prevCoord geo.Coordinate
		if i == 0 {
			prevCoord = start
		} else {
			prevCoord = junctions[i-1].coord
		}

		bearingIn := geo.Bearing(prevCoord, j.coord)
		bearingOut := geo.Bearing(j.coord, junctions[i+1].coord)
		delta := geo.BearingDelta(bearingIn, bearingOut)
		instructions = append(instructions, TurnInstruction{
			Direction:          classifyTurn(delta),
			CumulativeDistance: j.distance,
			Coord:              j.coord,
			Name:               j.name,
		})
	}

	return &PlannedRoute{
		Polyline:         polyline,
		Instructions:     instructions,
		TotalDistanceM:   totalDistance,
		ElevationGainM:   totalGain,
		ElevationLossM:   totalLoss,
		EstimatedSeconds: totalDistance / AverageWalkingSpeedMPS,
	}, nil
}
