package guidance

import (
	"github.com/paulmach/orb"

	"github.com/hikepath/routepipe/pkg/geo"
)

// projectOntoSegment projects p onto the segment (a, b) using planar
// (lon, lat) vector math — treating the short segment as locally flat,
// per spec.md §4.6 step 1 — clamped to t ∈ [0, 1]. Coordinates are carried
// through as orb.Point, the pack's shared planar-geometry vector type.
func projectOntoSegment(a, b, p geo.Coordinate) (float64, geo.Coordinate) {
	pa := orb.Point{a.Lon, a.Lat}
	pb := orb.Point{b.Lon, b.Lat}
	pp := orb.Point{p.Lon, p.Lat}

	abx := pb[0] - pa[0]
	aby := pb[1] - pa[1]
	lengthSquared := abx*abx + aby*aby

	var t float64
	if lengthSquared > 0 {
		apx := pp[0] - pa[0]
		apy := pp[1] - pa[1]
		t = (apx*abx + apy*aby) / lengthSquared
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	projected := orb.Point{pa[0] + t*abx, pa[1] + t*aby}
	return t, geo.Coordinate{Lat: projected[1], Lon: projected[0]}
}
