package elevation

import (
	"math"

	"github.com/hikepath/routepipe/pkg/geo"
)

// Interpolate bilinearly interpolates the elevation at coord within grid,
// which must be the tile that contains coord. Returns (value, true) on
// success; (0, false) if all four surrounding samples are void.
func Interpolate(grid *Grid, coord geo.Coordinate) (float64, bool) {
	fracLat := coord.Lat - math.Floor(coord.Lat)
	fracLon := coord.Lon - math.Floor(coord.Lon)

	row := float64(GridSize-1) * (1 - fracLat)
	col := float64(GridSize-1) * fracLon

	r0 := int(math.Floor(row))
	c0 := int(math.Floor(col))
	r1 := r0 + 1
	c1 := c0 + 1
	if r1 > GridSize-1 {
		r1 = GridSize - 1
	}
	if c1 > GridSize-1 {
		c1 = GridSize - 1
	}

	frow := row - float64(r0)
	fcol := col - float64(c0)

	nw := grid.at(r0, c0)
	ne := grid.at(r0, c1)
	sw := grid.at(r1, c0)
	se := grid.at(r1, c1)

	var values []float64
	var voids int
	for _, v := range []int16{nw, ne, sw, se} {
		if v == VoidValue {
			voids++
		} else {
			values = append(values, float64(v))
		}
	}

	switch voids {
	case 0:
		top := float64(nw)*(1-fcol) + float64(ne)*fcol
		bottom := float64(sw)*(1-fcol) + float64(se)*fcol
		return top*(1-frow) + bottom*frow, true
	case 4:
		return 0, false
	default:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), true
	}
}
