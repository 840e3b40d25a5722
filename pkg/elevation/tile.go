// Package elevation downloads, caches, and interpolates elevation samples
// from 1x1 degree HGT tiles.
package elevation

import (
	"fmt"
	"math"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
)

const (
	// GridSize is the number of samples per side of an HGT tile.
	GridSize = 3601
	// VoidValue marks a missing sample in an HGT tile.
	VoidValue = -32768
	// TileBytes is the expected decompressed size of one HGT tile.
	TileBytes = GridSize * GridSize * 2
)

// TileID identifies the 1x1 degree cell by its south-west corner.
type TileID struct {
	Lat int
	Lon int
}

// TileIDForCoord returns the tile covering coord.
func TileIDForCoord(c geo.Coordinate) TileID {
	return TileID{Lat: int(math.Floor(c.Lat)), Lon: int(math.Floor(c.Lon))}
}

// Name formats the tile identifier as "{N|S}DD{E|W}DDD", e.g. N47E011.
func (t TileID) Name() string {
	latPrefix := "N"
	if t.Lat < 0 {
		latPrefix = "S"
	}
	lonPrefix := "E"
	if t.Lon < 0 {
		lonPrefix = "W"
	}
	return fmt.Sprintf("%s%02d%s%03d", latPrefix, abs(t.Lat), lonPrefix, abs(t.Lon))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ParseTileName validates and parses a tile name back into a TileID. Used
// to sanity-check cache file names read off disk.
func ParseTileName(name string) (TileID, error) {
	var t TileID
	if len(name) != 7 {
		return t, core.NewValidationError(core.ErrInvalidTileName, fmt.Sprintf("malformed tile name %q", name))
	}

	latSign := 1
	switch name[0] {
	case 'N':
		latSign = 1
	case 'S':
		latSign = -1
	default:
		return t, core.NewValidationError(core.ErrInvalidTileName, fmt.Sprintf("malformed tile name %q", name))
	}

	lonSign := 1
	switch name[3] {
	case 'E':
		lonSign = 1
	case 'W':
		lonSign = -1
	default:
		return t, core.NewValidationError(core.ErrInvalidTileName, fmt.Sprintf("malformed tile name %q", name))
	}

	var latMag, lonMag int
	if _, err := fmt.Sscanf(name[1:3], "%d", &latMag); err != nil {
		return t, core.NewValidationError(core.ErrInvalidTileName, fmt.Sprintf("malformed tile name %q", name))
	}
	if _, err := fmt.Sscanf(name[4:7], "%d", &lonMag); err != nil {
		return t, core.NewValidationError(core.ErrInvalidTileName, fmt.Sprintf("malformed tile name %q", name))
	}

	t.Lat = latSign * latMag
	t.Lon = lonSign * lonMag
	return t, nil
}
