package elevation

import (
	"math"
	"testing"

	"github.com/hikepath/routepipe/pkg/geo"
)

func uniformGrid(value int16) *Grid {
	samples := make([]int16, GridSize*GridSize)
	for i := range samples {
		samples[i] = value
	}
	return &Grid{Samples: samples}
}

func TestInterpolateAllSamplesPresent(t *testing.T) {
	grid := uniformGrid(1000)
	value, ok := Interpolate(grid, geo.Coordinate{Lat: 47.5, Lon: 11.5})
	if !ok {
		t.Fatal("expected a value")
	}
	if math.Abs(value-1000.0) > 1e-9 {
		t.Errorf("Interpolate = %v, want 1000.0", value)
	}
}

func TestInterpolateOneVoidCornerAverages(t *testing.T) {
	grid := uniformGrid(1000)
	// NW corner of the (47.5, 11.5) cell is row 1800, col 1800.
	grid.Samples[1800*GridSize+1800] = VoidValue

	value, ok := Interpolate(grid, geo.Coordinate{Lat: 47.5, Lon: 11.5})
	if !ok {
		t.Fatal("expected a value when only one corner is void")
	}
	want := (1000.0 + 1000.0 + 1000.0) / 3
	if math.Abs(value-want) > 1e-6 {
		t.Errorf("Interpolate = %v, want %v", value, want)
	}
}

func TestInterpolateAllVoidReturnsAbsent(t *testing.T) {
	grid := uniformGrid(VoidValue)
	_, ok := Interpolate(grid, geo.Coordinate{Lat: 47.5, Lon: 11.5})
	if ok {
		t.Error("expected no value when all four corners are void")
	}
}

func TestInterpolateRoundTripAtGridPoints(t *testing.T) {
	grid := uniformGrid(0)
	for r := 0; r <= GridSize-1; r += 900 {
		for c := 0; c <= GridSize-1; c += 900 {
			grid.Samples[r*GridSize+c] = int16(r + c)
		}
	}

	for r := 0; r <= GridSize-1; r += 900 {
		for c := 0; c <= GridSize-1; c += 900 {
			lat := 47.0 + float64(GridSize-1-r)/float64(GridSize-1)
			lon := 11.0 + float64(c)/float64(GridSize-1)
			value, ok := Interpolate(grid, geo.Coordinate{Lat: lat, Lon: lon})
			if !ok {
				t.Fatalf("expected a value at grid point (%d,%d)", r, c)
			}
			want := float64(r + c)
			if math.Abs(value-want) > 1e-6 {
				t.Errorf("at grid point (%d,%d): Interpolate = %v, want %v", r, c, value, want)
			}
		}
	}
}
