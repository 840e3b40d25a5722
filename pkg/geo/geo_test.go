package geo

import (
	"math"
	"testing"
)

func TestHaversineDistanceZero(t *testing.T) {
	d := HaversineDistance(47.5, 11.5, 47.5, 11.5)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestBoundingBoxValid(t *testing.T) {
	valid := BoundingBox{South: 47, West: 11, North: 48, East: 12}
	if !valid.Valid() {
		t.Error("expected valid bounding box")
	}

	invalid := BoundingBox{South: 48, West: 11, North: 47, East: 12}
	if invalid.Valid() {
		t.Error("expected invalid bounding box (south > north)")
	}
}

func TestBoundingBoxTiles(t *testing.T) {
	bb := BoundingBox{South: 47.2, West: 11.8, North: 47.9, East: 12.3}
	tiles := bb.Tiles()
	want := map[[2]int]bool{{47, 11}: true, {47, 12}: true}
	if len(tiles) != len(want) {
		t.Fatalf("expected %d tiles, got %d: %v", len(want), len(tiles), tiles)
	}
	for _, tile := range tiles {
		if !want[tile] {
			t.Errorf("unexpected tile %v", tile)
		}
	}
}

func TestBearingDelta(t *testing.T) {
	cases := []struct {
		from, to, want float64
	}{
		{0, 10, 10},
		{350, 10, 20},
		{10, 350, -20},
		{180, 181, 1},
	}
	for _, c := range cases {
		got := BearingDelta(c.from, c.to)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("BearingDelta(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	points := []Coordinate{{Lat: 47.5, Lon: 11.5}, {Lat: 47.51, Lon: 11.52}, {Lat: 47.49, Lon: 11.49}}
	encoded := EncodePolyline(points)
	decoded, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(decoded))
	}
	for i, p := range points {
		if math.Abs(p.Lat-decoded[i].Lat) > 1e-5 || math.Abs(p.Lon-decoded[i].Lon) > 1e-5 {
			t.Errorf("point %d: expected %v, got %v", i, p, decoded[i])
		}
	}
}

func TestPackCoordinatesRoundTrip(t *testing.T) {
	points := []Coordinate{
		{Lat: 47.123456, Lon: 11.654321},
		{Lat: 47.123999, Lon: 11.654999},
		{Lat: 46.999999, Lon: 11.000001},
	}
	blob := PackCoordinates(points)
	decoded, err := UnpackCoordinates(blob)
	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	if len(decoded) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(decoded))
	}
	for i, p := range points {
		if math.Abs(p.Lat-decoded[i].Lat) > 1e-7 || math.Abs(p.Lon-decoded[i].Lon) > 1e-7 {
			t.Errorf("point %d: expected %v, got %v", i, p, decoded[i])
		}
	}
}

func TestPackCoordinatesEmpty(t *testing.T) {
	if blob := PackCoordinates(nil); blob != nil {
		t.Errorf("expected nil blob for empty input, got %v", blob)
	}
	decoded, err := UnpackCoordinates(nil)
	if err != nil || decoded != nil {
		t.Errorf("expected nil, nil for empty blob, got %v, %v", decoded, err)
	}
}
