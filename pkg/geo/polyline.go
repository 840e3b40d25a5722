package geo

import (
	"errors"
	"math"
)

// EncodePolyline encodes a slice of coordinates into a polyline string using
// Google's Polyline Algorithm Format (Polyline5, 1e-5 degree precision).
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
func EncodePolyline(points []Coordinate) string {
	if len(points) == 0 {
		return ""
	}

	result := make([]byte, 0, len(points)*12)

	prevLat := 0
	prevLon := 0

	for _, point := range points {
		lat := int(math.Round(point.Lat * 1e5))
		lon := int(math.Round(point.Lon * 1e5))

		result = append(result, encodeSigned(lat-prevLat)...)
		result = append(result, encodeSigned(lon-prevLon)...)

		prevLat = lat
		prevLon = lon
	}

	return string(result)
}

// DecodePolyline decodes a Polyline5 string into a slice of coordinates.
func DecodePolyline(polyline string) ([]Coordinate, error) {
	if len(polyline) == 0 {
		return []Coordinate{}, nil
	}

	count := len(polyline) / 8
	if count <= 0 {
		count = 1
	}
	points := make([]Coordinate, 0, count)

	index := 0
	prevLat := 0
	prevLon := 0
	strLen := len(polyline)

	for index < strLen {
		lat, newIndex, err := decodeValue(polyline, index, prevLat)
		if err != nil {
			return nil, err
		}
		index = newIndex
		prevLat = lat

		if index >= strLen {
			return nil, errors.New("invalid polyline: unexpected end of string")
		}
		lon, newIndex, err := decodeValue(polyline, index, prevLon)
		if err != nil {
			return nil, err
		}
		index = newIndex
		prevLon = lon

		points = append(points, Coordinate{Lat: float64(lat) * 1e-5, Lon: float64(lon) * 1e-5})
	}

	return points, nil
}

func decodeValue(polyline string, index, prev int) (int, int, error) {
	strLen := len(polyline)
	result := 0
	shift := 0

	for {
		if index >= strLen {
			return 0, 0, errors.New("invalid polyline: unexpected end of string")
		}
		b := int(polyline[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	delta := (result >> 1) ^ (-(result & 1))
	return prev + delta, index, nil
}

func encodeSigned(value int) []byte {
	s := value << 1
	if value < 0 {
		s = ^s
	}

	var buf []byte
	for s >= 0x20 {
		buf = append(buf, byte((0x20|(s&0x1f))+63))
		s >>= 5
	}
	buf = append(buf, byte(s+63))
	return buf
}

// scale is the fixed-point precision used by PackCoordinates: 1e7 keeps
// round-trip error within the 1e-7 degree bound required for edge geometry.
const scale = 1e7

// PackCoordinates delta-encodes a sequence of intermediate coordinates into a
// compact varint byte blob for storage alongside a routing edge. Each
// coordinate is stored as the zigzag-encoded delta (in 1e-7 degree units)
// from the previous one, matching the technique used by EncodePolyline but
// writing raw bytes instead of printable polyline characters.
func PackCoordinates(points []Coordinate) []byte {
	if len(points) == 0 {
		return nil
	}

	buf := make([]byte, 0, len(points)*8)
	prevLat := 0
	prevLon := 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * scale))
		lon := int(math.Round(p.Lon * scale))

		buf = appendVarint(buf, lat-prevLat)
		buf = appendVarint(buf, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return buf
}

// UnpackCoordinates decodes a blob produced by PackCoordinates back into a
// coordinate sequence, reproducing the originals to within 1e-7 degrees.
func UnpackCoordinates(blob []byte) ([]Coordinate, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	var points []Coordinate
	prevLat := 0
	prevLon := 0
	idx := 0

	for idx < len(blob) {
		deltaLat, n, err := readVarint(blob[idx:])
		if err != nil {
			return nil, err
		}
		idx += n

		deltaLon, n, err := readVarint(blob[idx:])
		if err != nil {
			return nil, err
		}
		idx += n

		prevLat += deltaLat
		prevLon += deltaLon

		points = append(points, Coordinate{
			Lat: float64(prevLat) / scale,
			Lon: float64(prevLon) / scale,
		})
	}

	return points, nil
}

func appendVarint(buf []byte, value int) []byte {
	s := value << 1
	if value < 0 {
		s = ^s
	}
	for s >= 0x80 {
		buf = append(buf, byte(s&0x7f|0x80))
		s >>= 7
	}
	return append(buf, byte(s))
}

func readVarint(buf []byte) (int, int, error) {
	result := 0
	shift := uint(0)
	for i, b := range buf {
		result |= int(b&0x7f) << shift
		if b&0x80 == 0 {
			return (result >> 1) ^ -(result & 1), i + 1, nil
		}
		shift += 7
		if shift > 63 {
			return 0, 0, errors.New("geo: varint overflow while unpacking geometry")
		}
	}
	return 0, 0, errors.New("geo: truncated varint in geometry blob")
}
