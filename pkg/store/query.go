package store

import (
	"context"
	"database/sql"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
)

// metresPerDegreeLat approximates the latitude-degree span used to build
// the bounding-square prefilter in NearestNode; longitude span is widened
// by 1/cos(latitude) to account for meridian convergence.
const metresPerDegreeLat = 111320.0

// NearestNode returns the id of the routing node closest to coord within
// radiusM, using a lat/lon bounding-square prefilter followed by an exact
// Haversine sort, per spec.md §4.4.
func (s *Store) NearestNode(ctx context.Context, coord geo.Coordinate, radiusM float64) (int64, error) {
	latSpan := radiusM / metresPerDegreeLat
	lonSpan := radiusM / (metresPerDegreeLat * math.Cos(coord.Lat*math.Pi/180))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, latitude, longitude FROM routing_nodes
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`,
		coord.Lat-latSpan, coord.Lat+latSpan, coord.Lon-lonSpan, coord.Lon+lonSpan)
	if err != nil {
		return 0, core.NewError(core.ErrNoNearbyNode, "nearest-node query failed").WithDetail(err.Error())
	}
	defer rows.Close()

	var bestID int64
	bestDist := math.Inf(1)
	found := false

	for rows.Next() {
		var id int64
		var lat, lon float64
		if err := rows.Scan(&id, &lat, &lon); err != nil {
			return 0, core.NewError(core.ErrNoNearbyNode, "nearest-node scan failed").WithDetail(err.Error())
		}
		dist := geo.HaversineDistance(coord.Lat, coord.Lon, lat, lon)
		if dist < bestDist {
			bestDist = dist
			bestID = id
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return 0, core.NewError(core.ErrNoNearbyNode, "nearest-node iteration failed").WithDetail(err.Error())
	}
	if !found || bestDist > radiusM {
		return 0, core.NewError(core.ErrNoNearbyNode, "no routing node within radius")
	}
	return bestID, nil
}

// AdjacentEdge is one entry of an adjacency list: the edge id, the node at
// the far end, its directional cost, physical distance, elevation gain/loss
// in the direction of travel, and street name.
type AdjacentEdge struct {
	EdgeID        int64
	ToNode        int64
	ForwardCost   float64
	Distance      float64
	ElevationGain float64
	ElevationLoss float64
	Name          string
}

// Adjacency returns every edge leaving fromNode in its forward direction.
func (s *Store) Adjacency(ctx context.Context, fromNode int64) ([]AdjacentEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, to_node, cost, distance, elevation_gain, elevation_loss, COALESCE(name, '') FROM routing_edges WHERE from_node = ?`, fromNode)
	if err != nil {
		return nil, core.NewError(core.ErrInconsistentData, "adjacency query failed").WithDetail(err.Error())
	}
	defer rows.Close()
	return scanAdjacency(rows)
}

// ReverseAdjacency returns every edge whose to_node is toNode, seen as a
// traversal backward out of toNode: ToNode is the edge's from_node and
// ForwardCost carries its reverse_cost. Oneway edges are included; their
// reverse_cost is the impassable sentinel.
// Elevation gain/loss are swapped for the reverse direction of travel: what
// was a climb forward is a descent in reverse.
func (s *Store) ReverseAdjacency(ctx context.Context, toNode int64) ([]AdjacentEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_node, reverse_cost, distance, elevation_loss, elevation_gain, COALESCE(name, '') FROM routing_edges WHERE to_node = ?`, toNode)
	if err != nil {
		return nil, core.NewError(core.ErrInconsistentData, "reverse adjacency query failed").WithDetail(err.Error())
	}
	defer rows.Close()
	return scanAdjacency(rows)
}

func scanAdjacency(rows *sql.Rows) ([]AdjacentEdge, error) {
	var out []AdjacentEdge
	for rows.Next() {
		var e AdjacentEdge
		if err := rows.Scan(&e.EdgeID, &e.ToNode, &e.ForwardCost, &e.Distance, &e.ElevationGain, &e.ElevationLoss, &e.Name); err != nil {
			return nil, core.NewError(core.ErrInconsistentData, "adjacency scan failed").WithDetail(err.Error())
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewError(core.ErrInconsistentData, "adjacency iteration failed").WithDetail(err.Error())
	}
	return out, nil
}

// Metadata looks up a routing_metadata value by key, reporting whether it
// was present.
func (s *Store) Metadata(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM routing_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, core.NewError(core.ErrInconsistentData, "metadata lookup failed").WithDetail(err.Error())
	}
	return value, true, nil
}

// NodeCoordinate returns a routing node's coordinate, used by the routing
// engine's heuristic and by EdgeGeometry, which the routing engine uses to
// assemble a route's polyline.
func (s *Store) NodeCoordinate(ctx context.Context, nodeID int64) (geo.Coordinate, error) {
	var lat, lon float64
	err := s.db.QueryRowContext(ctx, `SELECT latitude, longitude FROM routing_nodes WHERE id = ?`, nodeID).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return geo.Coordinate{}, core.NewError(core.ErrInconsistentData, "node not found").WithDetail(sql.ErrNoRows.Error())
	}
	if err != nil {
		return geo.Coordinate{}, core.NewError(core.ErrInconsistentData, "node lookup failed").WithDetail(err.Error())
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

// edgeRow is the subset of routing_edges columns needed to expand an
// edge's full geometry (its own endpoints plus packed intermediates).
type edgeRow struct {
	fromNode, toNode int64
	geometry         []byte
}

func (s *Store) loadEdgeRow(ctx context.Context, edgeID int64) (edgeRow, error) {
	var row edgeRow
	var geometry []byte
	err := s.db.QueryRowContext(ctx, `SELECT from_node, to_node, geometry FROM routing_edges WHERE id = ?`, edgeID).
		Scan(&row.fromNode, &row.toNode, &geometry)
	if err == sql.ErrNoRows {
		return edgeRow{}, core.NewError(core.ErrInconsistentData, "edge not found").WithDetail(sql.ErrNoRows.Error())
	}
	if err != nil {
		return edgeRow{}, core.NewError(core.ErrInconsistentData, "edge lookup failed").WithDetail(err.Error())
	}
	row.geometry = geometry
	return row, nil
}

// EdgeGeometry returns an edge's full coordinate sequence: its own two
// endpoints with every packed intermediate coordinate in between, in
// from→to order, per spec.md §4.4's query surface.
func (s *Store) EdgeGeometry(ctx context.Context, edgeID int64) ([]geo.Coordinate, error) {
	row, err := s.loadEdgeRow(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	from, err := s.NodeCoordinate(ctx, row.fromNode)
	if err != nil {
		return nil, err
	}
	to, err := s.NodeCoordinate(ctx, row.toNode)
	if err != nil {
		return nil, err
	}
	intermediates, err := geo.UnpackCoordinates(row.geometry)
	if err != nil {
		return nil, core.NewError(core.ErrInconsistentData, "could not unpack edge geometry").WithDetail(err.Error())
	}

	points := make([]geo.Coordinate, 0, len(intermediates)+2)
	points = append(points, from)
	points = append(points, intermediates...)
	points = append(points, to)
	return points, nil
}

// EdgeGeometryGeoJSON returns an edge's geometry as a GeoJSON LineString,
// a convenience accessor alongside EdgeGeometry's raw coordinate slice for
// callers that want to serialize or hand it to a mapping library directly.
func (s *Store) EdgeGeometryGeoJSON(ctx context.Context, edgeID int64) (*geojson.Geometry, error) {
	points, err := s.EdgeGeometry(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lon, p.Lat}
	}
	return geojson.NewLineStringGeometry(coords), nil
}
