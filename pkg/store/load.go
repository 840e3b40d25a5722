package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/graph"
)

// Metadata carries the caller-supplied provenance values that spec.md §3
// requires alongside version/node_count/edge_count, which the loader
// derives itself from the graph result.
type Metadata struct {
	BoundingBox     geo.BoundingBox
	ElevationSource string
}

// Create bulk-loads a freshly built graph into a new routing database at
// path. Creation is destructive: an existing file at path is removed first.
// All inserts happen inside a single transaction; indexes are created in
// that same transaction only after every row is inserted, just before the
// commit, matching spec.md §4.4's bulk-load contract.
// Cancelling ctx mid-transaction rolls it back.
func Create(ctx context.Context, path string, result *graph.Result, meta Metadata) (*Store, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, core.NewError(core.ErrDatabaseCreationFailed, "could not remove existing database file").WithDetail(err.Error())
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, core.NewError(core.ErrDatabaseCreationFailed, "could not open database file").WithDetail(err.Error())
	}

	if err := bulkLoad(ctx, db, result, meta); err != nil {
		db.Close()
		os.Remove(path)
		return nil, err
	}

	return &Store{db: db}, nil
}

func bulkLoad(ctx context.Context, db *sql.DB, result *graph.Result, meta Metadata) error {
	if _, err := db.ExecContext(ctx, createSchemaSQL); err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not create schema").WithDetail(err.Error())
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not begin transaction").WithDetail(err.Error())
	}
	defer tx.Rollback()

	nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO routing_nodes (id, latitude, longitude, elevation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not prepare node insert").WithDetail(err.Error())
	}
	defer nodeStmt.Close()

	for _, n := range result.Nodes {
		if err := ctx.Err(); err != nil {
			return core.NewError(core.ErrCancelled, "bulk load cancelled")
		}
		var elevation sql.NullFloat64
		if n.Elevation != nil {
			// Copy the pointed-to value: Go's driver already copies scalar
			// args by value, but we dereference explicitly so the intent —
			// the source float must not be referenced after this call —
			// matches the string/blob copying discipline below.
			elevation = sql.NullFloat64{Float64: *n.Elevation, Valid: true}
		}
		if _, err := nodeStmt.ExecContext(ctx, n.ID, n.Coord.Lat, n.Coord.Lon, elevation); err != nil {
			return core.NewError(core.ErrDatabaseCreationFailed, "could not insert node").WithDetail(fmt.Sprintf("node %d: %v", n.ID, err))
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO routing_edges
		(from_node, to_node, distance, elevation_gain, elevation_loss, surface, highway_type, sac_scale, trail_visibility, name, osm_way_id, cost, reverse_cost, is_oneway, geometry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not prepare edge insert").WithDetail(err.Error())
	}
	defer edgeStmt.Close()

	for _, e := range result.Edges {
		if err := ctx.Err(); err != nil {
			return core.NewError(core.ErrCancelled, "bulk load cancelled")
		}
		// Copy every transient string/blob value before binding: the
		// source buffers (tag strings, the packed geometry blob) must not
		// be assumed to outlive the driver's step call.
		surface := copyString(e.Surface)
		highway := copyString(e.HighwayType)
		sacScale := copyString(e.SACScale)
		trailVisibility := copyString(e.TrailVisibility)
		name := copyString(e.Name)
		geometry := copyBytes(e.Geometry)

		oneway := 0
		if e.IsOneway {
			oneway = 1
		}

		if _, err := edgeStmt.ExecContext(ctx,
			e.From, e.To, e.Distance, e.ElevationGain, e.ElevationLoss,
			nullString(surface), nullString(highway), nullString(sacScale), nullString(trailVisibility), nullString(name),
			e.SourceWayID, e.ForwardCost, e.ReverseCost, oneway, nullBytes(geometry),
		); err != nil {
			return core.NewError(core.ErrDatabaseCreationFailed, "could not insert edge").WithDetail(fmt.Sprintf("edge %d->%d: %v", e.From, e.To, err))
		}
	}

	metadata := map[string]string{
		"version":          SchemaVersion,
		"node_count":       fmt.Sprintf("%d", len(result.Nodes)),
		"edge_count":       fmt.Sprintf("%d", len(result.Edges)),
		"created_at":       time.Now().UTC().Format(time.RFC3339),
		"bounding_box":     fmt.Sprintf("%g,%g,%g,%g", meta.BoundingBox.West, meta.BoundingBox.South, meta.BoundingBox.East, meta.BoundingBox.North),
		"elevation_source": meta.ElevationSource,
	}
	for key, value := range metadata {
		if _, err := tx.ExecContext(ctx, `INSERT INTO routing_metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return core.NewError(core.ErrDatabaseCreationFailed, "could not insert metadata").WithDetail(err.Error())
		}
	}

	if _, err := tx.ExecContext(ctx, createIndexesSQL); err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not create indexes").WithDetail(err.Error())
	}

	if err := tx.Commit(); err != nil {
		return core.NewError(core.ErrDatabaseCreationFailed, "could not commit transaction").WithDetail(err.Error())
	}
	return nil
}

func copyString(s string) string {
	b := make([]byte, len(s))
	copy(b, s)
	return string(b)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullBytes(b []byte) []byte {
	return b
}
