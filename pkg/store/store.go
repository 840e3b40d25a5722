// Package store provides durable typed storage for one routing graph per
// bounding box: a destructive bulk loader and a read-only indexed query
// surface, backed by a single-file sqlite database per spec.md §4.4.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the value written to routing_metadata under the
// "version" key by every bulk load.
const SchemaVersion = "1"

// Store is a handle onto one routing database file, opened either for
// bulk loading (see Create) or read-only querying (see Open).
type Store struct {
	db *sql.DB
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const createSchemaSQL = `
CREATE TABLE routing_nodes (
	id        INTEGER PRIMARY KEY,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	elevation REAL
);

CREATE TABLE routing_edges (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	from_node        INTEGER NOT NULL REFERENCES routing_nodes(id),
	to_node          INTEGER NOT NULL REFERENCES routing_nodes(id),
	distance         REAL NOT NULL,
	elevation_gain   REAL NOT NULL,
	elevation_loss   REAL NOT NULL,
	surface          TEXT,
	highway_type     TEXT,
	sac_scale        TEXT,
	trail_visibility TEXT,
	name             TEXT,
	osm_way_id       INTEGER NOT NULL,
	cost             REAL NOT NULL,
	reverse_cost     REAL NOT NULL,
	is_oneway        INTEGER NOT NULL,
	geometry         BLOB
);

CREATE TABLE routing_metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const createIndexesSQL = `
CREATE INDEX idx_routing_nodes_latlon ON routing_nodes (latitude, longitude);
CREATE INDEX idx_routing_edges_from ON routing_edges (from_node);
CREATE INDEX idx_routing_edges_to ON routing_edges (to_node);
`

// Open opens an existing routing database read-only for querying.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}
