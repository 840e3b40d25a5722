// Package osm implements the OSM ingester: Overpass query construction,
// rate-limited retrying transport, streaming XML parsing into routable
// ways and their nodes, and a PBF blob-framing decoder.
package osm

import (
	"github.com/hikepath/routepipe/pkg/geo"
)

const (
	// OverpassPrimaryURL is the default Overpass API endpoint.
	OverpassPrimaryURL = "https://overpass-api.de/api/interpreter"
	// OverpassFallbackURL is tried when the primary endpoint fails or times out.
	OverpassFallbackURL = "https://overpass.kumi.systems/api/interpreter"

	// UserAgent identifies this client to upstream services.
	UserAgent = "routepipe/0.1.0"

	// MaxOverpassAreaKM2 is the default area gate for ingest requests.
	MaxOverpassAreaKM2 = 10000.0

	// OverpassQueryTimeoutSeconds is embedded in the query body.
	OverpassQueryTimeoutSeconds = 300

	// EarthRadius re-exports geo.EarthRadius for callers within this package.
	EarthRadius = geo.EarthRadius
)
