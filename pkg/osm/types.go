package osm

import "github.com/hikepath/routepipe/pkg/geo"

// RoutableHighways is the configured set of highway tag values considered
// routable for hiking. highway=construction is deliberately excluded.
var RoutableHighways = map[string]bool{
	"path":        true,
	"footway":     true,
	"track":       true,
	"steps":       true,
	"cycleway":    true,
	"bridleway":   true,
	"residential": true,
	"living_street": true,
	"pedestrian":  true,
	"unclassified": true,
	"service":     true,
}

// Node is an OSM node: a stable identifier, coordinate, and opaque tags.
type Node struct {
	ID    int64
	Coord geo.Coordinate
	Tags  map[string]string
}

// Way is an OSM way: a stable identifier, ordered node references, and tags.
type Way struct {
	ID    int64
	Nodes []int64
	Tags  map[string]string
}

// Routable reports whether the way's highway tag is in the routable set.
func (w *Way) Routable() bool {
	highway, ok := w.Tags["highway"]
	if !ok {
		return false
	}
	return RoutableHighways[highway]
}

// IngestResult is the output of the OSM ingester: every node in the
// response (including boundary-crossing nodes outside the requested box and
// nodes referenced only by dropped ways), and the list of routable ways
// with at least 2 node references.
type IngestResult struct {
	Nodes map[int64]*Node
	Ways  []*Way
}
