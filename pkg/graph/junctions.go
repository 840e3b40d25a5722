// Package graph converts OSM ways and nodes into a routing graph: junction
// identification, way splitting into raw edges, elevation resolution, and
// directional cost computation.
package graph

import "github.com/hikepath/routepipe/pkg/osm"

// Junctions identifies every node that is either an endpoint of at least
// one routable way, or an interior node of at least two routable ways.
// Endpoints are force-promoted by incrementing their counter by 2 (rather
// than 1), so a way's endpoint that also appears as another way's interior
// node is counted at weight 3 — harmless, since the threshold is >= 2, but
// preserved deliberately rather than simplified away.
func Junctions(ways []*osm.Way) map[int64]bool {
	counts := make(map[int64]int)

	for _, w := range ways {
		if len(w.Nodes) == 0 {
			continue
		}
		for i, id := range w.Nodes {
			if i == 0 || i == len(w.Nodes)-1 {
				counts[id] += 2
			} else {
				counts[id]++
			}
		}
	}

	junctions := make(map[int64]bool, len(counts))
	for id, count := range counts {
		if count >= 2 {
			junctions[id] = true
		}
	}
	return junctions
}
