package graph

import (
	"strconv"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/osm"
)

// RawEdge is one segment of a way between two junctions, before cost
// computation. Intermediates holds the node ids strictly between From and
// To, in traversal order.
type RawEdge struct {
	From          int64
	To            int64
	Intermediates []int64
	Distance      float64
	SourceWayID   int64
	Tags          map[string]string
}

// SplitWays walks each way's node sequence, starting a new segment at the
// first node and closing one out every time a junction is reached,
// accumulating Haversine distance across each successive pair. Returns
// InconsistentData if any node referenced by a way is missing from nodes.
func SplitWays(ways []*osm.Way, nodes map[int64]*osm.Node, junctions map[int64]bool) ([]RawEdge, error) {
	var edges []RawEdge

	for _, w := range ways {
		if len(w.Nodes) < 2 {
			continue
		}

		segStart := w.Nodes[0]
		if _, ok := nodes[segStart]; !ok {
			return nil, core.NewError(core.ErrInconsistentData,
				"way references a node absent from the ingested node set").
				WithDetail(nodeDetail(w.ID, segStart))
		}

		var intermediates []int64
		distance := 0.0

		for i := 1; i < len(w.Nodes); i++ {
			prevID := w.Nodes[i-1]
			curID := w.Nodes[i]

			prevNode, ok := nodes[prevID]
			if !ok {
				return nil, core.NewError(core.ErrInconsistentData,
					"way references a node absent from the ingested node set").
					WithDetail(nodeDetail(w.ID, prevID))
			}
			curNode, ok := nodes[curID]
			if !ok {
				return nil, core.NewError(core.ErrInconsistentData,
					"way references a node absent from the ingested node set").
					WithDetail(nodeDetail(w.ID, curID))
			}

			distance += geo.Distance(prevNode.Coord, curNode.Coord)

			isLast := i == len(w.Nodes)-1
			if junctions[curID] || isLast {
				edges = append(edges, RawEdge{
					From:          segStart,
					To:            curID,
					Intermediates: intermediates,
					Distance:      distance,
					SourceWayID:   w.ID,
					Tags:          w.Tags,
				})
				segStart = curID
				intermediates = nil
				distance = 0
			} else {
				intermediates = append(intermediates, curID)
			}
		}
	}

	return edges, nil
}

func nodeDetail(wayID, nodeID int64) string {
	return "way " + strconv.FormatInt(wayID, 10) + " references missing node " + strconv.FormatInt(nodeID, 10)
}
