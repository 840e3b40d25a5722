package routing

import (
	"container/heap"
	"context"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/graph"
	"github.com/hikepath/routepipe/pkg/store"
)

// searchItem is one entry of the open set's priority queue.
type searchItem struct {
	node  int64
	g     float64
	f     float64
	index int
}

type openSet []*searchItem

func (s openSet) Len() int { return len(s) }

// Less ties g+h ascending, then smaller g, then smaller node id — the
// exact tie-break order spec.md §4.5 specifies.
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	if s[i].g != s[j].g {
		return s[i].g < s[j].g
	}
	return s[i].node < s[j].node
}

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *openSet) Push(x any) {
	item := x.(*searchItem)
	item.index = len(*s)
	*s = append(*s, item)
}

func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return item
}

// cameFromEntry records, for one visited node, the predecessor node and
// the edge that reached it — enough to walk the path back to the start.
type cameFromEntry struct {
	from int64
	edge store.AdjacentEdge
}

// aStar finds a least-cost path from start to end over the stored graph,
// returning the ordered sequence of edges traversed.
func aStar(ctx context.Context, s *store.Store, start, end int64) ([]store.AdjacentEdge, error) {
	if start == end {
		return nil, nil
	}

	goalCoord, err := s.NodeCoordinate(ctx, end)
	if err != nil {
		return nil, err
	}

	gScore := map[int64]float64{start: 0}
	cameFrom := map[int64]cameFromEntry{}
	visited := map[int64]bool{}

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &searchItem{node: start, g: 0, f: heuristic(ctx, s, start, goalCoord)})

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, core.NewError(core.ErrCancelled, "route search cancelled")
		}

		current := heap.Pop(open).(*searchItem)
		if visited[current.node] {
			continue
		}
		visited[current.node] = true

		if current.node == end {
			return reconstructPath(cameFrom, start, end), nil
		}

		edges, err := s.Adjacency(ctx, current.node)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if e.ForwardCost >= graph.ImpassableCost {
				continue
			}
			if visited[e.ToNode] {
				continue
			}
			tentativeG := current.g + e.ForwardCost
			if existing, ok := gScore[e.ToNode]; ok && tentativeG >= existing {
				continue
			}
			gScore[e.ToNode] = tentativeG
			cameFrom[e.ToNode] = cameFromEntry{from: current.node, edge: e}
			heap.Push(open, &searchItem{
				node: e.ToNode,
				g:    tentativeG,
				f:    tentativeG + heuristic(ctx, s, e.ToNode, goalCoord),
			})
		}
	}

	return nil, core.NewError(core.ErrNoRoute, "no path exists between the given endpoints")
}

func heuristic(ctx context.Context, s *store.Store, node int64, goal geo.Coordinate) float64 {
	coord, err := s.NodeCoordinate(ctx, node)
	if err != nil {
		return 0
	}
	return geo.Distance(coord, goal) * graph.MinCostPerMetre
}

// reconstructPath walks cameFrom backward from end to start, returning the
// edges in traversal (start→end) order.
func reconstructPath(cameFrom map[int64]cameFromEntry, start, end int64) []store.AdjacentEdge {
	var path []store.AdjacentEdge
	node := end
	for node != start {
		entry, ok := cameFrom[node]
		if !ok {
			break
		}
		path = append([]store.AdjacentEdge{entry.edge}, path...)
		node = entry.from
	}
	return path
}
