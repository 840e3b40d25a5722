// Package routing computes turn-by-turn walking routes over a persisted
// routing graph: A* search, endpoint snapping, polyline assembly, and
// turn-instruction synthesis, per spec.md §4.5.
package routing

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/store"
)

// DefaultSnapRadiusM is the default search radius used to snap a raw
// start/end coordinate onto the nearest routing node.
const DefaultSnapRadiusM = 500.0

// DefaultRouteCacheSize bounds the number of distinct (start, end, mode)
// queries whose computed route is kept in memory.
const DefaultRouteCacheSize = 256

// Mode selects which directional cost column the search should honor.
// Only "walk" is meaningful today; spec.md's non-goals exclude
// multi-modal routing, but the flag is part of the public signature.
type Mode string

const (
	ModeWalk Mode = "walk"
)

// TurnDirection classifies the bearing change at a junction.
type TurnDirection string

const (
	DirectionStart       TurnDirection = "start"
	DirectionStraight    TurnDirection = "straight"
	DirectionSlightLeft  TurnDirection = "slight-left"
	DirectionLeft        TurnDirection = "left"
	DirectionSharpLeft   TurnDirection = "sharp-left"
	DirectionSlightRight TurnDirection = "slight-right"
	DirectionRight       TurnDirection = "right"
	DirectionSharpRight  TurnDirection = "sharp-right"
	DirectionUTurn       TurnDirection = "u-turn"
	DirectionArrive      TurnDirection = "arrive"
)

// TurnInstruction is one step of a planned route.
type TurnInstruction struct {
	Direction          TurnDirection
	CumulativeDistance float64
	Name               string
	Coord              geo.Coordinate
}

// PlannedRoute is the complete, immutable output of a route computation.
type PlannedRoute struct {
	Name             string
	Polyline         []geo.Coordinate
	Instructions     []TurnInstruction
	TotalDistanceM   float64
	ElevationGainM   float64
	ElevationLossM   float64
	EstimatedSeconds float64
	RegionID         string
}

// AverageWalkingSpeedMPS estimates duration from distance; spec.md leaves
// the exact speed model unspecified, so a flat hiking pace is used.
const AverageWalkingSpeedMPS = 1.25

// Engine computes routes against one opened routing store, caching
// results keyed by snapped start/end node pair and mode.
type Engine struct {
	store *store.Store
	cache *lru.Cache[string, *PlannedRoute]
}

// NewEngine wraps a store handle with a bounded route-result cache.
// The engine is stateless otherwise; one instance per query is fine, but
// a single instance may also be reused across queries to share the cache.
func NewEngine(s *store.Store, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultRouteCacheSize
	}
	c, err := lru.New[string, *PlannedRoute](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{store: s, cache: c}, nil
}

// ComputeRoute snaps start/end to routing nodes, runs A*, and assembles a
// PlannedRoute, or fails with NoRoute / EndpointUnreachable.
func (e *Engine) ComputeRoute(ctx context.Context, start, end geo.Coordinate, mode Mode) (*PlannedRoute, error) {
	startNode, err := e.store.NearestNode(ctx, start, DefaultSnapRadiusM)
	if err != nil {
		return nil, core.NewError(core.ErrEndpointUnreachable, "could not snap start coordinate to a routing node").WithDetail(err.Error())
	}
	endNode, err := e.store.NearestNode(ctx, end, DefaultSnapRadiusM)
	if err != nil {
		return nil, core.NewError(core.ErrEndpointUnreachable, "could not snap end coordinate to a routing node").WithDetail(err.Error())
	}

	key := cacheKey(startNode, endNode, mode)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	path, err := aStar(ctx, e.store, startNode, endNode)
	if err != nil {
		return nil, err
	}

	route, err := assembleRoute(ctx, e.store, start, end, path)
	if err != nil {
		return nil, err
	}

	e.cache.Add(key, route)
	return route, nil
}

func cacheKey(start, end int64, mode Mode) string {
	return fmt.Sprintf("%d:%d:%s", start, end, mode)
}
