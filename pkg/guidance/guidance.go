// Package guidance tracks a user's live progress along a PlannedRoute and
// emits alert events: off-route detection, instruction advancement, and
// approach/arrival alerts, per spec.md §4.6.
package guidance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/routing"
)

// Off-route hysteresis distances from spec.md §4.6 step 2.
const (
	offRouteEnterM = 50.0
	offRouteExitM  = 30.0
)

// Instruction-advancement lookahead and alert thresholds from §4.6
// steps 4-6.
const (
	advanceLookaheadM   = 30.0
	approachingDistanceM = 100.0
	atTurnDistanceM      = 30.0
)

// AlertType identifies the kind of event Update may emit.
type AlertType string

const (
	AlertApproachingTurn AlertType = "approaching_turn"
	AlertAtTurn          AlertType = "at_turn"
	AlertArrived         AlertType = "arrived"
	AlertOffRoute        AlertType = "off_route"
)

// Alert is a plain record the caller maps to platform-specific haptics or
// audio; it carries no behavior of its own.
type Alert struct {
	ID        uuid.UUID
	Type      AlertType
	Direction routing.TurnDirection
	EmittedAt time.Time
}

// Tracker holds the single-threaded cooperative state for one active
// route-following session. Update must be called in causal GPS order and
// must not be called concurrently with itself; the publisher of GPS
// updates may run on a different goroutine than the one that created the
// Tracker, but the two must serialize their calls.
type Tracker struct {
	route *routing.PlannedRoute
	cum   []float64

	currentInstruction int
	offRoute           bool
	approachingFired   bool
	atFired            bool
	arrivedFired       bool
}

// NewTracker constructs an idle tracker; call Start to begin following a
// route.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Start resets all state for a new route and precomputes the cumulative
// distance array over its polyline, per §4.6's start(route) operation.
func (t *Tracker) Start(route *routing.PlannedRoute) {
	t.route = route
	t.cum = cumulativeDistances(route.Polyline)
	t.offRoute = false
	t.approachingFired = false
	t.atFired = false
	t.arrivedFired = false

	if len(route.Instructions) > 1 {
		t.currentInstruction = 1
	} else {
		t.currentInstruction = 0
	}
}

// Stop clears all state; no further alerts are produced until Start is
// called again.
func (t *Tracker) Stop() {
	t.route = nil
	t.cum = nil
	t.currentInstruction = 0
	t.offRoute = false
	t.approachingFired = false
	t.atFired = false
	t.arrivedFired = false
}

// Progress summarizes the tracker's current position along the route.
type Progress struct {
	DistanceAlongM float64
	RemainingM     float64
	Fraction       float64
	DistanceToNextTurnM float64
}

func cumulativeDistances(points []geo.Coordinate) []float64 {
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + geo.Distance(points[i-1], points[i])
	}
	return cum
}
