package guidance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/routing"
)

// Update executes the six steps of §4.6's update(location) operation in
// order: segment projection, off-route detection, progress calculation,
// instruction advancement, distance-to-next-turn, and alert emission.
// It must not be called concurrently with itself.
func (t *Tracker) Update(location geo.Coordinate) ([]Alert, Progress) {
	if t.route == nil || len(t.route.Polyline) < 2 {
		return nil, Progress{}
	}

	distanceAlong, distanceFromRoute := t.projectOntoRoute(location)
	total := t.cum[len(t.cum)-1]

	var alerts []Alert

	// Step 2: off-route hysteresis.
	if distanceFromRoute > offRouteEnterM && !t.offRoute {
		t.offRoute = true
		alerts = append(alerts, t.newAlert(AlertOffRoute, ""))
	} else if distanceFromRoute < offRouteExitM && t.offRoute {
		t.offRoute = false
	}

	// Step 3: progress.
	fraction := 0.0
	if total > 0 {
		fraction = distanceAlong / total
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	remaining := total - distanceAlong
	if remaining < 0 {
		remaining = 0
	}

	// A route without instructions (such as a replayed polyline) has no turn
	// to advance to or alert on; only arrival at its end is reported, and the
	// distance to the next turn is the distance left to that end.
	if len(t.route.Instructions) == 0 {
		if distanceAlong >= total-atTurnDistanceM && !t.arrivedFired {
			t.arrivedFired = true
			alerts = append(alerts, t.newAlert(AlertArrived, routing.DirectionArrive))
		}
		return alerts, Progress{DistanceAlongM: distanceAlong, RemainingM: remaining, Fraction: fraction, DistanceToNextTurnM: remaining}
	}

	// Step 4: instruction advancement.
	for t.currentInstruction < len(t.route.Instructions)-1 &&
		t.route.Instructions[t.currentInstruction].CumulativeDistance <= distanceAlong+advanceLookaheadM {
		t.currentInstruction++
		t.approachingFired = false
		t.atFired = false
	}

	// Step 5: distance to next turn.
	distanceToNextTurn := t.route.Instructions[t.currentInstruction].CumulativeDistance - distanceAlong
	if distanceToNextTurn < 0 {
		distanceToNextTurn = 0
	}

	// Step 6: alert emission.
	direction := t.route.Instructions[t.currentInstruction].Direction
	if distanceToNextTurn > advanceLookaheadM && distanceToNextTurn <= approachingDistanceM && !t.approachingFired {
		t.approachingFired = true
		alerts = append(alerts, t.newAlert(AlertApproachingTurn, direction))
	}
	if distanceToNextTurn <= atTurnDistanceM && !t.atFired {
		t.atFired = true
		alerts = append(alerts, t.newAlert(AlertAtTurn, direction))
	}
	if t.currentInstruction == len(t.route.Instructions)-1 && distanceAlong >= total-atTurnDistanceM && !t.arrivedFired {
		t.arrivedFired = true
		alerts = append(alerts, t.newAlert(AlertArrived, direction))
	}

	progress := Progress{
		DistanceAlongM:      distanceAlong,
		RemainingM:          remaining,
		Fraction:            fraction,
		DistanceToNextTurnM: distanceToNextTurn,
	}
	return alerts, progress
}

// projectOntoRoute implements §4.6 step 1: project location onto each
// polyline segment, keep the closest, and compute distance-along-route.
func (t *Tracker) projectOntoRoute(location geo.Coordinate) (distanceAlong, distanceFromRoute float64) {
	best := -1.0
	bestDistanceAlong := 0.0

	for i := 0; i < len(t.route.Polyline)-1; i++ {
		segT, projected := projectOntoSegment(t.route.Polyline[i], t.route.Polyline[i+1], location)
		dist := geo.Distance(location, projected)
		if best < 0 || dist < best {
			best = dist
			bestDistanceAlong = t.cum[i] + segT*(t.cum[i+1]-t.cum[i])
		}
	}
	return bestDistanceAlong, best
}

func (t *Tracker) newAlert(kind AlertType, direction routing.TurnDirection) Alert {
	return Alert{ID: uuid.New(), Type: kind, Direction: direction, EmittedAt: time.Now()}
}
