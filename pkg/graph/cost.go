package graph

// ClimbPenaltyPerM is the forward-cost penalty added per metre of
// elevation gain (S3 in the testable-properties scenarios fixes this at 6.0).
const ClimbPenaltyPerM = 6.0

// ImpassableCost is the sentinel reverse cost for a oneway edge. A large
// finite value rather than +Inf, so it survives a round trip through the
// sqlite REAL column unscathed.
const ImpassableCost = 1e9

// MinCostPerMetre is a lower bound on cost-per-metre, used by the routing
// engine's admissible A* heuristic. It lies below the smallest product in
// the multiplier table (paved 0.9 x hiking 1.0 = 0.9), and the elevation
// terms only ever add cost.
const MinCostPerMetre = 0.75

// DefaultSurfaceMultiplier and DefaultSACMultiplier are used for edges
// whose source way omits the corresponding tag.
const (
	DefaultSurfaceMultiplier = 1.0
	DefaultSACMultiplier     = 1.2
)

// surfaceMultiplier maps an OSM `surface` tag value to a cost multiplier;
// rougher surfaces cost more to traverse per metre.
var surfaceMultiplier = map[string]float64{
	"paved":         0.9,
	"asphalt":       1.0,
	"concrete":      1.0,
	"paving_stones": 1.05,
	"gravel":        1.15,
	"fine_gravel":   1.1,
	"compacted":     1.1,
	"ground":        1.2,
	"dirt":          1.25,
	"grass":         1.3,
	"mud":           1.6,
	"sand":          1.5,
	"rock":          1.7,
	"scree":         1.8,
}

// sacMultiplier maps an OSM `sac_scale` tag value to a cost multiplier,
// reflecting the Swiss Alpine Club's T1 (easiest) to T6 (hardest) scale.
var sacMultiplier = map[string]float64{
	"hiking":                   1.0,
	"mountain_hiking":          1.2,
	"demanding_mountain_hiking": 1.4,
	"alpine_hiking":            1.7,
	"demanding_alpine_hiking":  2.1,
	"difficult_alpine_hiking":  2.6,
}

// stepsPenalty is the forward-cost multiplier applied when highway=steps.
const stepsPenalty = 1.5

func lookupSurfaceMultiplier(surface string) float64 {
	if surface == "" {
		return DefaultSurfaceMultiplier
	}
	if m, ok := surfaceMultiplier[surface]; ok {
		return m
	}
	return DefaultSurfaceMultiplier
}

func lookupSACMultiplier(sacScale string) float64 {
	if sacScale == "" {
		return DefaultSACMultiplier
	}
	if m, ok := sacMultiplier[sacScale]; ok {
		return m
	}
	return DefaultSACMultiplier
}

func lookupStepsPenalty(highway string) float64 {
	if highway == "steps" {
		return stepsPenalty
	}
	return 1.0
}

// isOneway reports whether an OSM `oneway` tag value means the way cannot
// be traversed in reverse.
func isOneway(value string) bool {
	switch value {
	case "yes", "1", "true":
		return true
	default:
		return false
	}
}

// descentMultiplier applies a Tobler-style piecewise multiplier to a
// downhill grade (loss/distance * 100, in percent): gentle downhill grades
// reduce cost (walking downhill is faster than flat), steep ones increase
// it (footing becomes treacherous and slow). Thresholds are this repo's own
// choice, since spec.md describes the shape of the curve but not literal
// breakpoints; the boundary grades below were picked so a gentle forest
// descent (under 10%) is rewarded, a moderate descent is cost-neutral, and
// anything past "scramble" steepness (30%+) is penalized harder than the
// equivalent climb.
func descentMultiplier(gradePercent float64) float64 {
	switch {
	case gradePercent < 10:
		return 0.85
	case gradePercent < 20:
		return 1.0
	case gradePercent < 30:
		return 1.3
	default:
		return 1.8
	}
}

// descentTerm computes the cost contribution of a downhill loss over dist
// metres, per spec.md §4.3's descent_term.
func descentTerm(loss, dist float64) float64 {
	if loss <= 0 || dist <= 0 {
		return 0
	}
	grade := loss / dist * 100
	return loss * ClimbPenaltyPerM * descentMultiplier(grade)
}
