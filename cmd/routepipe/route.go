package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/monitoring"
	"github.com/hikepath/routepipe/pkg/routing"
	"github.com/hikepath/routepipe/pkg/store"
)

// difficultyThresholds buckets a route's 0-100 overall difficulty score;
// spec.md leaves difficulty scoring unspecified beyond the raw
// distance/elevation gain a route carries, so this reuses the package's
// general-purpose threshold scorer rather than inventing a one-off.
var difficultyThresholds = map[string][]int{
	"easy":      {0, 30},
	"moderate":  {31, 65},
	"strenuous": {66, 100},
}

// distanceComponentScore and gainComponentScore saturate at 100 around a
// 20km walk and a 1000m climb respectively — generous outer bounds for a
// single day hike, past which a route is unambiguously strenuous.
func distanceComponentScore(distanceM float64) int {
	score := int(distanceM / 200)
	if score > 100 {
		score = 100
	}
	return score
}

func gainComponentScore(gainM float64) int {
	score := int(gainM / 10)
	if score > 100 {
		score = 100
	}
	return score
}

// routeDifficulty combines a route's distance and elevation gain into one
// overall 0-100 score via core.CalculateOverallScore (climb weighted more
// heavily than flat distance), then buckets it with core.ThresholdScores.
func routeDifficulty(route *routing.PlannedRoute) string {
	overall := core.CalculateOverallScore(
		map[string]int{
			"distance": distanceComponentScore(route.TotalDistanceM),
			"gain":     gainComponentScore(route.ElevationGainM),
		},
		map[string]float64{"distance": 1.0, "gain": 1.5},
	)
	return core.ThresholdScores(map[string]int{"overall": overall}, difficultyThresholds)["overall"]
}

// runRoute computes a single point-to-point walking route against an
// already-built routing database and prints its summary, optionally
// exporting it as a GPX track.
func runRoute(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	dbPath := fs.String("db", "", "routing database path")
	startStr := fs.String("start", "", "start coordinate as lat,lon")
	endStr := fs.String("end", "", "end coordinate as lat,lon")
	gpxOut := fs.String("gpx", "", "write the computed route as a GPX track to this path (optional)")
	showPolyline := fs.Bool("polyline", false, "print the route as an encoded polyline string, for pasting into a sharing link")
	name := fs.String("name", "", "a label for this route, stamped into GPX output (optional)")
	fs.Parse(args)

	if *dbPath == "" || *startStr == "" || *endStr == "" {
		return fmt.Errorf("route: -db, -start, and -end are all required")
	}
	routeName := core.SanitizeString(*name)
	if routeName != "" {
		if err := core.ValidateStringLength(routeName, 1, 120); err != nil {
			return fmt.Errorf("route: %w", err)
		}
	}
	start, err := parseCoordinate(*startStr)
	if err != nil {
		return err
	}
	end, err := parseCoordinate(*endStr)
	if err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open routing database: %w", err)
	}
	defer s.Close()

	engine, err := routing.NewEngine(s, routing.DefaultRouteCacheSize)
	if err != nil {
		return fmt.Errorf("construct routing engine: %w", err)
	}

	queryStart := time.Now()
	route, err := engine.ComputeRoute(ctx, start, end, routing.ModeWalk)
	monitoring.RecordRouteQuery(string(routing.ModeWalk), time.Since(queryStart))
	if err != nil {
		monitoring.RecordError("routing", errorCode(err))
		return fmt.Errorf("compute route: %w", err)
	}

	if routeName != "" {
		route.Name = routeName
	}

	difficulty := routeDifficulty(route)

	logger.Info("route computed",
		"distance_m", route.TotalDistanceM,
		"elevation_gain_m", route.ElevationGainM,
		"elevation_loss_m", route.ElevationLossM,
		"estimated_seconds", route.EstimatedSeconds,
		"instructions", len(route.Instructions),
		"difficulty", difficulty)

	fmt.Printf("distance: %.0f m\nelevation gain: %.0f m\nelevation loss: %.0f m\nestimated duration: %s\ndifficulty: %s\n",
		route.TotalDistanceM, route.ElevationGainM, route.ElevationLossM,
		time.Duration(route.EstimatedSeconds*float64(time.Second)).Round(time.Second), difficulty)
	for _, instr := range route.Instructions {
		fmt.Printf("  %-12s at %.0f m  %s\n", instr.Direction, instr.CumulativeDistance, instr.Name)
	}

	if *showPolyline {
		fmt.Printf("polyline: %s\n", geo.EncodePolyline(route.Polyline))
	}

	if *gpxOut != "" {
		if err := writeRouteGPX(*gpxOut, route); err != nil {
			return fmt.Errorf("write gpx: %w", err)
		}
		logger.Info("wrote gpx track", "path", *gpxOut)
	}

	return nil
}
