package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/guidance"
	"github.com/hikepath/routepipe/pkg/routing"
	"github.com/hikepath/routepipe/pkg/store"
)

// maxSimStepM is the largest accepted -step-m; above it the replay stops
// resembling plausible GPS fix spacing. Steps wider than the tracker's
// alert radii can carry a fix past a turn's alert window without any fix
// landing inside it.
const maxSimStepM = 500.0

// runGuideSim computes a route, then walks a simulated hiker along its
// polyline at a fixed step distance, feeding each position through a
// guidance.Tracker and printing every alert it raises. This exercises the
// same Update() call a live navigation client would drive from GPS fixes,
// without needing an actual device in the loop.
//
// In place of -db/-start/-end, -polyline accepts an encoded polyline (as
// produced by "route -polyline") so a previously shared route can be
// replayed without the routing database that generated it.
func runGuideSim(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("guide-sim", flag.ExitOnError)
	dbPath := fs.String("db", "", "routing database path")
	startStr := fs.String("start", "", "start coordinate as lat,lon")
	endStr := fs.String("end", "", "end coordinate as lat,lon")
	polylineStr := fs.String("polyline", "", "replay an encoded polyline instead of computing a route")
	stepM := fs.Float64("step-m", 20.0, "simulated distance between successive position fixes, in meters")
	fs.Parse(args)

	if err := core.ValidateNumericRange(*stepM, 1, maxSimStepM); err != nil {
		return fmt.Errorf("guide-sim: %w", err)
	}

	var route *routing.PlannedRoute
	if *polylineStr != "" {
		decoded, err := geo.DecodePolyline(*polylineStr)
		if err != nil {
			return fmt.Errorf("decode polyline: %w", err)
		}
		if len(decoded) < 2 {
			return fmt.Errorf("guide-sim: decoded polyline needs at least 2 points")
		}
		route = syntheticRoute(decoded)
	} else {
		if *dbPath == "" || *startStr == "" || *endStr == "" {
			return fmt.Errorf("guide-sim: either -polyline, or -db with -start and -end, is required")
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

		route, err = engine.ComputeRoute(ctx, start, end, routing.ModeWalk)
		if err != nil {
			return fmt.Errorf("compute route: %w", err)
		}
	}

	tracker := guidance.NewTracker()
	tracker.Start(route)

	cumulative := cumulativeDistances(route.Polyline)
	total := cumulative[len(cumulative)-1]

	for along := 0.0; along <= total; along += *stepM {
		fix := pointAtDistance(route.Polyline, cumulative, along)
		alerts, progress := tracker.Update(fix)
		for _, alert := range alerts {
			logger.Info("guidance alert",
				"type", alert.Type,
				"distance_along_m", progress.DistanceAlongM,
				"remaining_m", progress.RemainingM,
				"direction", alert.Direction)
		}
	}

	final := route.Polyline[len(route.Polyline)-1]
	alerts, progress := tracker.Update(final)
	for _, alert := range alerts {
		logger.Info("guidance alert",
			"type", alert.Type,
			"distance_along_m", progress.DistanceAlongM,
			"remaining_m", progress.RemainingM,
			"direction", alert.Direction)
	}

	return nil
}

// syntheticRoute builds a minimal PlannedRoute around a replayed polyline
// that didn't come from Engine.ComputeRoute, so guide-sim has no turn
// instructions to print; the tracker still emits off-route and arrival
// alerts against it.
func syntheticRoute(polyline []geo.Coordinate) *routing.PlannedRoute {
	cum := cumulativeDistances(polyline)
	total := cum[len(cum)-1]
	return &routing.PlannedRoute{
		Name:             "replayed route",
		Polyline:         polyline,
		TotalDistanceM:   total,
		EstimatedSeconds: total / routing.AverageWalkingSpeedMPS,
	}
}

// cumulativeDistances returns the running distance along polyline at each
// vertex, starting at 0.
func cumulativeDistances(polyline []geo.Coordinate) []float64 {
	cum := make([]float64, len(polyline))
	for i := 1; i < len(polyline); i++ {
		cum[i] = cum[i-1] + geo.Distance(polyline[i-1], polyline[i])
	}
	return cum
}

// pointAtDistance linearly interpolates the coordinate along polyline at
// cumulative distance along, given polyline's precomputed cumulative
// distances.
func pointAtDistance(polyline []geo.Coordinate, cumulative []float64, along float64) geo.Coordinate {
	if along <= 0 {
		return polyline[0]
	}
	total := cumulative[len(cumulative)-1]
	if along >= total {
		return polyline[len(polyline)-1]
	}
	for i := 1; i < len(cumulative); i++ {
		if cumulative[i] >= along {
			segStart, segEnd := cumulative[i-1], cumulative[i]
			t := 0.0
			if segEnd > segStart {
				t = (along - segStart) / (segEnd - segStart)
			}
			a, b := polyline[i-1], polyline[i]
			return geo.Coordinate{
				Lat: a.Lat + (b.Lat-a.Lat)*t,
				Lon: a.Lon + (b.Lon-a.Lon)*t,
			}
		}
	}
	return polyline[len(polyline)-1]
}
