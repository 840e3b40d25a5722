// Command routepipe is the offline hiking routing pipeline's CLI entry
// point: it ingests OpenStreetMap data and elevation tiles into a portable
// routing graph, answers point-to-point route queries against that graph,
// and simulates turn-by-turn guidance along a computed route.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/elevation"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/monitoring"
	"github.com/hikepath/routepipe/pkg/osm"
	"github.com/hikepath/routepipe/pkg/tracing"
)

// buildVersion is overwritten at release build time via -ldflags.
var buildVersion = "dev"

var (
	debug            bool
	showVersionFlag  bool
	enableMonitoring bool
	monitoringAddr   string
)

func init() {
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.BoolVar(&showVersionFlag, "version", false, "print version and exit")
	flag.BoolVar(&enableMonitoring, "enable-monitoring", false, "serve Prometheus metrics and health endpoints")
	flag.StringVar(&monitoringAddr, "monitoring-addr", ":9090", "monitoring server address")
}

// main parses global flags (which must precede the subcommand name, e.g.
// "routepipe -debug build-graph -bbox ..."), then hands the remaining
// arguments to the named subcommand's own flag set.
func main() {
	flag.Parse()

	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if showVersionFlag {
		fmt.Println(buildVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	subcommand, subArgs := args[0], args[1:]

	if subcommand == "help" || subcommand == "-h" || subcommand == "--help" {
		usage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracing(ctx, buildVersion)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Error("error shutting down tracing", "error", err)
			}
		}()
	}

	osm.SetMonitoringHooks(&osm.MonitoringHooks{
		OnResponse: func(service, operation string, duration time.Duration, success bool) {
			monitoring.RecordOverpassRequest(service, success)
		},
		OnError: func(service, errorType string) {
			monitoring.RecordError(service, errorType)
		},
	})

	var healthChecker *monitoring.HealthChecker
	if enableMonitoring {
		healthChecker = monitoring.NewHealthChecker(monitoring.ServiceName, buildVersion)
		defer healthChecker.Shutdown()
		startMonitoringServer(ctx, logger, healthChecker)
		startExternalServiceMonitoring(healthChecker)
	}

	var runErr error
	switch subcommand {
	case "build-graph":
		runErr = runBuildGraph(ctx, logger, subArgs)
	case "prefetch-elevation":
		runErr = runPrefetchElevation(ctx, logger, subArgs)
	case "route":
		runErr = runRoute(ctx, logger, subArgs)
	case "guide-sim":
		runErr = runGuideSim(ctx, logger, subArgs)
	case "inspect-pbf":
		runErr = runInspectPBF(ctx, logger, subArgs)
	default:
		fmt.Fprintf(os.Stderr, "routepipe: unknown subcommand %q\n", subcommand)
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		logger.Error("command failed", "subcommand", subcommand, "error", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `routepipe: offline hiking routing pipeline

Usage:
  routepipe [global flags] build-graph -bbox S,W,N,E -out graph.db [flags]
  routepipe [global flags] prefetch-elevation -bbox S,W,N,E -cache-dir DIR [flags]
  routepipe [global flags] route -db graph.db -start LAT,LON -end LAT,LON [-gpx FILE] [-polyline] [-name LABEL]
  routepipe [global flags] guide-sim -db graph.db -start LAT,LON -end LAT,LON [flags]
  routepipe [global flags] guide-sim -polyline ENCODED [-step-m N]
  routepipe [global flags] inspect-pbf -file extract.osm.pbf
  routepipe -version

Run 'routepipe <subcommand> -h' for flags specific to a subcommand.
`)
}

// startMonitoringServer mounts /metrics and the health endpoints on their
// own listener, shut down when ctx is cancelled.
func startMonitoringServer(ctx context.Context, logger *slog.Logger, hc *monitoring.HealthChecker) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", hc.HealthHandler())
	mux.Handle("/readyz", hc.ReadinessHandler())
	mux.Handle("/livez", hc.LivenessHandler())

	srv := &http.Server{
		Addr:              monitoringAddr,
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("starting monitoring server", "addr", monitoringAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("monitoring server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down monitoring server", "error", err)
		}
	}()
}

// startExternalServiceMonitoring probes Overpass and the elevation tile
// source on a fixed interval, reporting results to hc.
func startExternalServiceMonitoring(hc *monitoring.HealthChecker) {
	monitoring.NewConnectionMonitor("overpass", hc, osm.CheckOverpassHealth, 30*time.Second).Start()
	monitoring.NewConnectionMonitor("elevation_tiles", hc, func() error {
		return elevation.CheckTileSourceHealth(elevation.DefaultPrimaryBaseURL)
	}, 30*time.Second).Start()
}

// errorCode extracts a *core.PipelineError's code for use as a metrics
// label, falling back to a generic code for errors outside that type.
func errorCode(err error) string {
	if pe, ok := err.(*core.PipelineError); ok {
		return string(pe.Code)
	}
	return "UNKNOWN"
}

// parseBBox parses a "south,west,north,east" flag value.
func parseBBox(s string) (geo.BoundingBox, error) {
	var south, west, north, east float64
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &south, &west, &north, &east); err != nil {
		return geo.BoundingBox{}, fmt.Errorf("invalid bounding box %q: expected south,west,north,east: %w", s, err)
	}
	bbox := geo.BoundingBox{South: south, West: west, North: north, East: east}
	if !bbox.Valid() {
		return geo.BoundingBox{}, fmt.Errorf("bounding box %q is malformed or out of range", s)
	}
	return bbox, nil
}

// parseCoordinate parses a "lat,lon" flag value.
func parseCoordinate(s string) (geo.Coordinate, error) {
	var lat, lon float64
	if _, err := fmt.Sscanf(s, "%f,%f", &lat, &lon); err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid coordinate %q: expected lat,lon: %w", s, err)
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("coordinate %q is out of range", s)
	}
	return c, nil
}
