package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/hikepath/routepipe/pkg/elevation"
	"github.com/hikepath/routepipe/pkg/graph"
	"github.com/hikepath/routepipe/pkg/monitoring"
	"github.com/hikepath/routepipe/pkg/osm"
	"github.com/hikepath/routepipe/pkg/store"
)

// runBuildGraph ingests OSM data for a bounding box from Overpass, resolves
// elevation for every junction node, computes edge costs, and persists the
// result as a routing database, per spec.md §4's build pipeline.
func runBuildGraph(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("build-graph", flag.ExitOnError)
	bboxStr := fs.String("bbox", "", "bounding box as south,west,north,east")
	out := fs.String("out", "graph.db", "output routing database path")
	elevationCacheDir := fs.String("elevation-cache-dir", "", "on-disk elevation tile cache directory (disabled if empty)")
	elevationPrimary := fs.String("elevation-primary-url", elevation.DefaultPrimaryBaseURL, "primary elevation tile source base URL")
	elevationFallback := fs.String("elevation-fallback-url", elevation.DefaultFallbackBaseURL, "fallback elevation tile source base URL")
	fs.Parse(args)

	if *bboxStr == "" {
		return fmt.Errorf("build-graph: -bbox is required")
	}
	bbox, err := parseBBox(*bboxStr)
	if err != nil {
		return err
	}

	logger.Info("ingesting OSM data", "bbox", *bboxStr)
	ingestStart := time.Now()
	ingested, err := osm.Ingest(ctx, bbox)
	if err != nil {
		monitoring.RecordError("ingest", errorCode(err))
		return fmt.Errorf("ingest: %w", err)
	}
	monitoring.RecordGraphBuildStage("ingest", time.Since(ingestStart))
	logger.Info("ingest complete", "nodes", len(ingested.Nodes), "ways", len(ingested.Ways))

	elevStore, err := elevation.NewStore(elevation.Options{
		PrimaryBaseURL:  *elevationPrimary,
		FallbackBaseURL: *elevationFallback,
		CacheDir:        *elevationCacheDir,
	})
	if err != nil {
		return fmt.Errorf("construct elevation store: %w", err)
	}

	buildStart := time.Now()
	progress := func(description string, fraction float64) {
		logger.Info("build progress", "stage", description, "fraction", fraction)
	}
	result, err := graph.Build(ctx, ingested.Nodes, ingested.Ways, elevStore, progress)
	if err != nil {
		monitoring.RecordError("graph", errorCode(err))
		return fmt.Errorf("build graph: %w", err)
	}
	monitoring.RecordGraphBuildStage("compute", time.Since(buildStart))
	logger.Info("graph built", "nodes", len(result.Nodes), "edges", len(result.Edges))

	writeStart := time.Now()
	meta := store.Metadata{BoundingBox: bbox, ElevationSource: *elevationPrimary}
	s, err := store.Create(ctx, *out, result, meta)
	if err != nil {
		monitoring.RecordError("store", errorCode(err))
		return fmt.Errorf("write routing database: %w", err)
	}
	defer s.Close()
	monitoring.RecordGraphBuildStage("write", time.Since(writeStart))

	logger.Info("build-graph complete", "out", *out)
	return nil
}
