package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/hikepath/routepipe/pkg/elevation"
	"github.com/hikepath/routepipe/pkg/monitoring"
)

// runPrefetchElevation downloads every elevation tile covering a bounding
// box into the on-disk cache ahead of a build-graph run, so the graph
// build itself never blocks on the network.
func runPrefetchElevation(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("prefetch-elevation", flag.ExitOnError)
	bboxStr := fs.String("bbox", "", "bounding box as south,west,north,east")
	cacheDir := fs.String("cache-dir", "", "on-disk elevation tile cache directory")
	primary := fs.String("primary-url", elevation.DefaultPrimaryBaseURL, "primary elevation tile source base URL")
	fallback := fs.String("fallback-url", elevation.DefaultFallbackBaseURL, "fallback elevation tile source base URL")
	fs.Parse(args)

	if *bboxStr == "" {
		return fmt.Errorf("prefetch-elevation: -bbox is required")
	}
	if *cacheDir == "" {
		return fmt.Errorf("prefetch-elevation: -cache-dir is required")
	}
	bbox, err := parseBBox(*bboxStr)
	if err != nil {
		return err
	}

	s, err := elevation.NewStore(elevation.Options{
		PrimaryBaseURL:  *primary,
		FallbackBaseURL: *fallback,
		CacheDir:        *cacheDir,
	})
	if err != nil {
		return fmt.Errorf("construct elevation store: %w", err)
	}

	progress := func(loaded, total int) {
		logger.Info("prefetch progress", "loaded", loaded, "total", total)
	}
	if err := s.Prefetch(ctx, bbox, progress); err != nil {
		monitoring.RecordError("elevation", errorCode(err))
		return fmt.Errorf("prefetch: %w", err)
	}

	logger.Info("prefetch-elevation complete", "bbox", *bboxStr, "cache_dir", *cacheDir)
	return nil
}
