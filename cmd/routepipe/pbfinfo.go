package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hikepath/routepipe/pkg/osm"
)

// runInspectPBF reads the blob framing of an OSM PBF extract and reports how
// many blocks it contains and their total decompressed size. It exists to
// give the optional PBF wire decoder (pkg/osm/pbf.go) a real command-line
// caller; producing a routing graph from a PBF file still requires the XML
// ingest path, since the decoder stops at blob framing and doesn't parse
// PrimitiveBlock contents (see pkg/osm/pbf.go's doc comment).
func runInspectPBF(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("inspect-pbf", flag.ExitOnError)
	path := fs.String("file", "", "path to an .osm.pbf extract")
	fs.Parse(args)

	if *path == "" {
		return fmt.Errorf("inspect-pbf: -file is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open pbf file: %w", err)
	}
	defer f.Close()

	blobs, err := osm.ReadBlobs(f)
	if err != nil {
		return fmt.Errorf("read pbf blobs: %w", err)
	}

	var totalBytes int
	for _, b := range blobs {
		totalBytes += len(b)
	}

	logger.Info("pbf file inspected", "blocks", len(blobs), "decompressed_bytes", totalBytes)
	fmt.Printf("blocks: %d\ndecompressed bytes: %d\n", len(blobs), totalBytes)
	return nil
}
