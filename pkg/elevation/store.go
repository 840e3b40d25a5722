package elevation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/tracing"
)

// ProgressFunc reports (loaded, total) tile counts during a prefetch.
type ProgressFunc func(loaded, total int)

// Store answers "what is the elevation at (lat, lon)?" from a memory
// cache, then a disk cache, then the network, in that order. A Store is
// single-writer over its in-memory cache: every read and write of that
// cache goes through a mutex, matching spec.md §5's "single-writer
// discipline". Downloads are not serialized, so concurrent callers asking
// for the same uncached tile may each fetch it.
type Store struct {
	primaryBase  string
	fallbackBase string

	mu    sync.Mutex
	mem   *tileCache
	disk  *diskCache
	group int
}

// Options configures a new Store.
type Options struct {
	PrimaryBaseURL  string
	FallbackBaseURL string
	CacheDir        string
	MemCacheSize    int
	BatchConcurrency int
}

// NewStore constructs a Store. Empty fields in opts take the package
// defaults (public tile mirrors, no disk cache, 4-tile memory cache, 4-way
// batch concurrency).
func NewStore(opts Options) (*Store, error) {
	if opts.PrimaryBaseURL == "" {
		opts.PrimaryBaseURL = DefaultPrimaryBaseURL
	}
	if opts.FallbackBaseURL == "" {
		opts.FallbackBaseURL = DefaultFallbackBaseURL
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 4
	}

	mem, err := newTileCache(opts.MemCacheSize)
	if err != nil {
		return nil, err
	}
	disk, err := newDiskCache(opts.CacheDir)
	if err != nil {
		return nil, err
	}

	return &Store{
		primaryBase:  opts.PrimaryBaseURL,
		fallbackBase: opts.FallbackBaseURL,
		mem:          mem,
		disk:         disk,
		group:        opts.BatchConcurrency,
	}, nil
}

// LoadTile returns the decoded grid for id, trying memory, then disk, then
// the network, in that order, populating faster caches on a network hit.
// The in-memory map is only ever mutated under s.mu (spec.md §5's
// single-writer discipline); the network fetch itself runs unlocked so
// distinct tiles within a batch can download concurrently.
func (s *Store) LoadTile(ctx context.Context, id TileID) (*Grid, error) {
	name := id.Name()

	s.mu.Lock()
	grid, ok := s.mem.get(name)
	s.mu.Unlock()
	if ok {
		return grid, nil
	}

	if grid, ok := s.disk.load(name); ok {
		s.mu.Lock()
		s.mem.put(name, grid)
		s.mu.Unlock()
		return grid, nil
	}

	_, span := tracing.StartSpan(ctx, "elevation.download_tile",
		trace.WithAttributes(attribute.String(tracing.AttrTileName, name)))
	defer span.End()

	raw, err := DownloadTile(ctx, s.primaryBase, s.fallbackBase, id)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	if err := s.disk.store(name, raw); err != nil {
		slog.Default().Warn("failed to persist tile to disk cache", "tile", name, "error", err)
	}

	grid, err = DecodeGrid(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.mem.put(name, grid)
	s.mu.Unlock()
	return grid, nil
}

// Elevation locates the tile containing coord, loads it, and bilinearly
// interpolates its value. Returns (0, false, nil) if all four surrounding
// samples are void.
func (s *Store) Elevation(ctx context.Context, coord geo.Coordinate) (float64, bool, error) {
	id := TileIDForCoord(coord)
	grid, err := s.LoadTile(ctx, id)
	if err != nil {
		return 0, false, err
	}
	value, ok := Interpolate(grid, coord)
	return value, ok, nil
}

// elevationResult pairs an output slot with its resolved value, used to
// thread errgroup results back into input order.
type elevationResult struct {
	value float64
	ok    bool
}

// Elevations resolves a batch of coordinates, grouping them by tile so
// each tile loads at most once, and preserves input order in the output.
// Per-tile download errors are logged and converted to an absent value for
// every coordinate in that tile rather than failing the whole batch.
func (s *Store) Elevations(ctx context.Context, coords []geo.Coordinate) ([]float64, []bool, error) {
	if len(coords) == 0 {
		return nil, nil, nil
	}

	tileOf := make([]TileID, len(coords))
	byTile := make(map[TileID][]int)
	for i, c := range coords {
		id := TileIDForCoord(c)
		tileOf[i] = id
		byTile[id] = append(byTile[id], i)
	}

	results := make([]elevationResult, len(coords))

	tiles := make([]TileID, 0, len(byTile))
	for id := range byTile {
		tiles = append(tiles, id)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.group)

	var mu sync.Mutex
	for _, id := range tiles {
		id := id
		indices := byTile[id]
		g.Go(func() error {
			grid, err := s.LoadTile(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Default().Warn("elevation tile failed, leaving batch entries absent",
					"tile", id.Name(), "error", err)
				for _, idx := range indices {
					results[idx] = elevationResult{ok: false}
				}
				return nil
			}
			for _, idx := range indices {
				value, ok := Interpolate(grid, coords[idx])
				results[idx] = elevationResult{value: value, ok: ok}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	values := make([]float64, len(coords))
	oks := make([]bool, len(coords))
	for i, r := range results {
		values[i] = r.value
		oks[i] = r.ok
	}
	return values, oks, nil
}

// Prefetch enumerates the tiles covering bbox and loads each sequentially,
// invoking progress after each tile (successful or not).
func (s *Store) Prefetch(ctx context.Context, bbox geo.BoundingBox, progress ProgressFunc) error {
	tileCoords := bbox.Tiles()
	total := len(tileCoords)

	for i, t := range tileCoords {
		id := TileID{Lat: t[0], Lon: t[1]}
		if _, err := s.LoadTile(ctx, id); err != nil {
			slog.Default().Warn("prefetch failed for tile", "tile", id.Name(), "error", err)
		}
		if progress != nil {
			progress(i+1, total)
		}
		if err := ctx.Err(); err != nil {
			return core.NewError(core.ErrCancelled, fmt.Sprintf("prefetch cancelled after %d/%d tiles", i+1, total))
		}
	}
	return nil
}

// ClearCache drops both the in-memory and on-disk tile caches.
func (s *Store) ClearCache() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.clear()
	return s.disk.clear()
}
