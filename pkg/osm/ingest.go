package osm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hikepath/routepipe/pkg/cache"
	"github.com/hikepath/routepipe/pkg/core"
	"github.com/hikepath/routepipe/pkg/geo"
	"github.com/hikepath/routepipe/pkg/monitoring"
	"github.com/hikepath/routepipe/pkg/tracing"
)

// bboxCacheKey derives a stable cache key from a bounding box's coordinates,
// coarse enough that repeated builds over the same region hit the cache.
func bboxCacheKey(bbox geo.BoundingBox) string {
	return fmt.Sprintf("overpass:%.5f,%.5f,%.5f,%.5f", bbox.South, bbox.West, bbox.North, bbox.East)
}

// Ingest fetches every routable way (and its referenced nodes) within bbox
// from Overpass, falling back to the mirror endpoint if the primary one is
// unreachable or times out, writes the raw response to a temp file, and
// hands ParseXML that file handle rather than the live response body, so a
// multi-hundred-megabyte regional response is never buffered whole in
// memory. A successful result is cached for a short TTL, so repeated graph
// builds over the same region during development don't re-hit Overpass.
func Ingest(ctx context.Context, bbox geo.BoundingBox) (*IngestResult, error) {
	if !bbox.Valid() {
		return nil, core.NewValidationError(core.ErrInvalidBoundingBox, "bounding box is malformed")
	}
	if area := bbox.AreaKM2(); area > MaxOverpassAreaKM2 {
		return nil, core.NewError(core.ErrAreaTooLarge,
			fmt.Sprintf("requested area is %.0f km2", area)).
			WithGuidance(fmt.Sprintf("reduce the bounding box to at most %.0f km2", MaxOverpassAreaKM2))
	}

	logger := slog.Default().With("component", "osm.ingest")

	key := bboxCacheKey(bbox)
	if cached, ok := cache.GetGlobalCache().Get(key); ok {
		logger.Debug("overpass response cache hit", "key", key)
		monitoring.RecordCacheHit(tracing.CacheTypeOverpass)
		return cached.(*IngestResult), nil
	}
	monitoring.RecordCacheMiss(tracing.CacheTypeOverpass)

	query, err := BuildQuery(bbox)
	if err != nil {
		return nil, err
	}
	body := EncodeFormBody(query)

	resp, err := fetchOverpass(ctx, OverpassPrimaryURL, body)
	if err != nil {
		logger.Warn("primary overpass endpoint failed, trying fallback", "error", err)
		resp, err = fetchOverpass(ctx, OverpassFallbackURL, body)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	result, err := parseIngestResponse(resp.Body)
	if err != nil {
		return nil, core.NewError(core.ErrInconsistentData, "overpass response could not be parsed").
			WithDetail(err.Error())
	}

	cache.GetGlobalCache().Set(key, result)
	return result, nil
}

// parseIngestResponse writes body to a temp file and hands ParseXML the
// reopened file handle rather than the live response body: spec.md §4.2/§5
// require the parser to stream from disk, not an in-memory buffer, since a
// regional response can exceed 100 MB. The temp file is removed once parsed
// (or on any error along the way).
func parseIngestResponse(body io.Reader) (*IngestResult, error) {
	tmp, err := os.CreateTemp("", "routepipe-overpass-*.xml")
	if err != nil {
		return nil, fmt.Errorf("osm: creating temp file for overpass response: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := WriteIngestBody(tmp, body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("osm: writing overpass response to disk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("osm: closing overpass response file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osm: reopening overpass response file: %w", err)
	}
	defer f.Close()

	return ParseXML(f)
}

func fetchOverpass(ctx context.Context, endpoint, formBody string) (*http.Response, error) {
	factory := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader([]byte(formBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", GetUserAgent())
		if err := waitForRateLimit(ctx, req); err != nil {
			return nil, err
		}
		return req, nil
	}

	service := endpointService(endpoint)
	hooks := getMonitoringHooks()
	if hooks != nil && hooks.OnRequest != nil {
		hooks.OnRequest(service, "ingest")
	}

	start := time.Now()
	resp, err := core.WithRetryFactory(ctx, factory, httpClient, core.OverpassRetryOptions)
	duration := time.Since(start)

	if hooks != nil && hooks.OnResponse != nil {
		hooks.OnResponse(service, "ingest", duration, err == nil)
	}

	if err != nil {
		if hooks != nil && hooks.OnError != nil {
			hooks.OnError(service, "request_error")
		}
		if strings.Contains(err.Error(), string(core.ErrQueryTimeout)) {
			return nil, core.NewError(core.ErrQueryTimeout, "overpass query timed out").
				WithDetail(endpoint)
		}
		return nil, err
	}
	return resp, nil
}

// endpointService maps an Overpass endpoint URL to the service label the
// installed monitoring hooks expect.
func endpointService(endpoint string) string {
	switch endpoint {
	case OverpassPrimaryURL:
		return "overpass_primary"
	case OverpassFallbackURL:
		return "overpass_fallback"
	default:
		return "unknown"
	}
}

// WriteIngestBody copies an Overpass response body to w, used by
// parseIngestResponse to stage the response on disk before ParseXML reads
// it back, and available to any other caller that wants to persist the raw
// XML alongside the parsed result.
func WriteIngestBody(w io.Writer, r io.Reader) (int64, error) {
	return io.Copy(w, r)
}
