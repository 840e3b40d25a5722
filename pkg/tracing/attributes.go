package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for pipeline operations
const (
	// Pipeline stage attributes
	AttrStageName     = "pipeline.stage.name"
	AttrStageStatus   = "pipeline.stage.status"
	AttrStageDuration = "pipeline.stage.duration_ms"
	AttrStageProgress = "pipeline.stage.progress"

	// External service attributes
	AttrServiceName      = "routepipe.service.name"
	AttrServiceOperation = "routepipe.service.operation"
	AttrServiceURL       = "routepipe.service.url"
	AttrServiceStatus    = "routepipe.service.status"

	// Cache attributes
	AttrCacheType = "routepipe.cache.type"
	AttrCacheHit  = "routepipe.cache.hit"
	AttrCacheKey  = "routepipe.cache.key"

	// Rate limiting attributes
	AttrRateLimitService = "routepipe.ratelimit.service"
	AttrRateLimitWaitMs  = "routepipe.ratelimit.wait_ms"

	// HTTP transport attributes
	AttrHTTPMethod     = "http.method"
	AttrHTTPStatusCode = "http.status_code"

	// Domain-specific attributes
	AttrTileName    = "tile.name"
	AttrWayID       = "way.id"
	AttrNodeID      = "node.id"
	AttrEdgeID      = "edge.id"
	AttrRouteDistM  = "route.distance_m"
	AttrBoundingBox = "bbox.value"

	// Error attributes
	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// Status values
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusTimeout     = "timeout"
	StatusRateLimited = "rate_limited"
)

// Service names
const (
	ServiceOverpass  = "overpass"
	ServiceElevation = "elevation"
)

// Cache types
const (
	CacheTypeOverpass  = "overpass_response"
	CacheTypeElevation = "elevation_tile"
)

// StageAttributes returns attributes for a pipeline stage.
func StageAttributes(stage, status string, durationMs int64, progress float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrStageName, stage),
		attribute.String(AttrStageStatus, status),
		attribute.Int64(AttrStageDuration, durationMs),
		attribute.Float64(AttrStageProgress, progress),
	}
}

// ServiceAttributes returns attributes for external service calls.
func ServiceAttributes(service, operation, url string, status int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrServiceName, service),
		attribute.String(AttrServiceOperation, operation),
		attribute.String(AttrServiceURL, url),
		attribute.Int(AttrServiceStatus, status),
	}
}

// CacheAttributes returns attributes for cache operations.
func CacheAttributes(cacheType string, hit bool, key string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCacheType, cacheType),
		attribute.Bool(AttrCacheHit, hit),
		attribute.String(AttrCacheKey, key),
	}
}

// ErrorAttributes returns attributes for errors.
func ErrorAttributes(err error) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, "error"),
		attribute.String(AttrErrorMessage, err.Error()),
	}
}
