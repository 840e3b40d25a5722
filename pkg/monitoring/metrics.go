package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServiceName identifies this pipeline in health/metrics output.
const ServiceName = "routepipe"

var (
	// Elevation tile fetch metrics (§4.1: primary/fallback HGT download).
	TileFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routepipe_tile_fetch_total",
			Help: "Total number of elevation tile fetch attempts",
		},
		[]string{"source", "status"},
	)

	// Overpass ingest metrics (§4.2).
	OverpassRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routepipe_overpass_requests_total",
			Help: "Total number of Overpass API requests",
		},
		[]string{"endpoint", "status"},
	)

	// Graph build stage durations (§4.3).
	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routepipe_graph_build_duration_seconds",
			Help:    "Graph build stage duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0},
		},
		[]string{"stage"},
	)

	// Route query durations (§4.5).
	RouteQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routepipe_route_query_duration_seconds",
			Help:    "Route computation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"mode"},
	)

	// Cache metrics, labelled by cache_type; osm.Ingest records its
	// Overpass response cache under the overpass_response type.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routepipe_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routepipe_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routepipe_cache_size",
			Help: "Current number of items in cache",
		},
		[]string{"cache_type"},
	)

	// Error metrics.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routepipe_errors_total",
			Help: "Total number of pipeline errors by code",
		},
		[]string{"component", "error_code"},
	)

	// System metrics.
	SystemInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routepipe_system_info",
			Help: "Build and runtime information",
		},
		[]string{"version", "go_version"},
	)

	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routepipe_goroutines",
			Help: "Number of goroutines",
		},
	)

	MemoryUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routepipe_memory_usage_bytes",
			Help: "Memory usage in bytes",
		},
	)

	GCRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routepipe_gc_runs_total",
			Help: "Total number of garbage collection runs",
		},
	)
)

// ServiceHealth is the JSON body served by the /healthz endpoint.
type ServiceHealth struct {
	Service       string                 `json:"service"`
	Version       string                 `json:"version"`
	Status        string                 `json:"status"` // "healthy", "degraded", "unhealthy"
	Uptime        time.Duration          `json:"uptime"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	StartTime     time.Time              `json:"start_time,omitempty"`
	Connections   map[string]ConnStatus  `json:"connections"`
	Metrics       map[string]interface{} `json:"metrics,omitempty"`
}

// ConnStatus is the health of one monitored external dependency (Overpass,
// the elevation tile source).
type ConnStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "connected", "disconnected", "error"
	Latency int64  `json:"latency_ms,omitempty"`
	Error   string `json:"last_error,omitempty"`
}

// RecordTileFetch records one elevation tile fetch attempt.
func RecordTileFetch(source string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	TileFetchTotal.WithLabelValues(source, status).Inc()
}

// RecordOverpassRequest records one Overpass API request.
func RecordOverpassRequest(endpoint string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	OverpassRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordGraphBuildStage records how long one named graph-build stage took.
func RecordGraphBuildStage(stage string, duration time.Duration) {
	GraphBuildDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRouteQuery records how long one ComputeRoute call took.
func RecordRouteQuery(mode string, duration time.Duration) {
	RouteQueryDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

func UpdateCacheSize(cacheType string, size int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(size))
}

// RecordError increments the error counter for a (component, error code) pair.
// Callers typically pass a *core.PipelineError's Code field as errorCode.
func RecordError(component, errorCode string) {
	ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}
