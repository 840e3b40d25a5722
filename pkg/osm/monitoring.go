package osm

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// MonitoringHooks lets the CLI/ambient metrics layer observe Overpass requests
// without this package importing pkg/monitoring directly.
type MonitoringHooks struct {
	OnRequest   func(service, operation string)
	OnResponse  func(service, operation string, duration time.Duration, success bool)
	OnRateLimit func(service string, waitTime time.Duration)
	OnError     func(service, errorType string)
}

var (
	globalHooks *MonitoringHooks
	hooksMutex  sync.RWMutex
)

// SetMonitoringHooks installs the global monitoring hooks.
func SetMonitoringHooks(hooks *MonitoringHooks) {
	hooksMutex.Lock()
	defer hooksMutex.Unlock()
	globalHooks = hooks
}

func getMonitoringHooks() *MonitoringHooks {
	hooksMutex.RLock()
	defer hooksMutex.RUnlock()
	return globalHooks
}

// MonitoredDoRequest performs a request through DoRequest's rate limiter,
// reporting timing and outcome through the installed monitoring hooks.
func MonitoredDoRequest(ctx context.Context, req *http.Request, operation string) (*http.Response, error) {
	service := getServiceFromRequest(req)

	hooks := getMonitoringHooks()
	if hooks != nil && hooks.OnRequest != nil {
		hooks.OnRequest(service, operation)
	}

	start := time.Now()

	if err := waitForRateLimit(ctx, req); err != nil {
		if hooks != nil && hooks.OnError != nil {
			hooks.OnError(service, "rate_limit_wait_error")
		}
		return nil, err
	}

	waitTime := time.Since(start)
	if waitTime > 100*time.Millisecond {
		if hooks != nil && hooks.OnRateLimit != nil {
			hooks.OnRateLimit(service, waitTime)
		}
	}

	requestStart := time.Now()
	resp, err := httpClient.Do(req)
	duration := time.Since(requestStart)

	success := err == nil && resp != nil && resp.StatusCode < 400

	if hooks != nil && hooks.OnResponse != nil {
		hooks.OnResponse(service, operation, duration, success)
	}
	if err != nil && hooks != nil && hooks.OnError != nil {
		hooks.OnError(service, "request_error")
	}

	return resp, err
}

func getServiceFromRequest(req *http.Request) string {
	switch req.URL.Host {
	case hostFromURL(OverpassPrimaryURL):
		return "overpass_primary"
	case hostFromURL(OverpassFallbackURL):
		return "overpass_fallback"
	default:
		return "unknown"
	}
}
