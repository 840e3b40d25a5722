package osm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/hikepath/routepipe/pkg/tracing"
)

var (
	// httpClient is the pooled HTTP client shared by all Overpass requests.
	httpClient *http.Client

	overpassPrimaryLimiter  *rate.Limiter
	overpassFallbackLimiter *rate.Limiter

	userAgent     string
	userAgentLock sync.RWMutex
)

func init() {
	httpClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 60 * time.Second,
	}

	initRateLimiters()
	SetUserAgent(UserAgent)
}

func initRateLimiters() {
	overpassPrimaryLimiter = rate.NewLimiter(rate.Limit(1), 1)
	overpassFallbackLimiter = rate.NewLimiter(rate.Limit(1), 1)
}

// UpdateOverpassRateLimits updates the rate limiter for the given Overpass endpoint.
func UpdateOverpassRateLimits(endpoint string, rps float64, burst int) {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	switch endpoint {
	case OverpassPrimaryURL:
		overpassPrimaryLimiter = limiter
	case OverpassFallbackURL:
		overpassFallbackLimiter = limiter
	}
}

// SetUserAgent sets the User-Agent string sent with every request.
func SetUserAgent(ua string) {
	userAgentLock.Lock()
	defer userAgentLock.Unlock()
	userAgent = ua
}

// GetUserAgent returns the current User-Agent string.
func GetUserAgent() string {
	userAgentLock.RLock()
	defer userAgentLock.RUnlock()
	return userAgent
}

// GetClient returns the shared pooled HTTP client.
func GetClient(ctx context.Context) *http.Client {
	return httpClient
}

func hostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

// waitForRateLimit applies the limiter for the request's host, if any is configured.
func waitForRateLimit(ctx context.Context, req *http.Request) error {
	var limiter *rate.Limiter

	switch req.URL.Host {
	case hostFromURL(OverpassPrimaryURL):
		limiter = overpassPrimaryLimiter
	case hostFromURL(OverpassFallbackURL):
		limiter = overpassFallbackLimiter
	default:
		return nil
	}

	if !limiter.Allow() {
		start := time.Now()
		tracing.AddEvent(ctx, "rate_limit_wait",
			trace.WithAttributes(attribute.String(tracing.AttrRateLimitService, tracing.ServiceOverpass)),
		)

		err := limiter.Wait(ctx)

		tracing.SetAttributes(ctx,
			attribute.String(tracing.AttrRateLimitService, tracing.ServiceOverpass),
			attribute.Int64(tracing.AttrRateLimitWaitMs, time.Since(start).Milliseconds()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// DoRequest performs an HTTP request, applying the User-Agent header and
// the rate limiter for the request's host.
func DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", GetUserAgent())

	if err := waitForRateLimit(ctx, req); err != nil {
		return nil, err
	}

	return httpClient.Do(req)
}

// CheckOverpassHealth probes the primary Overpass endpoint with a minimal
// query, for use by a monitoring.ConnectionMonitor.
func CheckOverpassHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, OverpassPrimaryURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create overpass health check request: %w", err)
	}
	req.URL.RawQuery = "data=[out:json];out meta;"

	resp, err := DoRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("overpass health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("overpass health check returned status %d", resp.StatusCode)
	}
	return nil
}
