package elevation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPrimaryBaseURL serves gzip-compressed HGT tiles at
	// <base>/{N|S}DD/{tile}.hgt.gz.
	DefaultPrimaryBaseURL = "https://elevation-tiles.hikepath.example/hgt"
	// DefaultFallbackBaseURL serves uncompressed HGT tiles at
	// <base>/{tile}.hgt.
	DefaultFallbackBaseURL = "https://elevation-tiles-raw.hikepath.example/hgt"

	userAgent = "routepipe/0.1.0"
)

var (
	httpClient = &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	primaryLimiter  = rate.NewLimiter(rate.Limit(2), 2)
	fallbackLimiter = rate.NewLimiter(rate.Limit(2), 2)
)

// UpdateRateLimits replaces the primary or fallback tile-source limiter.
func UpdateRateLimits(primary bool, rps float64, burst int) {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	if primary {
		primaryLimiter = limiter
	} else {
		fallbackLimiter = limiter
	}
}

// CheckTileSourceHealth probes the primary tile source's base URL, for use
// by a monitoring.ConnectionMonitor.
func CheckTileSourceHealth(baseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create tile source health check request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tile source health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("tile source health check returned status %d", resp.StatusCode)
	}
	return nil
}
