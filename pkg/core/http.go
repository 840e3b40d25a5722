package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hikepath/routepipe/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RetryOptions configures retry behavior for HTTP requests.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// LongBackoffDelay, when set, is the initial delay used instead of
	// InitialDelay once a response's status matches IsLongBackoffStatus
	// (e.g. Overpass's 429 needs 4/8/16/32s rather than the normal schedule).
	LongBackoffDelay time.Duration
	LongBackoffMult  float64

	// IsLongBackoffStatus reports whether a response status should switch to
	// the long-backoff schedule for subsequent attempts.
	IsLongBackoffStatus func(status int) bool

	// IsNonRetryableStatus reports whether a response status should abort
	// immediately rather than retry (e.g. Overpass's 504 moves to the
	// fallback endpoint instead of retrying the same one).
	IsNonRetryableStatus func(status int) bool
}

// DefaultRetryOptions provides sensible defaults for retries: 3 attempts,
// 500ms initial delay doubling up to 10s, 4xx non-retryable.
var DefaultRetryOptions = RetryOptions{
	MaxAttempts:          3,
	InitialDelay:         500 * time.Millisecond,
	MaxDelay:             10 * time.Second,
	Multiplier:           2.0,
	IsNonRetryableStatus: func(status int) bool { return status >= 400 && status < 500 },
}

// TileDownloadRetryOptions implements spec.md's 4-attempt, 2/4/8/16s
// elevation tile download policy: 4xx non-retryable, 5xx/transport retryable.
var TileDownloadRetryOptions = RetryOptions{
	MaxAttempts:          4,
	InitialDelay:         2 * time.Second,
	MaxDelay:             16 * time.Second,
	Multiplier:           2.0,
	IsNonRetryableStatus: func(status int) bool { return status >= 400 && status < 500 },
}

// OverpassRetryOptions implements the Overpass-specific policy: 4 attempts
// at 2/4/8/16s normally, 429 switches to a longer 4/8/16/32s schedule, 504
// aborts immediately (the caller is expected to move to the fallback
// endpoint), other 5xx retries normally, non-429 4xx aborts immediately.
var OverpassRetryOptions = RetryOptions{
	MaxAttempts:      4,
	InitialDelay:     2 * time.Second,
	MaxDelay:         16 * time.Second,
	Multiplier:       2.0,
	LongBackoffDelay: 4 * time.Second,
	LongBackoffMult:  2.0,
	IsLongBackoffStatus: func(status int) bool {
		return status == http.StatusTooManyRequests
	},
	IsNonRetryableStatus: func(status int) bool {
		if status == http.StatusGatewayTimeout {
			return true
		}
		return status >= 400 && status < 500 && status != http.StatusTooManyRequests
	},
}

// DefaultClient provides a pre-configured HTTP client with pooled transport.
var DefaultClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

func secureHeaders(req *http.Request) {
	req.Header.Set("X-Content-Type-Options", "nosniff")
	req.Header.Set("X-Frame-Options", "DENY")
}

// WithRetry performs an HTTP request with exponential backoff retry logic.
// The request must have a nil Body; use WithRetryFactory for requests that
// carry a body (e.g. Overpass's form-encoded POST).
func WithRetry(ctx context.Context, req *http.Request, client *http.Client, options RetryOptions) (*http.Response, error) {
	spanName := fmt.Sprintf("http.request %s %s", req.Method, req.URL.Host)
	ctx, span := tracing.StartSpan(ctx, spanName,
		trace.WithAttributes(
			attribute.String(tracing.AttrHTTPMethod, req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.Int("http.retry.max_attempts", options.MaxAttempts),
		),
	)
	defer span.End()

	logger := slog.Default().With("url", req.URL.String(), "method", req.Method)
	var lastErr error
	delay := options.InitialDelay
	longBackoff := false

	for attempt := 0; attempt < options.MaxAttempts; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying request", "attempt", attempt+1, "delay", delay, "last_error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				span.SetStatus(codes.Error, "cancelled")
				return nil, ctx.Err()
			}
			delay = time.Duration(float64(delay) * options.Multiplier)
			if delay > options.MaxDelay {
				delay = options.MaxDelay
			}
		}

		if req.Body != nil {
			return nil, NewError(ErrInvalidParameter, "cannot retry request with non-nil body").
				WithGuidance("use WithRetryFactory for requests with a body")
		}

		newReq := req.Clone(ctx)
		secureHeaders(newReq)

		resp, err := client.Do(newReq)
		if err == nil && resp.StatusCode == http.StatusOK {
			span.SetAttributes(attribute.Int(tracing.AttrHTTPStatusCode, resp.StatusCode))
			span.SetStatus(codes.Ok, "")
			return resp, nil
		}

		if err != nil {
			lastErr = err
			logger.Debug("request failed", "error", err, "attempt", attempt+1)
			continue
		}

		lastErr = ServiceError(req.URL.Host, resp.StatusCode, fmt.Sprintf("http status %d", resp.StatusCode))
		resp.Body.Close()

		if options.IsLongBackoffStatus != nil && options.IsLongBackoffStatus(resp.StatusCode) && options.LongBackoffDelay > 0 {
			if !longBackoff {
				delay = options.LongBackoffDelay
				options.Multiplier = options.LongBackoffMult
				longBackoff = true
			}
			continue
		}
		if options.IsNonRetryableStatus != nil && options.IsNonRetryableStatus(resp.StatusCode) {
			span.RecordError(lastErr)
			span.SetStatus(codes.Error, "non-retryable status")
			return nil, lastErr
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "max retries exceeded")
	return nil, lastErr
}

// DoWithRetry performs an HTTP request with default retry options.
func DoWithRetry(ctx context.Context, req *http.Request, client *http.Client) (*http.Response, error) {
	if client == nil {
		client = DefaultClient
	}
	return WithRetry(ctx, req, client, DefaultRetryOptions)
}

// RequestFactory builds a fresh HTTP request for each retry attempt,
// allowing requests with a body (Overpass's form-encoded POST) to be retried.
type RequestFactory func() (*http.Request, error)

// WithRetryFactory performs HTTP requests created by a factory, applying
// the same backoff and status-code policy as WithRetry.
func WithRetryFactory(ctx context.Context, factory RequestFactory, client *http.Client, options RetryOptions) (*http.Response, error) {
	ctx, span := tracing.StartSpan(ctx, "http.request_factory",
		trace.WithAttributes(attribute.Int("http.retry.max_attempts", options.MaxAttempts)),
	)
	defer span.End()

	if client == nil {
		client = DefaultClient
	}

	logger := slog.Default()
	var lastErr error
	delay := options.InitialDelay
	longBackoff := false

	for attempt := 0; attempt < options.MaxAttempts; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying request", "attempt", attempt+1, "delay", delay, "last_error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				span.SetStatus(codes.Error, "cancelled")
				return nil, ctx.Err()
			}
			delay = time.Duration(float64(delay) * options.Multiplier)
			if delay > options.MaxDelay {
				delay = options.MaxDelay
			}
		}

		req, err := factory()
		if err != nil {
			lastErr = NewError(ErrInvalidParameter, "failed to build request").WithDetail(err.Error())
			continue
		}
		req = req.WithContext(ctx)
		secureHeaders(req)

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			span.SetAttributes(
				attribute.String(tracing.AttrHTTPMethod, req.Method),
				attribute.Int(tracing.AttrHTTPStatusCode, resp.StatusCode),
			)
			span.SetStatus(codes.Ok, "")
			return resp, nil
		}

		if err != nil {
			lastErr = err
			logger.Debug("request failed", "error", err, "attempt", attempt+1)
			continue
		}

		lastErr = ServiceError(req.URL.Host, resp.StatusCode, fmt.Sprintf("http status %d", resp.StatusCode))
		resp.Body.Close()

		if options.IsLongBackoffStatus != nil && options.IsLongBackoffStatus(resp.StatusCode) && options.LongBackoffDelay > 0 {
			if !longBackoff {
				delay = options.LongBackoffDelay
				options.Multiplier = options.LongBackoffMult
				longBackoff = true
			}
			continue
		}
		if options.IsNonRetryableStatus != nil && options.IsNonRetryableStatus(resp.StatusCode) {
			span.RecordError(lastErr)
			span.SetStatus(codes.Error, "non-retryable status")
			return nil, lastErr
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "max retries exceeded")
	return nil, lastErr
}
