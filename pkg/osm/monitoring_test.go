package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestSetAndGetMonitoringHooks(t *testing.T) {
	SetMonitoringHooks(nil)

	var requestCalled, responseCalled, rateLimitCalled, errorCalled bool

	hooks := &MonitoringHooks{
		OnRequest: func(service, operation string) {
			requestCalled = true
		},
		OnResponse: func(service, operation string, duration time.Duration, success bool) {
			responseCalled = true
		},
		OnRateLimit: func(service string, waitTime time.Duration) {
			rateLimitCalled = true
		},
		OnError: func(service, errorType string) {
			errorCalled = true
		},
	}

	SetMonitoringHooks(hooks)

	retrieved := getMonitoringHooks()
	if retrieved == nil {
		t.Fatal("expected hooks to be set")
	}

	retrieved.OnRequest("test", "test")
	retrieved.OnResponse("test", "test", 100*time.Millisecond, true)
	retrieved.OnRateLimit("test", 100*time.Millisecond)
	retrieved.OnError("test", "test")

	if !requestCalled || !responseCalled || !rateLimitCalled || !errorCalled {
		t.Error("expected all hooks to be called")
	}
}

func TestGetServiceFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"overpass primary", OverpassPrimaryURL, "overpass_primary"},
		{"overpass fallback", OverpassFallbackURL, "overpass_fallback"},
		{"unknown host", "https://example.com/api", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", tt.url, nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}
			if got := getServiceFromRequest(req); got != tt.expected {
				t.Errorf("expected service %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMonitoredDoRequestSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	var requestCalled, responseCalled bool
	var capturedSuccess bool
	var capturedDuration time.Duration

	hooks := &MonitoringHooks{
		OnRequest: func(service, operation string) { requestCalled = true },
		OnResponse: func(service, operation string, duration time.Duration, success bool) {
			responseCalled = true
			capturedSuccess = success
			capturedDuration = duration
		},
	}

	SetMonitoringHooks(hooks)
	defer SetMonitoringHooks(nil)

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := MonitoredDoRequest(context.Background(), req, "test_operation")
	if err != nil {
		t.Fatalf("MonitoredDoRequest failed: %v", err)
	}
	defer resp.Body.Close()

	if !requestCalled || !responseCalled {
		t.Error("expected both hooks to be called")
	}
	if !capturedSuccess {
		t.Error("expected success")
	}
	if capturedDuration <= 0 {
		t.Error("expected positive duration")
	}
}

func TestMonitoredDoRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var errorCalled bool
	var capturedSuccess bool

	hooks := &MonitoringHooks{
		OnResponse: func(service, operation string, duration time.Duration, success bool) {
			capturedSuccess = success
		},
		OnError: func(service, errorType string) { errorCalled = true },
	}

	SetMonitoringHooks(hooks)
	defer SetMonitoringHooks(nil)

	req, err := http.NewRequest("GET", server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := MonitoredDoRequest(context.Background(), req, "test_operation")
	if err != nil {
		t.Fatalf("MonitoredDoRequest failed: %v", err)
	}
	defer resp.Body.Close()

	if capturedSuccess {
		t.Error("expected success to be false for a 500 response")
	}
	if errorCalled {
		t.Error("OnError should not fire for HTTP-level errors, only transport errors")
	}
}

func TestMonitoredDoRequestNetworkError(t *testing.T) {
	var errorCalled bool
	var capturedErrorType string

	hooks := &MonitoringHooks{
		OnError: func(service, errorType string) {
			errorCalled = true
			capturedErrorType = errorType
		},
	}

	SetMonitoringHooks(hooks)
	defer SetMonitoringHooks(nil)

	req, err := http.NewRequest("GET", "http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	_, err = MonitoredDoRequest(context.Background(), req, "test_operation")
	if err == nil {
		t.Fatal("expected a network error")
	}
	if !errorCalled {
		t.Error("expected OnError to fire for a network error")
	}
	if capturedErrorType != "request_error" {
		t.Errorf("expected error type 'request_error', got %s", capturedErrorType)
	}
}

func TestMonitoredDoRequestRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var rateLimitCalled bool
	var capturedWaitTime time.Duration

	hooks := &MonitoringHooks{
		OnRateLimit: func(service string, waitTime time.Duration) {
			rateLimitCalled = true
			capturedWaitTime = waitTime
		},
	}

	SetMonitoringHooks(hooks)
	defer SetMonitoringHooks(nil)

	oldLimiter := overpassPrimaryLimiter
	overpassPrimaryLimiter = rate.NewLimiter(rate.Limit(0.1), 1)
	defer func() { overpassPrimaryLimiter = oldLimiter }()

	req, err := http.NewRequest("GET", OverpassPrimaryURL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if _, err := MonitoredDoRequest(context.Background(), req, "test_operation"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := MonitoredDoRequest(context.Background(), req, "test_operation"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	if !rateLimitCalled {
		t.Error("expected the second request to trigger rate limiting")
	}
	if capturedWaitTime <= 100*time.Millisecond {
		t.Error("expected a significant wait time")
	}
}
