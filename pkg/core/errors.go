// Package core provides shared infrastructure for the routing pipeline:
// error taxonomy, HTTP retry/backoff, validation helpers, and scoring.
package core

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies one of the pipeline's distinct error kinds.
type ErrorCode string

const (
	ErrInvalidTileName       ErrorCode = "INVALID_TILE_NAME"
	ErrInvalidTileData       ErrorCode = "INVALID_TILE_DATA"
	ErrInvalidBoundingBox    ErrorCode = "INVALID_BOUNDING_BOX"
	ErrDownloadFailed        ErrorCode = "DOWNLOAD_FAILED"
	ErrHTTPError             ErrorCode = "HTTP_ERROR"
	ErrAreaTooLarge          ErrorCode = "AREA_TOO_LARGE"
	ErrQueryTimeout          ErrorCode = "QUERY_TIMEOUT"
	ErrNoTrailsFound         ErrorCode = "NO_TRAILS_FOUND"
	ErrInconsistentData      ErrorCode = "INCONSISTENT_DATA"
	ErrDatabaseCreationFailed ErrorCode = "DATABASE_CREATION_FAILED"
	ErrNoRoute               ErrorCode = "NO_ROUTE"
	ErrEndpointUnreachable   ErrorCode = "ENDPOINT_UNREACHABLE"
	ErrCancelled             ErrorCode = "CANCELLED"
	ErrNoNearbyNode          ErrorCode = "NO_NEARBY_NODE"

	// Retained from the ambient validation layer, used by CLI argument
	// parsing and graph-input sanity checks rather than any spec error kind.
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrInvalidParameter ErrorCode = "INVALID_PARAMETER"
)

// PipelineError is the error type returned by every pipeline operation.
// Code identifies the kind (see the Err* constants); Detail carries a
// diagnostic value specific to that kind (a tile name, a way id, an HTTP
// status, ...); Guidance is a short human-readable hint.
type PipelineError struct {
	Code     ErrorCode
	Message  string
	Detail   string
	Guidance string
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Guidance != "" {
		msg = fmt.Sprintf("%s. %s", msg, e.Guidance)
	}
	return msg
}

// NewError creates a PipelineError with the given code and message.
func NewError(code ErrorCode, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// WithDetail attaches a diagnostic value to the error.
func (e *PipelineError) WithDetail(detail string) *PipelineError {
	e.Detail = detail
	return e
}

// WithGuidance attaches a human-readable hint to the error.
func (e *PipelineError) WithGuidance(guidance string) *PipelineError {
	e.Guidance = guidance
	return e
}

// ServiceError maps an external service's HTTP status to a PipelineError,
// matching the retry/surface policy of spec.md §7: 429/5xx are recoverable
// by the retry layer before this is ever constructed; this constructor is
// used once retries are exhausted or a non-retryable status is hit.
func ServiceError(service string, statusCode int, message string) *PipelineError {
	var code ErrorCode
	var guidance string

	switch statusCode {
	case http.StatusTooManyRequests:
		code = ErrHTTPError
		guidance = "the service is rate-limited, back off and retry with a longer delay"
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		code = ErrQueryTimeout
		guidance = "the request timed out, try the fallback endpoint or a smaller area"
	case http.StatusBadRequest:
		code = ErrHTTPError
		guidance = "the request was rejected, check the query parameters"
	case http.StatusInternalServerError:
		code = ErrHTTPError
		guidance = "the server reported an internal error, this is usually transient"
	case http.StatusServiceUnavailable:
		code = ErrHTTPError
		guidance = "the service is temporarily unavailable"
	default:
		code = ErrHTTPError
		guidance = "retry later or reduce the request size"
	}

	return NewError(code, fmt.Sprintf("%s: %s", service, message)).
		WithDetail(fmt.Sprintf("http %d", statusCode)).
		WithGuidance(guidance)
}

// NewValidationError creates an error for input validation failures.
func NewValidationError(code ErrorCode, message string) *PipelineError {
	return NewError(code, message).WithGuidance("correct the parameters and try again")
}
