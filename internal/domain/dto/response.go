package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/image-proxy/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeBadGateway indicates the source host could not be reached.
	ErrCodeBadGateway = "bad_gateway"
	// ErrCodeUnavailable indicates a disabled or unhealthy dependency.
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"Invalid transformation spec"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"trace-123"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeBadGateway
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// SpecResponse is returned when a step list is encoded or a token is described.
// @Description Transform token with its decoded steps
type SpecResponse struct {
	Token string `json:"token" example:"CgoKCAjYBBCgBiADCgY6BAgUEBQKBDICCAM"`
	// Path is a ready-to-use image path, set when a source URL was given
	Path  string        `json:"path,omitempty" example:"/image/CgoKCAjYBBCgBiADCgY6BAgUEBQKBDICCAM/https:%2F%2Fexample.com%2Fcat.jpg"`
	Steps []StepRequest `json:"steps"`
} // @name SpecResponse

// CacheStatsResponse reports source cache usage.
// @Description Source image cache statistics
type CacheStatsResponse struct {
	Entries   int     `json:"entries" example:"12"`
	Capacity  int     `json:"capacity" example:"1024"`
	Hits      int64   `json:"hits" example:"40"`
	Misses    int64   `json:"misses" example:"12"`
	Evictions int64   `json:"evictions" example:"0"`
	HitRatio  float64 `json:"hit_ratio" example:"0.77"`
} // @name CacheStatsResponse

// LogsResponse is a page of persisted request logs.
// @Description Page of request logs, newest first
type LogsResponse struct {
	Logs  []model.LogEntry `json:"logs"`
	Total int64            `json:"total" example:"120"`
	Limit int              `json:"limit" example:"50"`
	Skip  int              `json:"skip" example:"0"`
} // @name LogsResponse
