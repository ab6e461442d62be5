// Package i18n provides internationalization support for the image proxy.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyInvalidSpec indicates a malformed transform token or step list.
	ErrKeyInvalidSpec = "error.invalid_spec"
	// ErrKeyFetchFailed indicates the source image could not be retrieved.
	ErrKeyFetchFailed = "error.fetch_failed"
	// ErrKeyBadGateway indicates the source host could not be reached.
	ErrKeyBadGateway = "error.bad_gateway"
	// ErrKeyGatewayTimeout indicates the source host did not answer in time.
	ErrKeyGatewayTimeout = "error.gateway_timeout"
	// ErrKeyInvalidImage indicates the fetched bytes are not a decodable image.
	ErrKeyInvalidImage = "error.invalid_image"
	// ErrKeyEncodeFailed indicates the output image could not be encoded.
	ErrKeyEncodeFailed = "error.encode_failed"
	// ErrKeyLogsUnavailable indicates request log persistence is disabled.
	ErrKeyLogsUnavailable = "error.logs_unavailable"
)
