package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Upstream errors
const (
	// ErrCodeFetchFailed indicates the upstream answered without a usable success payload.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	// ErrCodeInvalidResponseFormat indicates the upstream payload had the wrong shape.
	ErrCodeInvalidResponseFormat ErrorCode = "INVALID_RESPONSE_FORMAT"
	// ErrCodeServiceUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Request errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnsupportedLocale indicates a locale outside the supported set.
	ErrCodeUnsupportedLocale ErrorCode = "UNSUPPORTED_LOCALE"
)

// ErrCodeInternal indicates an internal server error.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeFetchFailed:           true,
	ErrCodeInvalidResponseFormat: true,
	ErrCodeServiceUnavailable:    true,
	ErrCodeTimeout:               true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
