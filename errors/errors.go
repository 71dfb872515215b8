package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status this service answers with.
	HTTPStatus int `json:"-"`
	// UpstreamStatus is the status reported by an upstream, 0 when none.
	UpstreamStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// FetchFailed reports an upstream answer that carried no usable success payload.
// upstreamStatus is the status the upstream returned.
func FetchFailed(resource string, upstreamStatus int) *AppError {
	return &AppError{
		Code:           ErrCodeFetchFailed,
		Message:        fmt.Sprintf("Failed to fetch %s.", resource),
		HTTPStatus:     http.StatusBadGateway,
		UpstreamStatus: upstreamStatus,
		Retryable:      true,
		Details:        map[string]any{"resource": resource, "upstream_status": upstreamStatus},
	}
}

// InvalidResponseFormat reports an upstream payload whose field had the wrong shape.
// It carries no upstream status: the transport itself succeeded.
func InvalidResponseFormat(resource, field, expected string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidResponseFormat,
		Message:    fmt.Sprintf("Invalid %s response format: %s must be %s.", resource, field, expected),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  true,
		Details:    map[string]any{"resource": resource, "field": field, "expected": expected},
	}
}

// UnsupportedLocale reports a locale outside the supported set.
func UnsupportedLocale(value string, supported []string) *AppError {
	return &AppError{
		Code:       ErrCodeUnsupportedLocale,
		Message:    fmt.Sprintf("Locale %q is not supported.", value),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"locale": value, "supported": supported},
	}
}

// ServiceUnavailable creates an error for a dependency that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Details:    map[string]any{"service": service},
	}
}

// Timeout creates an error for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code:       ErrCodeTimeout,
		Message:    "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  true,
		Details:    map[string]any{"operation": operation},
	}
}

// NotFound creates an error for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// Validation creates an error for invalid input.
func Validation(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
