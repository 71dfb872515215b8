// Package resilience retries failing operations with exponential backoff.
//
// The query cache and the HTTP client both route their retries through
// Retry so attempt counting, backoff and cancellation behave the same way.
package resilience
