package query

import "time"

// Status is the lifecycle stage of a query.
type Status int

const (
	// StatusIdle means the query has never been fetched.
	StatusIdle Status = iota
	// StatusLoading means the first fetch is in flight.
	StatusLoading
	// StatusSuccess means the last fetch succeeded.
	StatusSuccess
	// StatusError means the last fetch failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a query.
type State[T any] struct {
	Data    T
	HasData bool
	Err     error
	Status  Status
	// UpdatedAt is when Data was last fetched successfully.
	UpdatedAt time.Time
	// ErrorAt is when the last failure happened.
	ErrorAt time.Time
	// StaleAt is when Data stops being fresh.
	StaleAt     time.Time
	Invalidated bool
	IsFetching  bool
	// FailureCount counts failed attempts in the last fetch.
	FailureCount int
}

// IsLoading reports a fetch in flight with nothing to show yet.
func (s State[T]) IsLoading() bool {
	return !s.HasData && (s.Status == StatusLoading || s.IsFetching)
}

// IsError reports that the last fetch failed.
func (s State[T]) IsError() bool {
	return s.Status == StatusError
}

// IsSuccess reports that the last fetch succeeded.
func (s State[T]) IsSuccess() bool {
	return s.Status == StatusSuccess
}

// IsStale reports whether Data needs refetching at now.
func (s State[T]) IsStale(now time.Time) bool {
	return !s.HasData || s.Invalidated || !now.Before(s.StaleAt)
}
