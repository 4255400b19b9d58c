package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a request, listing or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrencyConflict is returned when a status write lost a race:
	// the record moved away from the expected state between the caller's
	// read and write. Callers should re-fetch and retry once.
	ErrConcurrencyConflict = errors.New("record was modified concurrently")
)

// ValidationError reports malformed client input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidDateRange builds the validation error for rental date ranges that
// are malformed or shorter than the minimum span.
func InvalidDateRange(reason string) *ValidationError {
	return &ValidationError{Field: "date_range", Reason: reason}
}

// BookingConflictError reports that a candidate rental range overlaps an
// existing non-terminal booking. Start/End carry the conflicting range so the
// UI can explain which dates are taken.
type BookingConflictError struct {
	ProductID int64
	Start     time.Time
	End       time.Time
}

func (e *BookingConflictError) Error() string {
	return fmt.Sprintf("product %d is already booked from %s to %s",
		e.ProductID, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// PermissionDeniedError reports that the acting user may not perform the
// requested transition.
type PermissionDeniedError struct {
	ActorID int64
	Action  string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("user %d is not permitted to %s", e.ActorID, e.Action)
}

// InvalidTransitionError reports a (from, to) pair outside the allowed
// transition graph, including any attempt to act on a terminal request.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %q to %q", e.From, e.To)
}
