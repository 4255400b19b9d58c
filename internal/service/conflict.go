package service

import (
	"time"

	"campusmarket-backend/internal/domain"
)

// overlaps tests two half-open intervals [aStart, aEnd) and [bStart, bEnd).
// Exactly-touching ranges (aStart == bEnd or aEnd == bStart) do not overlap,
// so back-to-back bookings are allowed.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first request whose booked range overlaps the
// candidate [start, end), or nil. Pure and side-effect-free; callers supply
// the candidate set. O(n) over a product's bookings, which stays small for a
// single listing.
func FindConflict(active []domain.RentalRequest, start, end time.Time) *domain.RentalRequest {
	for i := range active {
		rr := &active[i]
		if !rr.Status.BlocksCalendar() {
			continue
		}
		if overlaps(start, end, rr.RentStart, rr.RentEnd) {
			return rr
		}
	}
	return nil
}
