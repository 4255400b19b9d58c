package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusAccepted  RentalStatus = "accepted"
	RentalStatusDeclined  RentalStatus = "declined"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusCompleted RentalStatus = "completed"
)

// Terminal reports whether no further transitions are permitted from s.
func (s RentalStatus) Terminal() bool {
	switch s {
	case RentalStatusDeclined, RentalStatusCancelled, RentalStatusCompleted:
		return true
	}
	return false
}

// BlocksCalendar reports whether a request in this status still occupies its
// date range. Completed rentals happened, so they keep blocking; only declined
// and cancelled requests free the slot.
func (s RentalStatus) BlocksCalendar() bool {
	return s != RentalStatusDeclined && s != RentalStatusCancelled
}

// RentalRequest is a proposal by a renter to borrow a listed item for the
// half-open date range [RentStart, RentEnd).
type RentalRequest struct {
	ID             int64        `json:"id"`
	ProductID      int64        `json:"product_id"`
	OwnerID        int64        `json:"owner_id"`
	RenterID       int64        `json:"renter_id"`
	RentStart      time.Time    `json:"rent_start"`
	RentEnd        time.Time    `json:"rent_end"`
	TotalCostCents int64        `json:"total_cost_cents"`
	Status         RentalStatus `json:"status"`
	DeclineReason  string       `json:"decline_reason,omitempty"`
	CancelReason   string       `json:"cancel_reason,omitempty"`
	CompletedBy    *int64       `json:"completed_by,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// Participant reports whether userID is the owner or the renter.
func (r *RentalRequest) Participant(userID int64) bool {
	return userID == r.OwnerID || userID == r.RenterID
}

// Counterpart returns the other participant relative to userID.
func (r *RentalRequest) Counterpart(userID int64) int64 {
	if userID == r.OwnerID {
		return r.RenterID
	}
	return r.OwnerID
}
