package domain

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// Terminal reports whether no further transitions are permitted from s.
func (s SwapStatus) Terminal() bool {
	switch s {
	case SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

// SwapRequest is a proposal by a requester to exchange an offered item (or a
// described counter-offer) for another user's listing.
type SwapRequest struct {
	ID               int64      `json:"id"`
	ProductID        int64      `json:"product_id"`
	RequesterID      int64      `json:"requester_id"`
	TargetOwnerID    int64      `json:"target_owner_id"`
	OfferedItemID    *int64     `json:"offered_item_id,omitempty"`
	OfferDescription string     `json:"offer_description"`
	OfferImage       string     `json:"offer_image,omitempty"`
	Status           SwapStatus `json:"status"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	HasRated         bool       `json:"has_rated"`
	CompletedBy      *int64     `json:"completed_by,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
	UpdatedOn        time.Time  `json:"updated_on"`
}

// Participant reports whether userID is the requester or the target owner.
func (s *SwapRequest) Participant(userID int64) bool {
	return userID == s.RequesterID || userID == s.TargetOwnerID
}

// Counterpart returns the other participant relative to userID.
func (s *SwapRequest) Counterpart(userID int64) int64 {
	if userID == s.RequesterID {
		return s.TargetOwnerID
	}
	return s.RequesterID
}
