package service

import (
	"context"
	"time"

	"campusmarket-backend/internal/domain"
)

// RentalService is the lifecycle engine for rental requests: the sole writer
// of rental request status fields.
type RentalService interface {
	// SubmitRentalRequest validates the date range (minimum 2-day span,
	// half-open interval), checks the product's calendar atomically and
	// stores a pending request.
	SubmitRentalRequest(ctx context.Context, renterID, productID int64, startDate, endDate string) (*domain.RentalRequest, error)

	// TransitionRental applies one edge of the transition graph on behalf of
	// actorID. A completion transition also returns the rating prompt owed
	// to the actor.
	TransitionRental(ctx context.Context, requestID, actorID int64, target domain.RentalStatus, reason string) (*domain.RentalRequest, *domain.RatingPrompt, error)

	GetRentalRequest(ctx context.Context, userID, requestID int64) (*domain.RentalRequest, error)
	ListRentalRequests(ctx context.Context, userID int64) ([]domain.RentalRequest, error)

	// HasConflict reports whether the candidate range overlaps any of the
	// product's calendar-blocking requests, excluding excludeRequestID.
	HasConflict(ctx context.Context, productID int64, start, end time.Time, excludeRequestID int64) (bool, error)
}

// SwapService is the lifecycle engine for swap requests.
type SwapService interface {
	SubmitSwapRequest(ctx context.Context, requesterID, productID int64, offeredItemID *int64, offerDescription, offerNote, offerImage string) (*domain.SwapRequest, error)

	// TransitionSwap applies one edge of the swap transition graph. Either
	// participant may complete an accepted swap; the first caller wins the
	// rating slot and the loser receives a suppressed prompt, not an error.
	TransitionSwap(ctx context.Context, requestID, actorID int64, target domain.SwapStatus, reason string) (*domain.SwapRequest, *domain.RatingPrompt, error)

	GetSwapRequest(ctx context.Context, userID, requestID int64) (*domain.SwapRequest, error)
	ListSwapRequests(ctx context.Context, userID int64) ([]domain.SwapRequest, error)
}

// RatingService computes rating prompts on completion transitions. It decides
// only when to ask; the review service owns the ratings themselves.
type RatingService interface {
	OnRentalCompleted(ctx context.Context, rr *domain.RentalRequest, actorID int64) *domain.RatingPrompt
	OnSwapCompleted(sr *domain.SwapRequest, actorID int64, wonRatingSlot bool) *domain.RatingPrompt

	// PendingPrompts lists completed transactions the user has not rated
	// yet, for the polling sync layer.
	PendingPrompts(ctx context.Context, userID int64, rentals []domain.RentalRequest, swaps []domain.SwapRequest) []domain.RatingPrompt
}

// Snapshot is one consistent read of everything a polling client renders.
// Clients hold no state between polls; each snapshot is complete.
type Snapshot struct {
	RentalRequests []domain.RentalRequest `json:"rental_requests"`
	SwapRequests   []domain.SwapRequest   `json:"swap_requests"`
	Notifications  []domain.Notification  `json:"notifications"`
	PendingRatings []domain.RatingPrompt  `json:"pending_ratings"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

type SyncService interface {
	Snapshot(ctx context.Context, userID int64) (*Snapshot, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

// EmailService sends best-effort status-change emails. Failures are logged,
// never propagated into a transition result.
type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, ownerEmail, ownerName, renterName, productName string, start, end time.Time) error
	SendRentalStatusNotification(ctx context.Context, toEmail, toName, productName string, status domain.RentalStatus, reason string) error
	SendSwapOfferNotification(ctx context.Context, ownerEmail, ownerName, requesterName, productName, offerDescription string) error
	SendSwapStatusNotification(ctx context.Context, toEmail, toName, productName string, status domain.SwapStatus, reason string) error
}
