package repository

import (
	"context"
	"time"

	"campusmarket-backend/internal/domain"
)

// RentalRequestRepository is the durable store for rental requests. It never
// deletes rows; requests only advance status.
type RentalRequestRepository interface {
	// Create inserts rr with status pending, assigning id and timestamps.
	// The check callback receives the product's calendar-blocking requests
	// and may veto the insert by returning an error (the conflict detector
	// lives in the service layer). Fetch, check and insert are atomic per
	// product, so two racing submissions cannot both pass the check.
	Create(ctx context.Context, rr *domain.RentalRequest, check func(active []domain.RentalRequest) error) error

	GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error)

	// ListByParticipant returns every request where userID is renter or
	// owner, newest first. Each call is a full consistent snapshot for
	// polling clients.
	ListByParticipant(ctx context.Context, userID int64) ([]domain.RentalRequest, error)

	// ListActiveByProduct returns the product's requests whose status still
	// blocks the calendar (not declined, not cancelled), excluding excludeID.
	ListActiveByProduct(ctx context.Context, productID, excludeID int64) ([]domain.RentalRequest, error)

	// UpdateStatus performs a compare-and-set: the row is updated only while
	// its status still equals from. A lost race yields
	// domain.ErrConcurrencyConflict; a missing row yields domain.ErrNotFound.
	// reason lands in decline_reason or cancel_reason depending on to;
	// actorID is recorded as completed_by on completion.
	UpdateStatus(ctx context.Context, id int64, from, to domain.RentalStatus, reason string, actorID int64) (*domain.RentalRequest, error)

	ListStalePending(ctx context.Context, olderThan time.Time) ([]domain.RentalRequest, error)
	ListOverdueAccepted(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error)
}

// SwapRequestRepository is the durable store for swap requests.
type SwapRequestRepository interface {
	Create(ctx context.Context, sr *domain.SwapRequest) error
	GetByID(ctx context.Context, id int64) (*domain.SwapRequest, error)
	ListByParticipant(ctx context.Context, userID int64) ([]domain.SwapRequest, error)

	// UpdateStatus has the same compare-and-set semantics as the rental
	// variant; reason lands in rejection_reason on rejection.
	UpdateStatus(ctx context.Context, id int64, from, to domain.SwapStatus, reason string, actorID int64) (*domain.SwapRequest, error)

	// MarkRated flips has_rated exactly once and reports whether this call
	// won the flip. Both participants may race to complete a swap; only the
	// winner's rating prompt carries should_rate = true.
	MarkRated(ctx context.Context, id int64) (bool, error)

	ListStalePending(ctx context.Context, olderThan time.Time) ([]domain.SwapRequest, error)
}

// ListingRepository reads the catalog service's view of a listing. SetStatus
// is the one write this backend performs there, mirroring booking state.
type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	SetStatus(ctx context.Context, id int64, status domain.ListingStatus) error
}

// UserRepository reads the identity provider's view of a user.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int64) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

// RatingRepository answers rating-uniqueness queries against the review
// service's store. This backend never writes ratings.
type RatingRepository interface {
	Exists(ctx context.Context, raterID int64, txType domain.TransactionType, txID int64) (bool, error)
}
