package service

import (
	"context"
	"time"

	"campusmarket-backend/internal/repository"
)

// syncService serves the polling read path: every call assembles a complete
// snapshot of the user's requests and pending facts from fresh queries, so
// clients never need to hold state between poll cycles.
type syncService struct {
	rentalRepo repository.RentalRequestRepository
	swapRepo   repository.SwapRequestRepository
	noteRepo   repository.NotificationRepository
	ratingSvc  RatingService
}

const snapshotNotificationLimit = 50

func NewSyncService(
	rentalRepo repository.RentalRequestRepository,
	swapRepo repository.SwapRequestRepository,
	noteRepo repository.NotificationRepository,
	ratingSvc RatingService,
) SyncService {
	return &syncService{
		rentalRepo: rentalRepo,
		swapRepo:   swapRepo,
		noteRepo:   noteRepo,
		ratingSvc:  ratingSvc,
	}
}

func (s *syncService) Snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	rentals, err := s.rentalRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	swaps, err := s.swapRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	notes, _, err := s.noteRepo.List(ctx, userID, snapshotNotificationLimit, 0)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		RentalRequests: rentals,
		SwapRequests:   swaps,
		Notifications:  notes,
		PendingRatings: s.ratingSvc.PendingPrompts(ctx, userID, rentals, swaps),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
