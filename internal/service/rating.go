package service

import (
	"context"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"
	"campusmarket-backend/internal/repository"
)

// ratingService computes rating prompts. The actor who triggers a completion
// becomes the rater; the counterpart is rated. The service never records
// ratings, it only decides whether to ask.
type ratingService struct {
	ratingRepo repository.RatingRepository
}

func NewRatingService(ratingRepo repository.RatingRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo}
}

func (s *ratingService) OnRentalCompleted(ctx context.Context, rr *domain.RentalRequest, actorID int64) *domain.RatingPrompt {
	prompt := &domain.RatingPrompt{
		RaterID:         actorID,
		RatedUserID:     rr.Counterpart(actorID),
		TransactionType: domain.TransactionTypeRental,
		TransactionID:   rr.ID,
	}
	exists, err := s.ratingRepo.Exists(ctx, actorID, domain.TransactionTypeRental, rr.ID)
	if err != nil {
		// Suppress rather than risk a duplicate prompt.
		logger.Error("Failed to check rating uniqueness", "rental_id", rr.ID, "rater_id", actorID, "error", err)
		return prompt
	}
	prompt.ShouldRate = !exists
	return prompt
}

func (s *ratingService) OnSwapCompleted(sr *domain.SwapRequest, actorID int64, wonRatingSlot bool) *domain.RatingPrompt {
	return &domain.RatingPrompt{
		RaterID:         actorID,
		RatedUserID:     sr.Counterpart(actorID),
		TransactionType: domain.TransactionTypeSwap,
		TransactionID:   sr.ID,
		ShouldRate:      wonRatingSlot,
	}
}

// PendingPrompts scans the user's completed transactions and returns a prompt
// for each one they have not rated yet. Feeds the "you have unrated
// transactions" badge on polling clients.
func (s *ratingService) PendingPrompts(ctx context.Context, userID int64, rentals []domain.RentalRequest, swaps []domain.SwapRequest) []domain.RatingPrompt {
	var prompts []domain.RatingPrompt

	for i := range rentals {
		rr := &rentals[i]
		if rr.Status != domain.RentalStatusCompleted {
			continue
		}
		exists, err := s.ratingRepo.Exists(ctx, userID, domain.TransactionTypeRental, rr.ID)
		if err != nil {
			logger.Error("Failed to check rating uniqueness", "rental_id", rr.ID, "rater_id", userID, "error", err)
			continue
		}
		if !exists {
			prompts = append(prompts, domain.RatingPrompt{
				RaterID:         userID,
				RatedUserID:     rr.Counterpart(userID),
				TransactionType: domain.TransactionTypeRental,
				TransactionID:   rr.ID,
				ShouldRate:      true,
			})
		}
	}

	for i := range swaps {
		sr := &swaps[i]
		if sr.Status != domain.SwapStatusCompleted {
			continue
		}
		exists, err := s.ratingRepo.Exists(ctx, userID, domain.TransactionTypeSwap, sr.ID)
		if err != nil {
			logger.Error("Failed to check rating uniqueness", "swap_id", sr.ID, "rater_id", userID, "error", err)
			continue
		}
		if !exists {
			prompts = append(prompts, domain.RatingPrompt{
				RaterID:         userID,
				RatedUserID:     sr.Counterpart(userID),
				TransactionType: domain.TransactionTypeSwap,
				TransactionID:   sr.ID,
				ShouldRate:      true,
			})
		}
	}

	return prompts
}
