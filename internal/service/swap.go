package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"
	"campusmarket-backend/internal/repository"
)

type swapActor int

const (
	actorTargetOwner swapActor = iota
	actorRequester
	actorEither
)

// swapTransitions mirrors rentalTransitions for the swap family. Completion
// of an accepted swap is open to either participant; the repository's
// compare-and-set picks the single winner.
var swapTransitions = map[domain.SwapStatus]map[domain.SwapStatus]swapActor{
	domain.SwapStatusPending: {
		domain.SwapStatusAccepted:  actorTargetOwner,
		domain.SwapStatusRejected:  actorTargetOwner,
		domain.SwapStatusCancelled: actorRequester,
	},
	domain.SwapStatusAccepted: {
		domain.SwapStatusCompleted: actorEither,
	},
}

type swapService struct {
	swapRepo    repository.SwapRequestRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	ratingSvc   RatingService
	emailSvc    EmailService
}

func NewSwapService(
	swapRepo repository.SwapRequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	ratingSvc RatingService,
	emailSvc EmailService,
) SwapService {
	return &swapService{
		swapRepo:    swapRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		ratingSvc:   ratingSvc,
		emailSvc:    emailSvc,
	}
}

func (s *swapService) SubmitSwapRequest(ctx context.Context, requesterID, productID int64, offeredItemID *int64, offerDescription, offerNote, offerImage string) (*domain.SwapRequest, error) {
	description := strings.TrimSpace(offerDescription)
	if description == "" {
		return nil, &domain.ValidationError{Field: "offer_description", Reason: "offer description must not be empty"}
	}
	// A free-text note travels inside the description, the way the original
	// offer form folded it in.
	if note := strings.TrimSpace(offerNote); note != "" {
		description = fmt.Sprintf("%s (Note: %s)", description, note)
	}

	listing, err := s.listingRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if listing.ListingType != domain.ListingTypeSwap {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "listing is not offered for swap"}
	}
	if listing.OwnerID == requesterID {
		return nil, &domain.ValidationError{Field: "requester_id", Reason: "cannot request a swap on your own listing"}
	}
	if offeredItemID != nil {
		offered, err := s.listingRepo.GetByID(ctx, *offeredItemID)
		if err != nil {
			return nil, err
		}
		if offered.OwnerID != requesterID {
			return nil, &domain.ValidationError{Field: "offered_item_id", Reason: "offered item is not owned by the requester"}
		}
	}

	sr := &domain.SwapRequest{
		ProductID:        productID,
		RequesterID:      requesterID,
		TargetOwnerID:    listing.OwnerID,
		OfferedItemID:    offeredItemID,
		OfferDescription: description,
		OfferImage:       offerImage,
		Status:           domain.SwapStatusPending,
	}
	if err := s.swapRepo.Create(ctx, sr); err != nil {
		return nil, err
	}

	s.notifyOfferSubmitted(ctx, sr, listing)
	return sr, nil
}

func (s *swapService) TransitionSwap(ctx context.Context, requestID, actorID int64, target domain.SwapStatus, reason string) (*domain.SwapRequest, *domain.RatingPrompt, error) {
	sr, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	// Both participants may race to mark an accepted swap done. A caller
	// that finds the swap already completed is a benign loser of that race:
	// it gets the request back with a suppressed prompt instead of an error.
	if target == domain.SwapStatusCompleted && sr.Status == domain.SwapStatusCompleted {
		if !sr.Participant(actorID) {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("complete swap request %d", requestID)}
		}
		return s.completeSwap(ctx, sr, actorID)
	}

	required, ok := swapTransitions[sr.Status][target]
	if !ok {
		return nil, nil, &domain.InvalidTransitionError{From: string(sr.Status), To: string(target)}
	}
	switch required {
	case actorTargetOwner:
		if actorID != sr.TargetOwnerID {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("mark swap request %d %s", requestID, target)}
		}
	case actorRequester:
		if actorID != sr.RequesterID {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("mark swap request %d %s", requestID, target)}
		}
	case actorEither:
		if !sr.Participant(actorID) {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("mark swap request %d %s", requestID, target)}
		}
	}
	if target == domain.SwapStatusRejected && strings.TrimSpace(reason) == "" {
		return nil, nil, &domain.ValidationError{Field: "reason", Reason: "rejecting a swap requires a reason"}
	}

	updated, err := s.swapRepo.UpdateStatus(ctx, requestID, sr.Status, target, reason, actorID)
	if errors.Is(err, domain.ErrConcurrencyConflict) && target == domain.SwapStatusCompleted {
		// Lost the accepted→completed race; if the other participant won,
		// fall through to the tolerant completion path.
		current, gerr := s.swapRepo.GetByID(ctx, requestID)
		if gerr == nil && current.Status == domain.SwapStatusCompleted {
			return s.completeSwap(ctx, current, actorID)
		}
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, err
	}

	var prompt *domain.RatingPrompt
	if target == domain.SwapStatusCompleted {
		if err := s.listingRepo.SetStatus(ctx, updated.ProductID, domain.ListingStatusSwapped); err != nil {
			logger.Error("Failed to mark listing swapped", "product_id", updated.ProductID, "error", err)
		}
		updated, prompt, err = s.completeSwap(ctx, updated, actorID)
		if err != nil {
			return nil, nil, err
		}
	}

	s.notifyTransition(ctx, updated, actorID, reason)
	return updated, prompt, nil
}

// completeSwap claims the single rating slot via the has_rated compare-and-set
// and builds the prompt. Exactly one completion call per swap ends up with
// should_rate = true.
func (s *swapService) completeSwap(ctx context.Context, sr *domain.SwapRequest, actorID int64) (*domain.SwapRequest, *domain.RatingPrompt, error) {
	won, err := s.swapRepo.MarkRated(ctx, sr.ID)
	if err != nil {
		return nil, nil, err
	}
	if won {
		sr.HasRated = true
	}
	return sr, s.ratingSvc.OnSwapCompleted(sr, actorID, won), nil
}

func (s *swapService) GetSwapRequest(ctx context.Context, userID, requestID int64) (*domain.SwapRequest, error) {
	sr, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !sr.Participant(userID) {
		return nil, &domain.PermissionDeniedError{ActorID: userID, Action: fmt.Sprintf("view swap request %d", requestID)}
	}
	return sr, nil
}

func (s *swapService) ListSwapRequests(ctx context.Context, userID int64) ([]domain.SwapRequest, error) {
	return s.swapRepo.ListByParticipant(ctx, userID)
}

func (s *swapService) notifyOfferSubmitted(ctx context.Context, sr *domain.SwapRequest, listing *domain.Listing) {
	owner, err := s.userRepo.GetByID(ctx, sr.TargetOwnerID)
	if err != nil {
		logger.Warn("Skipping swap offer notification", "owner_id", sr.TargetOwnerID, "error", err)
		return
	}
	requesterName := fmt.Sprintf("User #%d", sr.RequesterID)
	if requester, err := s.userRepo.GetByID(ctx, sr.RequesterID); err == nil {
		requesterName = requester.Name
	}

	note := &domain.Notification{
		UserID:  sr.TargetOwnerID,
		Title:   "New Swap Offer",
		Message: fmt.Sprintf("%s offered a swap for %s", requesterName, listing.Name),
		Attributes: map[string]string{
			"type":       "SWAP_REQUEST",
			"request_id": fmt.Sprintf("%d", sr.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store swap offer notification", "request_id", sr.ID, "error", err)
	}
	if err := s.emailSvc.SendSwapOfferNotification(ctx, owner.Email, owner.Name, requesterName, listing.Name, sr.OfferDescription); err != nil {
		logger.Error("Failed to email swap offer notification", "request_id", sr.ID, "error", err)
	}
}

func (s *swapService) notifyTransition(ctx context.Context, sr *domain.SwapRequest, actorID int64, reason string) {
	recipientID := sr.Counterpart(actorID)
	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		logger.Warn("Skipping swap transition notification", "user_id", recipientID, "error", err)
		return
	}

	productName := fmt.Sprintf("listing #%d", sr.ProductID)
	if listing, err := s.listingRepo.GetByID(ctx, sr.ProductID); err == nil {
		productName = listing.Name
	}

	note := &domain.Notification{
		UserID:  recipientID,
		Title:   fmt.Sprintf("Swap Request %s", sr.Status),
		Message: fmt.Sprintf("Swap request for %s is now %s", productName, sr.Status),
		Attributes: map[string]string{
			"type":       "SWAP_" + string(sr.Status),
			"request_id": fmt.Sprintf("%d", sr.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store swap transition notification", "request_id", sr.ID, "error", err)
	}
	if err := s.emailSvc.SendSwapStatusNotification(ctx, recipient.Email, recipient.Name, productName, sr.Status, reason); err != nil {
		logger.Error("Failed to email swap transition notification", "request_id", sr.ID, "error", err)
	}
}
