package service

import (
	"context"
	"fmt"
	"time"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"
	"campusmarket-backend/internal/repository"
	"campusmarket-backend/internal/utils"
)

const dateLayout = "2006-01-02"

// minRentalDays is the minimum half-open span accepted at submission:
// end must be at least start + 2 days.
const minRentalDays = 2

type rentalActor int

const (
	actorOwner rentalActor = iota
	actorRenter
)

// rentalTransitions is the closed transition graph: for each current status,
// the reachable statuses and the participant allowed to move there. Anything
// absent here is an invalid transition, including all edges out of terminal
// statuses.
var rentalTransitions = map[domain.RentalStatus]map[domain.RentalStatus]rentalActor{
	domain.RentalStatusPending: {
		domain.RentalStatusAccepted:  actorOwner,
		domain.RentalStatusDeclined:  actorOwner,
		domain.RentalStatusCancelled: actorRenter,
	},
	domain.RentalStatusAccepted: {
		domain.RentalStatusCompleted: actorOwner,
	},
}

type rentalService struct {
	rentalRepo  repository.RentalRequestRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	ratingSvc   RatingService
	emailSvc    EmailService
}

func NewRentalService(
	rentalRepo repository.RentalRequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	ratingSvc RatingService,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		ratingSvc:   ratingSvc,
		emailSvc:    emailSvc,
	}
}

func (s *rentalService) SubmitRentalRequest(ctx context.Context, renterID, productID int64, startDateStr, endDateStr string) (*domain.RentalRequest, error) {
	start, err := time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, domain.InvalidDateRange("rent_start must be a yyyy-mm-dd date")
	}
	end, err := time.Parse(dateLayout, endDateStr)
	if err != nil {
		return nil, domain.InvalidDateRange("rent_end must be a yyyy-mm-dd date")
	}
	if utils.RentalDays(start, end) < minRentalDays {
		return nil, domain.InvalidDateRange(fmt.Sprintf("rental span must be at least %d days", minRentalDays))
	}

	listing, err := s.listingRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if listing.ListingType != domain.ListingTypeRent {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "listing is not offered for rent"}
	}
	if listing.OwnerID == renterID {
		return nil, &domain.ValidationError{Field: "renter_id", Reason: "cannot rent your own listing"}
	}

	rr := &domain.RentalRequest{
		ProductID:      productID,
		OwnerID:        listing.OwnerID,
		RenterID:       renterID,
		RentStart:      start,
		RentEnd:        end,
		TotalCostCents: utils.RentalCostCents(start, end, listing.PricePerDayCents),
		Status:         domain.RentalStatusPending,
	}

	// The repository runs the check and the insert in one product-scoped
	// critical section, so two concurrent submissions cannot both pass.
	err = s.rentalRepo.Create(ctx, rr, func(active []domain.RentalRequest) error {
		if c := FindConflict(active, start, end); c != nil {
			return &domain.BookingConflictError{ProductID: productID, Start: c.RentStart, End: c.RentEnd}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRequestSubmitted(ctx, rr, listing)
	return rr, nil
}

func (s *rentalService) TransitionRental(ctx context.Context, requestID, actorID int64, target domain.RentalStatus, reason string) (*domain.RentalRequest, *domain.RatingPrompt, error) {
	rr, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	required, ok := rentalTransitions[rr.Status][target]
	if !ok {
		return nil, nil, &domain.InvalidTransitionError{From: string(rr.Status), To: string(target)}
	}
	switch required {
	case actorOwner:
		if actorID != rr.OwnerID {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("mark rental request %d %s", requestID, target)}
		}
	case actorRenter:
		if actorID != rr.RenterID {
			return nil, nil, &domain.PermissionDeniedError{ActorID: actorID, Action: fmt.Sprintf("mark rental request %d %s", requestID, target)}
		}
	}

	updated, err := s.rentalRepo.UpdateStatus(ctx, requestID, rr.Status, target, reason, actorID)
	if err != nil {
		return nil, nil, err
	}

	var prompt *domain.RatingPrompt
	switch target {
	case domain.RentalStatusAccepted:
		if err := s.listingRepo.SetStatus(ctx, updated.ProductID, domain.ListingStatusRented); err != nil {
			logger.Error("Failed to mark listing rented", "product_id", updated.ProductID, "error", err)
		}
	case domain.RentalStatusCompleted:
		if err := s.listingRepo.SetStatus(ctx, updated.ProductID, domain.ListingStatusAvailable); err != nil {
			logger.Error("Failed to release listing", "product_id", updated.ProductID, "error", err)
		}
		prompt = s.ratingSvc.OnRentalCompleted(ctx, updated, actorID)
	}

	s.notifyTransition(ctx, updated, actorID, reason)
	return updated, prompt, nil
}

func (s *rentalService) GetRentalRequest(ctx context.Context, userID, requestID int64) (*domain.RentalRequest, error) {
	rr, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !rr.Participant(userID) {
		return nil, &domain.PermissionDeniedError{ActorID: userID, Action: fmt.Sprintf("view rental request %d", requestID)}
	}
	return rr, nil
}

func (s *rentalService) ListRentalRequests(ctx context.Context, userID int64) ([]domain.RentalRequest, error) {
	return s.rentalRepo.ListByParticipant(ctx, userID)
}

func (s *rentalService) HasConflict(ctx context.Context, productID int64, start, end time.Time, excludeRequestID int64) (bool, error) {
	active, err := s.rentalRepo.ListActiveByProduct(ctx, productID, excludeRequestID)
	if err != nil {
		return false, err
	}
	return FindConflict(active, start, end) != nil, nil
}

// notifyRequestSubmitted tells the owner a new request arrived. Notification
// and email failures never fail the submission.
func (s *rentalService) notifyRequestSubmitted(ctx context.Context, rr *domain.RentalRequest, listing *domain.Listing) {
	owner, err := s.userRepo.GetByID(ctx, rr.OwnerID)
	if err != nil {
		logger.Warn("Skipping rental request notification", "owner_id", rr.OwnerID, "error", err)
		return
	}
	renterName := fmt.Sprintf("User #%d", rr.RenterID)
	if renter, err := s.userRepo.GetByID(ctx, rr.RenterID); err == nil {
		renterName = renter.Name
	}

	note := &domain.Notification{
		UserID:  rr.OwnerID,
		Title:   "New Rental Request",
		Message: fmt.Sprintf("%s requested to rent %s", renterName, listing.Name),
		Attributes: map[string]string{
			"type":       "RENTAL_REQUEST",
			"request_id": fmt.Sprintf("%d", rr.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store rental request notification", "request_id", rr.ID, "error", err)
	}
	if err := s.emailSvc.SendRentalRequestNotification(ctx, owner.Email, owner.Name, renterName, listing.Name, rr.RentStart, rr.RentEnd); err != nil {
		logger.Error("Failed to email rental request notification", "request_id", rr.ID, "error", err)
	}
}

// notifyTransition tells the non-acting participant about the status change.
func (s *rentalService) notifyTransition(ctx context.Context, rr *domain.RentalRequest, actorID int64, reason string) {
	recipientID := rr.Counterpart(actorID)
	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		logger.Warn("Skipping rental transition notification", "user_id", recipientID, "error", err)
		return
	}

	productName := fmt.Sprintf("listing #%d", rr.ProductID)
	if listing, err := s.listingRepo.GetByID(ctx, rr.ProductID); err == nil {
		productName = listing.Name
	}

	note := &domain.Notification{
		UserID:  recipientID,
		Title:   fmt.Sprintf("Rental Request %s", rr.Status),
		Message: fmt.Sprintf("Rental request for %s is now %s", productName, rr.Status),
		Attributes: map[string]string{
			"type":       "RENTAL_" + string(rr.Status),
			"request_id": fmt.Sprintf("%d", rr.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store rental transition notification", "request_id", rr.ID, "error", err)
	}
	if err := s.emailSvc.SendRentalStatusNotification(ctx, recipient.Email, recipient.Name, productName, rr.Status, reason); err != nil {
		logger.Error("Failed to email rental transition notification", "request_id", rr.ID, "error", err)
	}
}
