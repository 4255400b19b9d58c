package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/logger"
)

// ExpireStalePendingRequests cancels pending requests older than the
// configured expiry window. Expiry is opt-in: with pending_expiry_days <= 0
// the job is a no-op and pending requests wait for the owner indefinitely.
// Cancellation goes through the same compare-and-set as user transitions, so
// a request the owner accepts mid-job is left alone.
func (jr *JobRunner) ExpireStalePendingRequests() {
	jr.runWithRecovery("ExpireStalePendingRequests", func() {
		days := jr.config.Arbitration.PendingExpiryDays
		if days <= 0 {
			logger.Info("Pending expiry disabled, skipping")
			return
		}

		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		reason := fmt.Sprintf("expired after %d days without a response", days)

		rentals, err := jr.store.RentalRequestRepository.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending rental requests", "error", err)
			return
		}

		expired := 0
		for _, rr := range rentals {
			_, err := jr.store.RentalRequestRepository.UpdateStatus(ctx, rr.ID, domain.RentalStatusPending, domain.RentalStatusCancelled, reason, 0)
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				// Someone transitioned it between the list and the update.
				logger.Debug("Rental request transitioned during expiry, skipping", "request_id", rr.ID)
				continue
			}
			if err != nil {
				logger.Error("Failed to expire rental request", "request_id", rr.ID, "error", err)
				continue
			}
			expired++
			jr.notifyExpiry(ctx, rr.RenterID, "Rental request expired",
				fmt.Sprintf("Your rental request #%d was cancelled because the owner did not respond within %d days.", rr.ID, days))
		}
		logger.Info("Expired stale pending rental requests", "count", expired)

		swaps, err := jr.store.SwapRequestRepository.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending swap requests", "error", err)
			return
		}

		expired = 0
		for _, sr := range swaps {
			_, err := jr.store.SwapRequestRepository.UpdateStatus(ctx, sr.ID, domain.SwapStatusPending, domain.SwapStatusCancelled, reason, 0)
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				logger.Debug("Swap request transitioned during expiry, skipping", "request_id", sr.ID)
				continue
			}
			if err != nil {
				logger.Error("Failed to expire swap request", "request_id", sr.ID, "error", err)
				continue
			}
			expired++
			jr.notifyExpiry(ctx, sr.RequesterID, "Swap request expired",
				fmt.Sprintf("Your swap request #%d was cancelled because the owner did not respond within %d days.", sr.ID, days))
		}
		logger.Info("Expired stale pending swap requests", "count", expired)
	})
}

// SendOverdueReturnReminders notifies both sides of an accepted rental whose
// end date has passed. It only reminds; the owner still has to complete the
// rental themselves.
func (jr *JobRunner) SendOverdueReturnReminders() {
	jr.runWithRecovery("SendOverdueReturnReminders", func() {
		ctx := context.Background()

		overdue, err := jr.store.RentalRequestRepository.ListOverdueAccepted(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		for _, rr := range overdue {
			endDate := rr.RentEnd.Format("2006-01-02")
			jr.notifyExpiry(ctx, rr.RenterID, "Rental return overdue",
				fmt.Sprintf("Your rental #%d was due back on %s. Please return the item.", rr.ID, endDate))
			jr.notifyExpiry(ctx, rr.OwnerID, "Rental return overdue",
				fmt.Sprintf("Rental #%d of your item was due back on %s.", rr.ID, endDate))
		}
		logger.Info("Sent overdue return reminders", "count", len(overdue))
	})
}

func (jr *JobRunner) notifyExpiry(ctx context.Context, userID int64, title, message string) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := jr.store.NotificationRepository.Create(ctx, n); err != nil {
		logger.Error("Failed to create job notification", "user_id", userID, "error", err)
	}
}
