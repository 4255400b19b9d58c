package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/repository"
)

const swapRequestColumns = `id, product_id, requester_id, target_owner_id, offered_item_id,
	offer_description, offer_image, status, rejection_reason, has_rated, completed_by, created_on, updated_on`

type swapRequestRepository struct {
	db *sql.DB
}

func NewSwapRequestRepository(db *sql.DB) repository.SwapRequestRepository {
	return &swapRequestRepository{db: db}
}

func scanSwapRequest(row interface {
	Scan(dest ...interface{}) error
}) (*domain.SwapRequest, error) {
	sr := &domain.SwapRequest{}
	err := row.Scan(&sr.ID, &sr.ProductID, &sr.RequesterID, &sr.TargetOwnerID, &sr.OfferedItemID,
		&sr.OfferDescription, &sr.OfferImage, &sr.Status, &sr.RejectionReason, &sr.HasRated,
		&sr.CompletedBy, &sr.CreatedOn, &sr.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func (r *swapRequestRepository) Create(ctx context.Context, sr *domain.SwapRequest) error {
	return r.db.QueryRowContext(ctx, `INSERT INTO swap_requests
		(product_id, requester_id, target_owner_id, offered_item_id, offer_description, offer_image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_on, updated_on`,
		sr.ProductID, sr.RequesterID, sr.TargetOwnerID, sr.OfferedItemID,
		sr.OfferDescription, sr.OfferImage, sr.Status,
	).Scan(&sr.ID, &sr.CreatedOn, &sr.UpdatedOn)
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id int64) (*domain.SwapRequest, error) {
	sr, err := scanSwapRequest(r.db.QueryRowContext(ctx,
		`SELECT `+swapRequestColumns+` FROM swap_requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func (r *swapRequestRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.SwapRequest, error) {
	return r.list(ctx, `SELECT `+swapRequestColumns+`
		FROM swap_requests
		WHERE requester_id = $1 OR target_owner_id = $1
		ORDER BY created_on DESC`, userID)
}

// UpdateStatus has the same compare-and-set shape as the rental repository:
// the write only lands while the status still equals the caller's read.
func (r *swapRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SwapStatus, reason string, actorID int64) (*domain.SwapRequest, error) {
	query := `UPDATE swap_requests
		SET status = $3,
		    rejection_reason = CASE WHEN $3 = 'rejected' THEN $4 ELSE rejection_reason END,
		    completed_by     = CASE WHEN $3 = 'completed' THEN $5 ELSE completed_by END,
		    updated_on = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + swapRequestColumns

	sr, err := scanSwapRequest(r.db.QueryRowContext(ctx, query, id, from, to, reason, actorID))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM swap_requests WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, checkErr
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrConcurrencyConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update swap request %d: %w", id, err)
	}
	return sr, nil
}

// MarkRated flips has_rated at most once per request. The rows-affected count
// decides the winner when both participants complete near-simultaneously.
func (r *swapRequestRepository) MarkRated(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE swap_requests SET has_rated = TRUE, updated_on = NOW() WHERE id = $1 AND has_rated = FALSE`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *swapRequestRepository) ListStalePending(ctx context.Context, olderThan time.Time) ([]domain.SwapRequest, error) {
	return r.list(ctx, `SELECT `+swapRequestColumns+`
		FROM swap_requests
		WHERE status = 'pending' AND created_on < $1`, olderThan)
}

func (r *swapRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.SwapRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.SwapRequest
	for rows.Next() {
		sr, err := scanSwapRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *sr)
	}
	return requests, rows.Err()
}
