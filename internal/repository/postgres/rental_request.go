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

const rentalRequestColumns = `id, product_id, owner_id, renter_id, rent_start, rent_end,
	total_cost_cents, status, decline_reason, cancel_reason, completed_by, created_on, updated_on`

type rentalRequestRepository struct {
	db *sql.DB
}

func NewRentalRequestRepository(db *sql.DB) repository.RentalRequestRepository {
	return &rentalRequestRepository{db: db}
}

func scanRentalRequest(row interface {
	Scan(dest ...interface{}) error
}) (*domain.RentalRequest, error) {
	rr := &domain.RentalRequest{}
	err := row.Scan(&rr.ID, &rr.ProductID, &rr.OwnerID, &rr.RenterID, &rr.RentStart, &rr.RentEnd,
		&rr.TotalCostCents, &rr.Status, &rr.DeclineReason, &rr.CancelReason, &rr.CompletedBy,
		&rr.CreatedOn, &rr.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rr, nil
}

// Create serializes the conflict check and the insert per product: the listing
// row is locked FOR UPDATE for the duration of the transaction, so two racing
// submissions for the same product cannot both pass the check callback.
func (r *rentalRequestRepository) Create(ctx context.Context, rr *domain.RentalRequest, check func(active []domain.RentalRequest) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var productID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM listings WHERE id = $1 FOR UPDATE`, rr.ProductID).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+rentalRequestColumns+`
		FROM rental_requests
		WHERE product_id = $1 AND status NOT IN ($2, $3)`,
		rr.ProductID, domain.RentalStatusDeclined, domain.RentalStatusCancelled)
	if err != nil {
		return err
	}
	defer rows.Close()

	var active []domain.RentalRequest
	for rows.Next() {
		existing, scanErr := scanRentalRequest(rows)
		if scanErr != nil {
			err = scanErr
			return err
		}
		active = append(active, *existing)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	if err = check(active); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO rental_requests
		(product_id, owner_id, renter_id, rent_start, rent_end, total_cost_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_on, updated_on`,
		rr.ProductID, rr.OwnerID, rr.RenterID, rr.RentStart, rr.RentEnd, rr.TotalCostCents, rr.Status,
	).Scan(&rr.ID, &rr.CreatedOn, &rr.UpdatedOn)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error) {
	rr, err := scanRentalRequest(r.db.QueryRowContext(ctx,
		`SELECT `+rentalRequestColumns+` FROM rental_requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rr, nil
}

func (r *rentalRequestRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.RentalRequest, error) {
	return r.list(ctx, `SELECT `+rentalRequestColumns+`
		FROM rental_requests
		WHERE renter_id = $1 OR owner_id = $1
		ORDER BY created_on DESC`, userID)
}

func (r *rentalRequestRepository) ListActiveByProduct(ctx context.Context, productID, excludeID int64) ([]domain.RentalRequest, error) {
	return r.list(ctx, `SELECT `+rentalRequestColumns+`
		FROM rental_requests
		WHERE product_id = $1 AND id <> $2 AND status NOT IN ($3, $4)`,
		productID, excludeID, domain.RentalStatusDeclined, domain.RentalStatusCancelled)
}

// UpdateStatus is a compare-and-set on the status column. Zero rows means the
// row either vanished (never happens, rows are immortal) or its status moved
// away from the expected value between the caller's read and this write.
func (r *rentalRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RentalStatus, reason string, actorID int64) (*domain.RentalRequest, error) {
	query := `UPDATE rental_requests
		SET status = $3,
		    decline_reason = CASE WHEN $3 = 'declined' THEN $4 ELSE decline_reason END,
		    cancel_reason  = CASE WHEN $3 = 'cancelled' THEN $4 ELSE cancel_reason END,
		    completed_by   = CASE WHEN $3 = 'completed' THEN $5 ELSE completed_by END,
		    updated_on = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + rentalRequestColumns

	rr, err := scanRentalRequest(r.db.QueryRowContext(ctx, query, id, from, to, reason, actorID))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM rental_requests WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return nil, checkErr
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrConcurrencyConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update rental request %d: %w", id, err)
	}
	return rr, nil
}

func (r *rentalRequestRepository) ListStalePending(ctx context.Context, olderThan time.Time) ([]domain.RentalRequest, error) {
	return r.list(ctx, `SELECT `+rentalRequestColumns+`
		FROM rental_requests
		WHERE status = 'pending' AND created_on < $1`, olderThan)
}

func (r *rentalRequestRepository) ListOverdueAccepted(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	return r.list(ctx, `SELECT `+rentalRequestColumns+`
		FROM rental_requests
		WHERE status = 'accepted' AND rent_end < $1`, asOf)
}

func (r *rentalRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.RentalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.RentalRequest
	for rows.Next() {
		rr, err := scanRentalRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *rr)
	}
	return requests, rows.Err()
}
