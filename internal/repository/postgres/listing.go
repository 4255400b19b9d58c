package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := r.db.QueryRowContext(ctx, `SELECT id, owner_id, name, listing_type, status, price_per_day_cents, created_on
		FROM listings WHERE id = $1`, id).
		Scan(&l.ID, &l.OwnerID, &l.Name, &l.ListingType, &l.Status, &l.PricePerDayCents, &l.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) SetStatus(ctx context.Context, id int64, status domain.ListingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
