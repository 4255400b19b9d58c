package postgres

import (
	"context"
	"database/sql"

	"campusmarket-backend/internal/domain"
	"campusmarket-backend/internal/repository"
)

// ratingRepository reads the review service's ratings table. The unique index
// on (rater_id, transaction_type, transaction_id) is what makes Exists a
// reliable duplicate-prompt guard for rentals.
type ratingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Exists(ctx context.Context, raterID int64, txType domain.TransactionType, txID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM ratings WHERE rater_id = $1 AND transaction_type = $2 AND transaction_id = $3)`,
		raterID, txType, txID).Scan(&exists)
	return exists, err
}
