package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket-backend/internal/domain"
)

var rentalRequestCols = []string{
	"id", "product_id", "owner_id", "renter_id", "rent_start", "rent_end",
	"total_cost_cents", "status", "decline_reason", "cancel_reason", "completed_by",
	"created_on", "updated_on",
}

func rentalRow(id int64, status domain.RentalStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(rentalRequestCols).
		AddRow(id, 10, 1, 2, now, now.AddDate(0, 0, 2), 1000, status, "", "", nil, now, now)
}

func TestRentalRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRequestRepository(db)
	ctx := context.Background()

	newRequest := func() *domain.RentalRequest {
		return &domain.RentalRequest{
			ProductID:      10,
			OwnerID:        1,
			RenterID:       2,
			RentStart:      time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC),
			RentEnd:        time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			TotalCostCents: 1000,
			Status:         domain.RentalStatusPending,
		}
	}

	t.Run("inserts after the check passes", func(t *testing.T) {
		rr := newRequest()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM listings WHERE id = \$1 FOR UPDATE`).
			WithArgs(rr.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rr.ProductID))
		mock.ExpectQuery(`SELECT (.+) FROM rental_requests`).
			WithArgs(rr.ProductID, domain.RentalStatusDeclined, domain.RentalStatusCancelled).
			WillReturnRows(sqlmock.NewRows(rentalRequestCols))
		mock.ExpectQuery(`INSERT INTO rental_requests`).
			WithArgs(rr.ProductID, rr.OwnerID, rr.RenterID, rr.RentStart, rr.RentEnd, rr.TotalCostCents, rr.Status).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on", "updated_on"}).
				AddRow(7, time.Now(), time.Now()))
		mock.ExpectCommit()

		var seen []domain.RentalRequest
		err := repo.Create(ctx, rr, func(active []domain.RentalRequest) error {
			seen = active
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), rr.ID)
		assert.Empty(t, seen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the check vetoes", func(t *testing.T) {
		rr := newRequest()
		veto := &domain.BookingConflictError{ProductID: rr.ProductID, Start: rr.RentStart, End: rr.RentEnd}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM listings WHERE id = \$1 FOR UPDATE`).
			WithArgs(rr.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(rr.ProductID))
		mock.ExpectQuery(`SELECT (.+) FROM rental_requests`).
			WithArgs(rr.ProductID, domain.RentalStatusDeclined, domain.RentalStatusCancelled).
			WillReturnRows(rentalRow(3, domain.RentalStatusAccepted))
		mock.ExpectRollback()

		err := repo.Create(ctx, rr, func(active []domain.RentalRequest) error {
			require.Len(t, active, 1)
			return veto
		})
		assert.ErrorIs(t, err, veto)
		assert.Zero(t, rr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown product", func(t *testing.T) {
		rr := newRequest()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM listings WHERE id = \$1 FOR UPDATE`).
			WithArgs(rr.ProductID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Create(ctx, rr, func([]domain.RentalRequest) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRequestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRequestRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_requests WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(rentalRow(5, domain.RentalStatusPending))

		rr, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), rr.ID)
		assert.Equal(t, domain.RentalStatusPending, rr.Status)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rental_requests WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(rentalRequestCols))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRequestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRequestRepository(db)
	ctx := context.Background()

	t.Run("compare and set wins", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE rental_requests`).
			WithArgs(int64(5), domain.RentalStatusPending, domain.RentalStatusAccepted, "", int64(1)).
			WillReturnRows(rentalRow(5, domain.RentalStatusAccepted))

		rr, err := repo.UpdateStatus(ctx, 5, domain.RentalStatusPending, domain.RentalStatusAccepted, "", 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusAccepted, rr.Status)
	})

	t.Run("lost race yields a concurrency conflict", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE rental_requests`).
			WithArgs(int64(5), domain.RentalStatusPending, domain.RentalStatusAccepted, "", int64(1)).
			WillReturnRows(sqlmock.NewRows(rentalRequestCols))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.UpdateStatus(ctx, 5, domain.RentalStatusPending, domain.RentalStatusAccepted, "", 1)
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	})

	t.Run("missing row yields not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE rental_requests`).
			WithArgs(int64(99), domain.RentalStatusPending, domain.RentalStatusAccepted, "", int64(1)).
			WillReturnRows(sqlmock.NewRows(rentalRequestCols))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.UpdateStatus(ctx, 99, domain.RentalStatusPending, domain.RentalStatusAccepted, "", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRequestRepository_ListActiveByProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRentalRequestRepository(db)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows(rentalRequestCols).
		AddRow(1, 10, 1, 2, now, now.AddDate(0, 0, 2), 1000, domain.RentalStatusAccepted, "", "", nil, now, now).
		AddRow(2, 10, 1, 3, now.AddDate(0, 0, 5), now.AddDate(0, 0, 7), 1000, domain.RentalStatusPending, "", "", nil, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM rental_requests`).
		WithArgs(int64(10), int64(0), domain.RentalStatusDeclined, domain.RentalStatusCancelled).
		WillReturnRows(rows)

	active, err := repo.ListActiveByProduct(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
