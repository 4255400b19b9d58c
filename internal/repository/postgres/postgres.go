package postgres

import (
	"database/sql"

	"campusmarket-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRequestRepository
	repository.SwapRequestRepository
	repository.ListingRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.RatingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		RentalRequestRepository: NewRentalRequestRepository(db),
		SwapRequestRepository:   NewSwapRequestRepository(db),
		ListingRepository:       NewListingRepository(db),
		UserRepository:          NewUserRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		RatingRepository:        NewRatingRepository(db),
	}
}
