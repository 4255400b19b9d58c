package service

import (
	"context"
	"sync"
	"time"

	"campusmarket-backend/internal/domain"
)

// In-memory repositories with the same atomicity guarantees as the postgres
// implementations: the rental Create runs fetch-check-insert under one lock,
// and status updates are compare-and-set.

type fakeRentalRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*domain.RentalRequest
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{nextID: 1, requests: make(map[int64]*domain.RentalRequest)}
}

func (f *fakeRentalRepo) Create(_ context.Context, rr *domain.RentalRequest, check func(active []domain.RentalRequest) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []domain.RentalRequest
	for _, existing := range f.requests {
		if existing.ProductID == rr.ProductID && existing.Status.BlocksCalendar() {
			active = append(active, *existing)
		}
	}
	if err := check(active); err != nil {
		return err
	}

	rr.ID = f.nextID
	f.nextID++
	rr.CreatedOn = time.Now().UTC()
	rr.UpdatedOn = rr.CreatedOn
	stored := *rr
	f.requests[rr.ID] = &stored
	return nil
}

func (f *fakeRentalRepo) GetByID(_ context.Context, id int64) (*domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rr, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *rr
	return &out, nil
}

func (f *fakeRentalRepo) ListByParticipant(_ context.Context, userID int64) ([]domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RentalRequest
	for _, rr := range f.requests {
		if rr.Participant(userID) {
			out = append(out, *rr)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) ListActiveByProduct(_ context.Context, productID, excludeID int64) ([]domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RentalRequest
	for _, rr := range f.requests {
		if rr.ProductID == productID && rr.ID != excludeID && rr.Status.BlocksCalendar() {
			out = append(out, *rr)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) UpdateStatus(_ context.Context, id int64, from, to domain.RentalStatus, reason string, actorID int64) (*domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rr, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if rr.Status != from {
		return nil, domain.ErrConcurrencyConflict
	}
	rr.Status = to
	switch to {
	case domain.RentalStatusDeclined:
		rr.DeclineReason = reason
	case domain.RentalStatusCancelled:
		rr.CancelReason = reason
	case domain.RentalStatusCompleted:
		actor := actorID
		rr.CompletedBy = &actor
	}
	rr.UpdatedOn = time.Now().UTC()
	out := *rr
	return &out, nil
}

func (f *fakeRentalRepo) ListStalePending(_ context.Context, olderThan time.Time) ([]domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RentalRequest
	for _, rr := range f.requests {
		if rr.Status == domain.RentalStatusPending && rr.CreatedOn.Before(olderThan) {
			out = append(out, *rr)
		}
	}
	return out, nil
}

func (f *fakeRentalRepo) ListOverdueAccepted(_ context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RentalRequest
	for _, rr := range f.requests {
		if rr.Status == domain.RentalStatusAccepted && rr.RentEnd.Before(asOf) {
			out = append(out, *rr)
		}
	}
	return out, nil
}

type fakeSwapRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*domain.SwapRequest
}

func newFakeSwapRepo() *fakeSwapRepo {
	return &fakeSwapRepo{nextID: 1, requests: make(map[int64]*domain.SwapRequest)}
}

func (f *fakeSwapRepo) Create(_ context.Context, sr *domain.SwapRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sr.ID = f.nextID
	f.nextID++
	sr.CreatedOn = time.Now().UTC()
	sr.UpdatedOn = sr.CreatedOn
	stored := *sr
	f.requests[sr.ID] = &stored
	return nil
}

func (f *fakeSwapRepo) GetByID(_ context.Context, id int64) (*domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sr, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *sr
	return &out, nil
}

func (f *fakeSwapRepo) ListByParticipant(_ context.Context, userID int64) ([]domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SwapRequest
	for _, sr := range f.requests {
		if sr.Participant(userID) {
			out = append(out, *sr)
		}
	}
	return out, nil
}

func (f *fakeSwapRepo) UpdateStatus(_ context.Context, id int64, from, to domain.SwapStatus, reason string, actorID int64) (*domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sr, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if sr.Status != from {
		return nil, domain.ErrConcurrencyConflict
	}
	sr.Status = to
	switch to {
	case domain.SwapStatusRejected:
		sr.RejectionReason = reason
	case domain.SwapStatusCompleted:
		actor := actorID
		sr.CompletedBy = &actor
	}
	sr.UpdatedOn = time.Now().UTC()
	out := *sr
	return &out, nil
}

func (f *fakeSwapRepo) MarkRated(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sr, ok := f.requests[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if sr.HasRated {
		return false, nil
	}
	sr.HasRated = true
	return true, nil
}

func (f *fakeSwapRepo) ListStalePending(_ context.Context, olderThan time.Time) ([]domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SwapRequest
	for _, sr := range f.requests {
		if sr.Status == domain.SwapStatusPending && sr.CreatedOn.Before(olderThan) {
			out = append(out, *sr)
		}
	}
	return out, nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[int64]*domain.Listing
}

func newFakeListingRepo(listings ...*domain.Listing) *fakeListingRepo {
	f := &fakeListingRepo{listings: make(map[int64]*domain.Listing)}
	for _, l := range listings {
		stored := *l
		f.listings[l.ID] = &stored
	}
	return f
}

func (f *fakeListingRepo) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *l
	return &out, nil
}

func (f *fakeListingRepo) SetStatus(_ context.Context, id int64, status domain.ListingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	return nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	notes  []domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.nextID
	f.nextID++
	f.notes = append(f.notes, *n)
	return nil
}

func (f *fakeNotificationRepo) List(_ context.Context, userID int64, limit, offset int64) ([]domain.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []domain.Notification
	for _, n := range f.notes {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int64(len(mine))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if f.notes[i].ID == id && f.notes[i].UserID == userID {
			f.notes[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeNotificationRepo) forUser(userID int64) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []domain.Notification
	for _, n := range f.notes {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	return mine
}

type ratingKey struct {
	raterID int64
	txType  domain.TransactionType
	txID    int64
}

type fakeRatingRepo struct {
	mu     sync.Mutex
	rated  map[ratingKey]bool
	failed bool
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{rated: make(map[ratingKey]bool)}
}

func (f *fakeRatingRepo) Exists(_ context.Context, raterID int64, txType domain.TransactionType, txID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return false, domain.ErrNotFound
	}
	return f.rated[ratingKey{raterID, txType, txID}], nil
}

func (f *fakeRatingRepo) record(raterID int64, txType domain.TransactionType, txID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rated[ratingKey{raterID, txType, txID}] = true
}

type nopEmailService struct{}

func (nopEmailService) SendRentalRequestNotification(context.Context, string, string, string, string, time.Time, time.Time) error {
	return nil
}
func (nopEmailService) SendRentalStatusNotification(context.Context, string, string, string, domain.RentalStatus, string) error {
	return nil
}
func (nopEmailService) SendSwapOfferNotification(context.Context, string, string, string, string, string) error {
	return nil
}
func (nopEmailService) SendSwapStatusNotification(context.Context, string, string, string, domain.SwapStatus, string) error {
	return nil
}

// fixture wires the full service graph over the fakes.
type fixture struct {
	rentalRepo  *fakeRentalRepo
	swapRepo    *fakeSwapRepo
	listingRepo *fakeListingRepo
	userRepo    *fakeUserRepo
	noteRepo    *fakeNotificationRepo
	ratingRepo  *fakeRatingRepo

	rentals RentalService
	swaps   SwapService
	ratings RatingService
	sync    SyncService
}

func newFixture(listings ...*domain.Listing) *fixture {
	f := &fixture{
		rentalRepo:  newFakeRentalRepo(),
		swapRepo:    newFakeSwapRepo(),
		listingRepo: newFakeListingRepo(listings...),
		userRepo: newFakeUserRepo(
			&domain.User{ID: 1, Name: "Alice", Email: "alice@campus.edu"},
			&domain.User{ID: 2, Name: "Bob", Email: "bob@campus.edu"},
			&domain.User{ID: 3, Name: "Carol", Email: "carol@campus.edu"},
		),
		noteRepo:   newFakeNotificationRepo(),
		ratingRepo: newFakeRatingRepo(),
	}
	f.ratings = NewRatingService(f.ratingRepo)
	f.rentals = NewRentalService(f.rentalRepo, f.listingRepo, f.userRepo, f.noteRepo, f.ratings, nopEmailService{})
	f.swaps = NewSwapService(f.swapRepo, f.listingRepo, f.userRepo, f.noteRepo, f.ratings, nopEmailService{})
	f.sync = NewSyncService(f.rentalRepo, f.swapRepo, f.noteRepo, f.ratings)
	return f
}
