package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket-backend/internal/domain"
)

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(rentListing(10, 1), swapListing(20, 1))

	rr, err := f.rentals.SubmitRentalRequest(ctx, 2, 10, "2025-12-13", "2025-12-15")
	require.NoError(t, err)
	sr, err := f.swaps.SubmitSwapRequest(ctx, 2, 20, nil, "Physics textbook", "", "")
	require.NoError(t, err)

	t.Run("carries both request families", func(t *testing.T) {
		snap, err := f.sync.Snapshot(ctx, 2)
		require.NoError(t, err)
		require.Len(t, snap.RentalRequests, 1)
		require.Len(t, snap.SwapRequests, 1)
		assert.Equal(t, rr.ID, snap.RentalRequests[0].ID)
		assert.Equal(t, sr.ID, snap.SwapRequests[0].ID)
		assert.False(t, snap.GeneratedAt.IsZero())
	})

	t.Run("owner sees the same requests from their side", func(t *testing.T) {
		snap, err := f.sync.Snapshot(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, snap.RentalRequests, 1)
		assert.Len(t, snap.SwapRequests, 1)
		// Submission notifications went to the owner.
		assert.Len(t, snap.Notifications, 2)
	})

	t.Run("pending ratings surface unrated completions", func(t *testing.T) {
		_, _, err := f.rentals.TransitionRental(ctx, rr.ID, 1, domain.RentalStatusAccepted, "")
		require.NoError(t, err)
		_, _, err = f.rentals.TransitionRental(ctx, rr.ID, 1, domain.RentalStatusCompleted, "")
		require.NoError(t, err)

		// The renter has not rated yet, so their snapshot carries a prompt.
		snap, err := f.sync.Snapshot(ctx, 2)
		require.NoError(t, err)
		require.Len(t, snap.PendingRatings, 1)
		prompt := snap.PendingRatings[0]
		assert.Equal(t, int64(2), prompt.RaterID)
		assert.Equal(t, int64(1), prompt.RatedUserID)
		assert.Equal(t, domain.TransactionTypeRental, prompt.TransactionType)
		assert.True(t, prompt.ShouldRate)

		// Once rated, the prompt disappears from the next poll.
		f.ratingRepo.record(2, domain.TransactionTypeRental, rr.ID)
		snap, err = f.sync.Snapshot(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, snap.PendingRatings)
	})

	t.Run("users with no activity get an empty snapshot", func(t *testing.T) {
		snap, err := f.sync.Snapshot(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, snap.RentalRequests)
		assert.Empty(t, snap.SwapRequests)
		assert.Empty(t, snap.PendingRatings)
	})
}
