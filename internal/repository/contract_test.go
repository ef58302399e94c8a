package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venues-api/internal/ids"
	"github.com/iliyamo/venues-api/internal/model"
)

// seedReservation inserts a reservation for venueID directly in the
// backend and returns its identifier. The venue repositories only read
// reservations, so each backend test supplies its own writer.
type seedReservation func(t *testing.T, venueID string, guests int) string

func ptr[T any](v T) *T { return &v }

// runVenueContract exercises the VenueRepository behavior every backend
// must share.
func runVenueContract(t *testing.T, repo VenueRepository, seed seedReservation, linkToVenue func(t *testing.T, venueID string, resIDs ...string)) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owner := ids.New()

	t.Run("create assigns id and empty reservations", func(t *testing.T) {
		v := &model.Venue{Name: "Loft", Price: 100, Capacity: 20, User: owner}
		require.NoError(t, repo.Create(ctx, v))

		assert.True(t, ids.Valid(v.ID))
		assert.Equal(t, owner, v.User)
		assert.Equal(t, []string{}, v.Reservations)
		assert.False(t, v.CreatedAt.IsZero())

		got, err := repo.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "Loft", got.Name)
		assert.Equal(t, 100.0, got.Price)
		assert.Equal(t, 20, got.Capacity)
		assert.Equal(t, []string{}, got.Offers)
	})

	t.Run("create enforces schema", func(t *testing.T) {
		err := repo.Create(ctx, &model.Venue{User: owner})
		assert.True(t, errors.Is(err, ErrInvalidVenue))
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, ids.New())
		assert.ErrorIs(t, err, ErrVenueNotFound)
	})

	t.Run("update replaces only supplied fields", func(t *testing.T) {
		v := &model.Venue{Name: "Barn", Description: "rustic", Price: 50, Capacity: 80, Offers: []string{"parking"}, User: owner}
		require.NoError(t, repo.Create(ctx, v))

		updated, err := repo.Update(ctx, v.ID, model.VenuePatch{Price: ptr(75.0), Offers: &[]string{"parking", "bar"}})
		require.NoError(t, err)

		assert.Equal(t, 75.0, updated.Price)
		assert.Equal(t, []string{"parking", "bar"}, updated.Offers)
		assert.Equal(t, "Barn", updated.Name)
		assert.Equal(t, "rustic", updated.Description)
		assert.Equal(t, 80, updated.Capacity)
		assert.Equal(t, owner, updated.User)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := repo.Update(ctx, ids.New(), model.VenuePatch{Name: ptr("x")})
		assert.ErrorIs(t, err, ErrVenueNotFound)
	})

	t.Run("delete then get", func(t *testing.T) {
		v := &model.Venue{Name: "Cellar", User: owner}
		require.NoError(t, repo.Create(ctx, v))

		require.NoError(t, repo.Delete(ctx, v.ID))
		_, err := repo.Get(ctx, v.ID)
		assert.ErrorIs(t, err, ErrVenueNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, v.ID), ErrVenueNotFound)
	})

	t.Run("list and expand reservations", func(t *testing.T) {
		before, err := repo.List(ctx)
		require.NoError(t, err)

		v := &model.Venue{Name: "Rooftop", User: owner}
		require.NoError(t, repo.Create(ctx, v))
		r1 := seed(t, v.ID, 2)
		r2 := seed(t, v.ID, 6)
		linkToVenue(t, v.ID, r1, r2)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(before)+1)

		expanded, err := repo.ExpandReservations(ctx, all...)
		require.NoError(t, err)
		require.Len(t, expanded, len(all))

		var found *model.VenueWithReservations
		for i := range expanded {
			if expanded[i].ID == v.ID {
				found = &expanded[i]
			}
		}
		require.NotNil(t, found)
		require.Len(t, found.Reservations, 2)
		assert.Equal(t, r1, found.Reservations[0].ID)
		assert.Equal(t, 2, found.Reservations[0].Guests)
		assert.Equal(t, r2, found.Reservations[1].ID)
	})
}
