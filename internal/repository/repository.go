package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/venues-api/internal/model"
)

// VenueRepository is the persistence contract for venues. Implementations
// exist for MongoDB and MySQL; handlers depend only on this interface.
type VenueRepository interface {
	// Create stores v, assigning its identifier and timestamps.
	Create(ctx context.Context, v *model.Venue) error
	// List returns every venue in insertion order.
	List(ctx context.Context) ([]model.Venue, error)
	// Get returns the venue or ErrVenueNotFound.
	Get(ctx context.Context, id string) (*model.Venue, error)
	// Update applies p and returns the stored result, or ErrVenueNotFound.
	Update(ctx context.Context, id string, p model.VenuePatch) (*model.Venue, error)
	// Delete removes the venue or returns ErrVenueNotFound.
	Delete(ctx context.Context, id string) error
	// ExpandReservations resolves the reservation identifiers of each venue
	// into full records, preserving order. Unknown identifiers are skipped.
	ExpandReservations(ctx context.Context, venues ...model.Venue) ([]model.VenueWithReservations, error)
}

// UserRepository stores the accounts that own venues.
type UserRepository interface {
	// Create stores u, assigning its identifier. Returns ErrEmailExists on
	// a duplicate email.
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

var schema = validator.New()

// validateVenue enforces the stored venue schema before an insert.
func validateVenue(v *model.Venue) error {
	err := schema.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidVenue, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: failed %q", jsonFieldName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidVenue, strings.Join(parts, ", "))
}

// jsonFieldName maps Go field names to the names clients send.
func jsonFieldName(field string) string {
	switch field {
	case "ImageURL":
		return "imageUrl"
	case "":
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// expandInOrder builds expanded venues from a lookup table of reservations,
// keeping each venue's reservation order and skipping dangling ids.
func expandInOrder(venues []model.Venue, byID map[string]model.Reservation) []model.VenueWithReservations {
	out := make([]model.VenueWithReservations, 0, len(venues))
	for _, v := range venues {
		v.Normalize()
		res := make([]model.Reservation, 0, len(v.Reservations))
		for _, id := range v.Reservations {
			if r, ok := byID[id]; ok {
				res = append(res, r)
			}
		}
		out = append(out, model.VenueWithReservations{Venue: v, Reservations: res})
	}
	return out
}

// reservationIDs returns the distinct reservation identifiers referenced by
// venues.
func reservationIDs(venues []model.Venue) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, v := range venues {
		for _, id := range v.Reservations {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
