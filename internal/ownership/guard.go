// Package ownership decides whether a caller may mutate a venue.
package ownership

import (
	"errors"

	"github.com/iliyamo/venues-api/internal/model"
)

var (
	// ErrNotFound is returned when there is no venue to check against.
	ErrNotFound = errors.New("venue not found")
	// ErrNotOwner is returned when the caller is not the venue's owner.
	ErrNotOwner = errors.New("caller does not own venue")
)

// Check permits the mutation only when callerID equals the owner of v.
// A nil venue is refused with ErrNotFound rather than allowed through.
func Check(callerID string, v *model.Venue) error {
	if v == nil {
		return ErrNotFound
	}
	if callerID == "" || callerID != v.User {
		return ErrNotOwner
	}
	return nil
}
