// Package repository defines error types that are reused across the store
// backends. These sentinel values allow higher layers such as handlers to
// distinguish a missing record from a failing store.
package repository

import "errors"

// ErrVenueNotFound is returned when no venue has the requested identifier.
var ErrVenueNotFound = errors.New("venue not found")

// ErrUserNotFound is returned when no user has the requested identifier
// or email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when signing up with an email that is
// already registered. Handlers should translate this into a 409.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidVenue is returned by Create when the venue does not satisfy
// the stored schema. Like any other store failure it surfaces as a 500.
var ErrInvalidVenue = errors.New("venue validation failed")
