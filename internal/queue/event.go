// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/venues-api/internal/model"
)

// Venue lifecycle event types.
const (
	VenueCreated = "venue.created"
	VenueUpdated = "venue.updated"
	VenueDeleted = "venue.deleted"
)

// VenueEvent is published after a venue has been created, updated or
// deleted. It carries enough for downstream consumers to log or index the
// change without reading the store.
type VenueEvent struct {
	Type       string `json:"type"`
	VenueID    string `json:"venue_id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
}

// NewVenueEvent builds an event of the given type for v, stamped now.
func NewVenueEvent(typ string, v *model.Venue) VenueEvent {
	return VenueEvent{
		Type:       typ,
		VenueID:    v.ID,
		UserID:     v.User,
		Name:       v.Name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
