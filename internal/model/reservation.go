package model

import "time"

// Reservation records a user's booking of a venue. Venues reference
// reservations by identifier; read endpoints resolve those identifiers
// into these records.
//
// Fields:
//  ID        – store-assigned identifier.
//  Venue     – identifier of the booked venue.
//  User      – identifier of the guest who booked.
//  StartDate – first day of the booking.
//  EndDate   – last day of the booking.
//  Guests    – number of guests.
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        string    `json:"_id"`
	Venue     string    `json:"venue"`
	User      string    `json:"user"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Guests    int       `json:"guests"`
	CreatedAt time.Time `json:"createdAt"`
}
