package model

import "time"

// Venue represents a bookable place listed by a user. The JSON field
// names match the document shape clients already consume, so the
// identifier is exposed as `_id` and the image as `imageUrl`.
//
// Fields:
//  ID           – store-assigned identifier (24 hex characters).
//  Name         – display name; the only required field.
//  Description  – free text.
//  Address      – free text.
//  Price        – price per booking, never negative.
//  Capacity     – number of guests, never negative.
//  ImageURL     – URL of the venue picture, usually produced by /upload.
//  Offers       – unordered list of amenities.
//  Reservations – ordered reservation identifiers.
//  User         – identifier of the owner; set at creation and never changed.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Venue struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name" validate:"required"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Price        float64   `json:"price" validate:"gte=0"`
	Capacity     int       `json:"capacity" validate:"gte=0"`
	ImageURL     string    `json:"imageUrl" validate:"omitempty,url"`
	Offers       []string  `json:"offers"`
	Reservations []string  `json:"reservations"`
	User         string    `json:"user" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize replaces nil collections with empty ones so they serialize
// as [] instead of null.
func (v *Venue) Normalize() {
	if v.Offers == nil {
		v.Offers = []string{}
	}
	if v.Reservations == nil {
		v.Reservations = []string{}
	}
}

// VenueWithReservations is a venue whose reservation identifiers have been
// resolved into full records. The outer Reservations field shadows the
// embedded identifier list when encoded as JSON.
type VenueWithReservations struct {
	Venue
	Reservations []Reservation `json:"reservations"`
}

// VenuePatch carries the fields a venue update may replace. Nil pointers
// mean "leave unchanged". Owner, reservations, identifier and timestamps
// have no field here, so an update body cannot change them.
type VenuePatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	Price       *float64  `json:"price"`
	Capacity    *int      `json:"capacity"`
	ImageURL    *string   `json:"imageUrl"`
	Offers      *[]string `json:"offers"`
}

// Empty reports whether the patch changes nothing.
func (p VenuePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil &&
		p.Price == nil && p.Capacity == nil && p.ImageURL == nil && p.Offers == nil
}

// Apply copies every supplied field onto v.
func (p VenuePatch) Apply(v *Venue) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Address != nil {
		v.Address = *p.Address
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.Capacity != nil {
		v.Capacity = *p.Capacity
	}
	if p.ImageURL != nil {
		v.ImageURL = *p.ImageURL
	}
	if p.Offers != nil {
		v.Offers = append([]string{}, (*p.Offers)...)
	}
}
