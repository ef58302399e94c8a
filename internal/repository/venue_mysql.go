package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/venues-api/internal/ids"
	"github.com/iliyamo/venues-api/internal/model"
)

// MySQLVenueRepo encapsulates all queries related to venues on MySQL.
// Offers are stored as a JSON column; reservations live in their own
// table and point back at the venue, ordered by creation time.
type MySQLVenueRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewMySQLVenueRepo constructs a MySQLVenueRepo with the provided DB handle.
func NewMySQLVenueRepo(db *sql.DB) *MySQLVenueRepo {
	return &MySQLVenueRepo{db: db}
}

const venueColumns = "id, user_id, name, description, address, price, capacity, image_url, offers, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(s rowScanner) (model.Venue, error) {
	var (
		v      model.Venue
		offers []byte
	)
	err := s.Scan(&v.ID, &v.User, &v.Name, &v.Description, &v.Address, &v.Price,
		&v.Capacity, &v.ImageURL, &offers, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	if len(offers) > 0 {
		if err := json.Unmarshal(offers, &v.Offers); err != nil {
			return v, fmt.Errorf("decode offers of venue %s: %w", v.ID, err)
		}
	}
	return v, nil
}

// Create inserts a new venue. Reservations are rows of their own, so any
// identifiers on v are not persisted here.
func (r *MySQLVenueRepo) Create(ctx context.Context, v *model.Venue) error {
	v.Normalize()
	if err := validateVenue(v); err != nil {
		return err
	}
	offers, err := json.Marshal(v.Offers)
	if err != nil {
		return err
	}
	v.ID = ids.New()
	ts := now()
	const q = "INSERT INTO venues (" + venueColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, q, v.ID, v.User, v.Name, v.Description, v.Address,
		v.Price, v.Capacity, v.ImageURL, offers, ts, ts)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	v.CreatedAt, v.UpdatedAt = ts, ts
	v.Reservations = []string{}
	return nil
}

// List returns all venues ordered by creation time.
func (r *MySQLVenueRepo) List(ctx context.Context) ([]model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues ORDER BY created_at, id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachReservationIDs(ctx, out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Venue{}
	}
	return out, nil
}

// Get fetches a venue by its ID. It returns ErrVenueNotFound if no row is
// found.
func (r *MySQLVenueRepo) Get(ctx context.Context, id string) (*model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	list := []model.Venue{v}
	if err := r.attachReservationIDs(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Update writes the supplied columns and re-reads the row.
func (r *MySQLVenueRepo) Update(ctx context.Context, id string, p model.VenuePatch) (*model.Venue, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	add := func(col string, val any) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.Capacity != nil {
		add("capacity", *p.Capacity)
	}
	if p.ImageURL != nil {
		add("image_url", *p.ImageURL)
	}
	if p.Offers != nil {
		offers := *p.Offers
		if offers == nil {
			offers = []string{}
		}
		raw, err := json.Marshal(offers)
		if err != nil {
			return nil, err
		}
		add("offers", raw)
	}
	args = append(args, id)

	q := "UPDATE venues SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	// RowsAffected is 0 for unchanged rows as well, so existence is decided
	// by reading the row back.
	return r.Get(ctx, id)
}

// Delete removes the venue row. Reservation rows are not touched.
func (r *MySQLVenueRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM venues WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// ExpandReservations fetches all referenced reservations in one IN query.
func (r *MySQLVenueRepo) ExpandReservations(ctx context.Context, venues ...model.Venue) ([]model.VenueWithReservations, error) {
	byID := make(map[string]model.Reservation)
	resIDs := reservationIDs(venues)
	if len(resIDs) > 0 {
		q := `SELECT id, venue_id, user_id, start_date, end_date, guests, created_at
		      FROM reservations WHERE id IN (` + placeholders(len(resIDs)) + `)`
		rows, err := r.db.QueryContext(ctx, q, toArgs(resIDs)...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var res model.Reservation
			if err := rows.Scan(&res.ID, &res.Venue, &res.User, &res.StartDate,
				&res.EndDate, &res.Guests, &res.CreatedAt); err != nil {
				return nil, err
			}
			byID[res.ID] = res
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return expandInOrder(venues, byID), nil
}

// attachReservationIDs fills the Reservations field of each venue from the
// reservations table using one query for the whole batch.
func (r *MySQLVenueRepo) attachReservationIDs(ctx context.Context, venues []model.Venue) error {
	if len(venues) == 0 {
		return nil
	}
	idx := make(map[string]int, len(venues))
	venueIDs := make([]string, 0, len(venues))
	for i := range venues {
		venues[i].Reservations = []string{}
		idx[venues[i].ID] = i
		venueIDs = append(venueIDs, venues[i].ID)
	}
	q := `SELECT id, venue_id FROM reservations
	      WHERE venue_id IN (` + placeholders(len(venueIDs)) + `)
	      ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, toArgs(venueIDs)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var resID, venueID string
		if err := rows.Scan(&resID, &venueID); err != nil {
			return err
		}
		if i, ok := idx[venueID]; ok {
			venues[i].Reservations = append(venues[i].Reservations, resID)
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
