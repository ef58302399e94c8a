package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/venues-api/internal/model"
)

// Collection names shared by the Mongo repositories.
const (
	venuesCollection       = "venues"
	reservationsCollection = "reservations"
	usersCollection        = "users"
)

// venueDoc is the stored shape of a venue. Owner and reservations are
// ObjectID references so other collections can join on them.
type venueDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description"`
	Address      string               `bson:"address"`
	Price        float64              `bson:"price"`
	Capacity     int                  `bson:"capacity"`
	ImageURL     string               `bson:"imageUrl"`
	Offers       []string             `bson:"offers"`
	Reservations []primitive.ObjectID `bson:"reservations"`
	User         primitive.ObjectID   `bson:"user"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (d venueDoc) toModel() model.Venue {
	v := model.Venue{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Address:     d.Address,
		Price:       d.Price,
		Capacity:    d.Capacity,
		ImageURL:    d.ImageURL,
		Offers:      d.Offers,
		User:        d.User.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	v.Reservations = make([]string, 0, len(d.Reservations))
	for _, id := range d.Reservations {
		v.Reservations = append(v.Reservations, id.Hex())
	}
	v.Normalize()
	return v
}

type reservationDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Venue     primitive.ObjectID `bson:"venue"`
	User      primitive.ObjectID `bson:"user"`
	StartDate time.Time          `bson:"startDate"`
	EndDate   time.Time          `bson:"endDate"`
	Guests    int                `bson:"guests"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d reservationDoc) toModel() model.Reservation {
	return model.Reservation{
		ID:        d.ID.Hex(),
		Venue:     d.Venue.Hex(),
		User:      d.User.Hex(),
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Guests:    d.Guests,
		CreatedAt: d.CreatedAt,
	}
}

// MongoVenueRepo stores venues as documents in the "venues" collection and
// resolves reservations from the "reservations" collection.
type MongoVenueRepo struct {
	venues       *mongo.Collection
	reservations *mongo.Collection
}

// NewMongoVenueRepo constructs a MongoVenueRepo on db.
func NewMongoVenueRepo(db *mongo.Database) *MongoVenueRepo {
	return &MongoVenueRepo{
		venues:       db.Collection(venuesCollection),
		reservations: db.Collection(reservationsCollection),
	}
}

// now is truncated to the millisecond precision BSON dates keep, so the
// value returned to the caller equals the one read back later.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create inserts v with an empty reservation list unless one was given.
func (r *MongoVenueRepo) Create(ctx context.Context, v *model.Venue) error {
	v.Normalize()
	if err := validateVenue(v); err != nil {
		return err
	}
	owner, err := primitive.ObjectIDFromHex(v.User)
	if err != nil {
		return fmt.Errorf("%w: user: %v", ErrInvalidVenue, err)
	}
	resIDs, err := objectIDs(v.Reservations)
	if err != nil {
		return fmt.Errorf("%w: reservations: %v", ErrInvalidVenue, err)
	}

	ts := now()
	doc := venueDoc{
		ID:           primitive.NewObjectID(),
		Name:         v.Name,
		Description:  v.Description,
		Address:      v.Address,
		Price:        v.Price,
		Capacity:     v.Capacity,
		ImageURL:     v.ImageURL,
		Offers:       v.Offers,
		Reservations: resIDs,
		User:         owner,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.venues.InsertOne(ctx, doc); err != nil {
		return err
	}
	v.ID = doc.ID.Hex()
	v.CreatedAt, v.UpdatedAt = ts, ts
	return nil
}

// List returns all venues ordered by identifier, which for ObjectIDs is
// insertion order.
func (r *MongoVenueRepo) List(ctx context.Context) ([]model.Venue, error) {
	cur, err := r.venues.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []venueDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Venue, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// Get fetches a venue by identifier.
func (r *MongoVenueRepo) Get(ctx context.Context, id string) (*model.Venue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	var doc venueDoc
	if err := r.venues.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	v := doc.toModel()
	return &v, nil
}

// Update sets the supplied fields and returns the document after the
// update.
func (r *MongoVenueRepo) Update(ctx context.Context, id string, p model.VenuePatch) (*model.Venue, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	set := bson.M{"updatedAt": now()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Capacity != nil {
		set["capacity"] = *p.Capacity
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.Offers != nil {
		offers := *p.Offers
		if offers == nil {
			offers = []string{}
		}
		set["offers"] = offers
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc venueDoc
	err = r.venues.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	v := doc.toModel()
	return &v, nil
}

// Delete removes a venue. Reservations that referenced it are left alone.
func (r *MongoVenueRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrVenueNotFound
	}
	res, err := r.venues.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// ExpandReservations loads every referenced reservation with a single $in
// query.
func (r *MongoVenueRepo) ExpandReservations(ctx context.Context, venues ...model.Venue) ([]model.VenueWithReservations, error) {
	byID := make(map[string]model.Reservation)
	ids := reservationIDs(venues)
	if len(ids) > 0 {
		oids, err := objectIDs(ids)
		if err != nil {
			return nil, err
		}
		cur, err := r.reservations.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
		if err != nil {
			return nil, err
		}
		var docs []reservationDoc
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		for _, d := range docs {
			byID[d.ID.Hex()] = d.toModel()
		}
	}
	return expandInOrder(venues, byID), nil
}

func objectIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}
