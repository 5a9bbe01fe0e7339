package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carebook/database"
	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("carebook")
	return &MongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}

// ListBookingsForChild retrieves confirmed and pending sessions for a child.
func (r *MongoBookingRepo) ListBookingsForChild(childID string) ([]models.ExistingBooking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"child_id": childID,
		"status":   bson.M{"$in": []string{"Confirmed", "Pending"}},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []models.ExistingBooking{}, nil
		}
		return nil, fmt.Errorf("error listing bookings for child %s: %w", childID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.ExistingBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.ExistingBooking{}
	}
	return bookings, nil
}

// ListBookedDatesForChild returns the distinct dates the child already has
// sessions on, in "YYYY-MM-DD" form.
func (r *MongoBookingRepo) ListBookedDatesForChild(childID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"child_id": childID,
		"status":   bson.M{"$in": []string{"Confirmed", "Pending"}},
	}
	raw, err := r.coll.Distinct(ctx, "date", filter)
	if err != nil {
		return nil, fmt.Errorf("error listing booked dates for child %s: %w", childID, err)
	}

	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	return dates, nil
}

// CreateBooking inserts a new booking document.
func (r *MongoBookingRepo) CreateBooking(booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}
