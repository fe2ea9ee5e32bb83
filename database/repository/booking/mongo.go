package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"vehicleservice/database"
	"vehicleservice/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{coll: database.DB().Collection("bookings")}
}

var byDate = options.Find().SetSort(bson.D{{Key: "bookingDate", Value: 1}})

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("booking number %s already exists", booking.BookingNumber)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	current := booking.Version
	next := *booking
	next.Version = current + 1
	next.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID, "version": current}, next)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, booking.ID); err != nil {
			return err
		}
		return models.NewConflictError("booking %s was modified concurrently", booking.ID)
	}
	*booking = next
	return nil
}

func (r *mongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("booking", id)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("booking", id)
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) FindByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *mongoBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoBookingRepo) Find(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	return r.find(ctx, filterDocument(f))
}

func (r *mongoBookingRepo) ExistsByBookingNumber(ctx context.Context, number string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"bookingNumber": number}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check booking number: %w", err)
	}
	return n > 0, nil
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, byDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func filterDocument(f models.BookingFilter) bson.M {
	filter := bson.M{}
	contains := func(s string) bson.M {
		return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	}
	if f.Keyword != "" {
		filter["$or"] = bson.A{
			bson.M{"customerName": contains(f.Keyword)},
			bson.M{"vehicleNumber": contains(f.Keyword)},
			bson.M{"bookingNumber": contains(f.Keyword)},
		}
	}
	if f.CustomerName != "" {
		filter["customerName"] = contains(f.CustomerName)
	}
	if f.VehicleNumber != "" {
		filter["vehicleNumber"] = contains(f.VehicleNumber)
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		filter["bookingDate"] = rng
	}
	return filter
}
