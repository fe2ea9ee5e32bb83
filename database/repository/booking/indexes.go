// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "bookingNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking_number"),
		},
		// Slot occupancy is always computed per local day.
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "minute", Value: 1}},
			Options: options.Index().SetName("date_minute_idx"),
		},
		{
			Keys:    bson.D{{Key: "bookingDate", Value: 1}},
			Options: options.Index().SetName("booking_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "paymentStatus", Value: 1}},
			Options: options.Index().SetName("payment_status_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
