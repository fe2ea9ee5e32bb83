// FILE: database/repository/assignment/indexes.go
package assignmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the assignments collection.
func (r *mongoAssignmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One row per (booking, technician) pair.
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}, {Key: "technicianId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_booking_technician"),
		},
		{
			Keys:    bson.D{{Key: "technicianId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("technician_status_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create assignment indexes: %w", err)
	}
	return nil
}
