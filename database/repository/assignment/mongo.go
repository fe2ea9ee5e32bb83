package assignmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehicleservice/database"
	"vehicleservice/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAssignmentRepo struct {
	coll     *mongo.Collection
	techColl *mongo.Collection
}

// NewMongoAssignmentRepo constructs a new MongoDB AssignmentRepository.
// Workload writes need a replica set, since they run in a session transaction.
func NewMongoAssignmentRepo() AssignmentRepository {
	db := database.DB()
	return &mongoAssignmentRepo{
		coll:     db.Collection("assignments"),
		techColl: db.Collection("technicians"),
	}
}

func (r *mongoAssignmentRepo) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	return r.findOne(ctx, bson.M{"id": id}, id)
}

func (r *mongoAssignmentRepo) FindByBookingAndTechnician(ctx context.Context, bookingID, technicianID string) (*models.Assignment, error) {
	return r.findOne(ctx, bson.M{"bookingId": bookingID, "technicianId": technicianID}, bookingID+"/"+technicianID)
}

func (r *mongoAssignmentRepo) FindByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"technicianId": technicianID})
}

func (r *mongoAssignmentRepo) FindActiveByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{
		"technicianId": technicianID,
		"status":       bson.M{"$in": bson.A{models.AssignmentAssigned, models.AssignmentInProgress}},
	})
}

func (r *mongoAssignmentRepo) FindByBooking(ctx context.Context, bookingID string) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{"bookingId": bookingID})
}

func (r *mongoAssignmentRepo) FindAll(ctx context.Context) ([]models.Assignment, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoAssignmentRepo) CreateAndAcquire(ctx context.Context, a *models.Assignment) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, a); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.NewConflictError(duplicateAssignment)
			}
			return fmt.Errorf("insert assignment failed: %w", err)
		}
		return r.adjustWorkload(sc, a.TechnicianID, 1)
	})
}

func (r *mongoAssignmentRepo) Transition(ctx context.Context, id string, from, to models.AssignmentStatus) (*models.Assignment, error) {
	var out models.Assignment
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := r.coll.FindOneAndUpdate(sc, bson.M{"id": id, "status": from}, update, opts).Decode(&out); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("update assignment status failed: %w", err)
			}
			current, getErr := r.GetByID(sc, id)
			if getErr != nil {
				return getErr
			}
			return models.NewConflictError("assignment %s is %s, not %s", id, current.Status, from)
		}
		if from.Active() && to.Terminal() {
			return r.adjustWorkload(sc, out.TechnicianID, -1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *mongoAssignmentRepo) DeleteAndRelease(ctx context.Context, id string) (*models.Assignment, error) {
	var out models.Assignment
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.coll.FindOneAndDelete(sc, bson.M{"id": id}).Decode(&out); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.NewNotFoundError("assignment", id)
			}
			return fmt.Errorf("delete assignment failed: %w", err)
		}
		if out.Status.Active() {
			return r.adjustWorkload(sc, out.TechnicianID, -1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// adjustWorkload applies delta with an optimistic version check, flooring at 0.
// A missing technician is tolerated on release so orphaned rows can still be removed.
func (r *mongoAssignmentRepo) adjustWorkload(sc mongo.SessionContext, technicianID string, delta int) error {
	var tech models.Technician
	if err := r.techColl.FindOne(sc, bson.M{"id": technicianID}).Decode(&tech); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if delta < 0 {
				return nil
			}
			return models.NewNotFoundError("technician", technicianID)
		}
		return fmt.Errorf("load technician failed: %w", err)
	}

	workload := tech.CurrentWorkload + delta
	if workload < 0 {
		workload = 0
	}
	filter := bson.M{"id": technicianID, "version": tech.Version}
	update := bson.M{"$set": bson.M{
		"currentWorkload": workload,
		"version":         tech.Version + 1,
		"updatedAt":       time.Now(),
	}}
	res, err := r.techColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("update technician workload failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.NewConflictError("technician %s was modified concurrently", technicianID)
	}
	return nil
}

func (r *mongoAssignmentRepo) withTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *mongoAssignmentRepo) findOne(ctx context.Context, filter bson.M, key string) (*models.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.Assignment
	if err := r.coll.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("assignment", key)
		}
		return nil, fmt.Errorf("error fetching assignment %s: %w", key, err)
	}
	return &a, nil
}

func (r *mongoAssignmentRepo) find(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "assignmentDate", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Assignment, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	return out, nil
}
