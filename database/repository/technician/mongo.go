package technicianRepo

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

type mongoTechnicianRepo struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepo constructs a new MongoDB TechnicianRepository.
func NewMongoTechnicianRepo() TechnicianRepository {
	return &mongoTechnicianRepo{coll: database.DB().Collection("technicians")}
}

func (r *mongoTechnicianRepo) Create(ctx context.Context, tech *models.Technician) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tech); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("technician with employee id %s already exists", tech.EmployeeID)
		}
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

func (r *mongoTechnicianRepo) UpdateProfile(ctx context.Context, tech *models.Technician) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":             tech.Name,
		"specialization":   tech.Specialization,
		"maxDailyWorkload": tech.MaxDailyWorkload,
		"hourlyRate":       tech.HourlyRate,
		"experienceYears":  tech.ExperienceYears,
		"updatedAt":        time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": tech.ID}, update, opts).Decode(tech); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NewNotFoundError("technician", tech.ID)
		}
		return fmt.Errorf("failed to update technician %s: %w", tech.ID, err)
	}
	return nil
}

func (r *mongoTechnicianRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tech models.Technician
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tech); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("technician", id)
		}
		return nil, fmt.Errorf("error fetching technician %s: %w", id, err)
	}
	return &tech, nil
}

func (r *mongoTechnicianRepo) FindAll(ctx context.Context) ([]models.Technician, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "employeeId", Value: 1}})
}

func (r *mongoTechnicianRepo) FindActive(ctx context.Context) ([]models.Technician, error) {
	return r.find(ctx, bson.M{"active": true}, bson.D{{Key: "employeeId", Value: 1}})
}

func (r *mongoTechnicianRepo) FindAvailable(ctx context.Context) ([]models.Technician, error) {
	filter := bson.M{
		"active": true,
		"$expr":  bson.M{"$lt": bson.A{"$currentWorkload", "$maxDailyWorkload"}},
	}
	return r.find(ctx, filter, bson.D{{Key: "currentWorkload", Value: 1}, {Key: "employeeId", Value: 1}})
}

func (r *mongoTechnicianRepo) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to set technician %s active=%t: %w", id, active, err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("technician", id)
	}
	return nil
}

func (r *mongoTechnicianRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"employeeId": employeeID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check employee id: %w", err)
	}
	return n > 0, nil
}

func (r *mongoTechnicianRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Technician, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	defer cursor.Close(ctx)

	techs := make([]models.Technician, 0)
	if err := cursor.All(ctx, &techs); err != nil {
		return nil, fmt.Errorf("failed to decode technicians: %w", err)
	}
	return techs, nil
}
