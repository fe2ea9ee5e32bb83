package assignment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vehicleservice/models"
)

// CreateTechnician registers an active technician with no workload.
func (a *DefaultWorkloadAllocator) CreateTechnician(ctx context.Context, in models.TechnicianInput) (*models.Technician, error) {
	if err := validateTechnician(&in); err != nil {
		return nil, err
	}
	exists, err := a.Technicians.ExistsByEmployeeID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("technician with employee id %s already exists", in.EmployeeID)
	}

	maxLoad := in.MaxDailyWorkload
	if maxLoad == 0 {
		maxLoad = a.DefaultMaxWorkload
	}
	now := a.now()
	tech := &models.Technician{
		ID:               uuid.New().String(),
		UserRef:          in.UserRef,
		EmployeeID:       in.EmployeeID,
		Name:             in.Name,
		Specialization:   in.Specialization,
		MaxDailyWorkload: maxLoad,
		HourlyRate:       in.HourlyRate,
		ExperienceYears:  in.ExperienceYears,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.Technicians.Create(ctx, tech); err != nil {
		return nil, err
	}
	a.Logger.Info("technician created", zap.String("technician", tech.ID), zap.String("employeeId", tech.EmployeeID))
	return tech, nil
}

// UpdateTechnician changes profile fields; employee id and workload stay as they are.
func (a *DefaultWorkloadAllocator) UpdateTechnician(ctx context.Context, id string, in models.TechnicianInput) (*models.Technician, error) {
	current, err := a.Technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.EmployeeID = current.EmployeeID
	if err := validateTechnician(&in); err != nil {
		return nil, err
	}
	if in.MaxDailyWorkload == 0 {
		in.MaxDailyWorkload = current.MaxDailyWorkload
	}
	current.Name = in.Name
	current.Specialization = in.Specialization
	current.MaxDailyWorkload = in.MaxDailyWorkload
	current.HourlyRate = in.HourlyRate
	current.ExperienceYears = in.ExperienceYears
	if err := a.Technicians.UpdateProfile(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// DeactivateTechnician is a soft delete; existing assignments are kept.
func (a *DefaultWorkloadAllocator) DeactivateTechnician(ctx context.Context, id string) error {
	if err := a.Technicians.SetActive(ctx, id, false); err != nil {
		return err
	}
	a.Logger.Info("technician deactivated", zap.String("technician", id))
	return nil
}

func (a *DefaultWorkloadAllocator) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	return a.Technicians.GetByID(ctx, id)
}

func (a *DefaultWorkloadAllocator) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	return a.Technicians.FindAll(ctx)
}

func (a *DefaultWorkloadAllocator) ActiveTechnicians(ctx context.Context) ([]models.Technician, error) {
	return a.Technicians.FindActive(ctx)
}

// AvailableTechnicians lists active technicians under their cap, least loaded first.
func (a *DefaultWorkloadAllocator) AvailableTechnicians(ctx context.Context) ([]models.Technician, error) {
	return a.Technicians.FindAvailable(ctx)
}

func validateTechnician(in *models.TechnicianInput) error {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	switch {
	case in.EmployeeID == "":
		return models.NewValidationError("employeeId", "employee id is required")
	case in.MaxDailyWorkload < 0:
		return models.NewValidationError("maxDailyWorkload", "max daily workload cannot be negative")
	case in.HourlyRate.IsNegative():
		return models.NewValidationError("hourlyRate", "hourly rate cannot be negative")
	case in.ExperienceYears < 0:
		return models.NewValidationError("experienceYears", "experience years cannot be negative")
	}
	return nil
}
