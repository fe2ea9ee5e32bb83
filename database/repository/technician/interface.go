// File: database/repository/technician/interface.go
package technicianRepo

import (
	"context"

	"vehicleservice/models"
)

// TechnicianRepository persists technicians. CurrentWorkload is never written
// here; it changes only together with assignment rows (see assignmentRepo).
type TechnicianRepository interface {
	Create(ctx context.Context, tech *models.Technician) error
	// UpdateProfile writes the descriptive fields and leaves workload untouched.
	UpdateProfile(ctx context.Context, tech *models.Technician) error
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	FindAll(ctx context.Context) ([]models.Technician, error)
	FindActive(ctx context.Context) ([]models.Technician, error)
	// FindAvailable returns active technicians below their daily cap, least loaded first.
	FindAvailable(ctx context.Context) ([]models.Technician, error)
	SetActive(ctx context.Context, id string, active bool) error
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
}
