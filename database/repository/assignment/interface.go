// File: database/repository/assignment/interface.go
package assignmentRepo

import (
	"context"

	"vehicleservice/models"
)

// AssignmentRepository persists technician assignments. Every write that starts
// or ends an active assignment moves the technician's workload in the same
// store operation, so the counter always equals the number of active rows.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	FindByBookingAndTechnician(ctx context.Context, bookingID, technicianID string) (*models.Assignment, error)
	FindByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error)
	FindActiveByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error)
	FindByBooking(ctx context.Context, bookingID string) ([]models.Assignment, error)
	FindAll(ctx context.Context) ([]models.Assignment, error)

	// CreateAndAcquire inserts an ASSIGNED row and adds one unit of workload.
	// A second row for the same (booking, technician) pair is a ConflictError.
	CreateAndAcquire(ctx context.Context, a *models.Assignment) error
	// Transition moves the row from -> to, releasing one unit of workload when an
	// active assignment becomes terminal. A row no longer in from is a ConflictError.
	Transition(ctx context.Context, id string, from, to models.AssignmentStatus) (*models.Assignment, error)
	// DeleteAndRelease removes the row, releasing workload if it was still active.
	DeleteAndRelease(ctx context.Context, id string) (*models.Assignment, error)
}

const duplicateAssignment = "Assignment already exists for this booking and technician"
