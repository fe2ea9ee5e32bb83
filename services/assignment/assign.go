package assignment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vehicleservice/models"
)

// Assign creates an ASSIGNED row and takes one unit of the technician's workload.
// The daily maximum is reported by stats but not enforced here.
func (a *DefaultWorkloadAllocator) Assign(ctx context.Context, in models.AssignmentInput, assignedBy string) (*models.Assignment, error) {
	bookingID := strings.TrimSpace(in.BookingID)
	technicianID := strings.TrimSpace(in.TechnicianID)
	if bookingID == "" {
		return nil, models.NewValidationError("bookingId", "booking id is required")
	}
	if technicianID == "" {
		return nil, models.NewValidationError("technicianId", "technician id is required")
	}

	if _, err := a.Bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	unlock := a.lockTechnician(technicianID)
	defer unlock()

	tech, err := a.Technicians.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if !tech.Active {
		return nil, models.NewConflictError("technician %s is inactive", technicianID)
	}
	if _, err := a.Assignments.FindByBookingAndTechnician(ctx, bookingID, technicianID); err == nil {
		return nil, models.NewConflictError("Assignment already exists for this booking and technician")
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	now := a.now()
	row := &models.Assignment{
		ID:             uuid.New().String(),
		BookingID:      bookingID,
		TechnicianID:   technicianID,
		AssignedBy:     assignedBy,
		AssignmentDate: now,
		Status:         models.AssignmentAssigned,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.AssignmentDate != nil {
		row.AssignmentDate = *in.AssignmentDate
	}
	if err := a.Assignments.CreateAndAcquire(ctx, row); err != nil {
		return nil, err
	}
	// DeleteBooking removes the booking before its assignments, so a booking
	// still present here will have this row swept along with it.
	if _, err := a.Bookings.GetByID(ctx, bookingID); err != nil {
		if _, rbErr := a.Assignments.DeleteAndRelease(ctx, row.ID); rbErr != nil && !models.IsNotFound(rbErr) {
			a.Logger.Error("assignment rollback failed",
				zap.String("assignment", row.ID),
				zap.String("booking", bookingID),
				zap.Error(rbErr))
		}
		return nil, err
	}

	if tech.CurrentWorkload+1 > tech.MaxDailyWorkload {
		a.Logger.Warn("technician over daily workload",
			zap.String("technician", technicianID),
			zap.Int("workload", tech.CurrentWorkload+1),
			zap.Int("max", tech.MaxDailyWorkload))
	}
	a.Logger.Info("technician assigned",
		zap.String("assignment", row.ID),
		zap.String("booking", bookingID),
		zap.String("technician", technicianID),
		zap.String("assignedBy", assignedBy))
	return row, nil
}

func (a *DefaultWorkloadAllocator) StartAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	return a.UpdateAssignmentStatus(ctx, id, models.AssignmentInProgress)
}

// CompleteAssignment releases the technician's unit of workload.
func (a *DefaultWorkloadAllocator) CompleteAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	return a.UpdateAssignmentStatus(ctx, id, models.AssignmentCompleted)
}

func (a *DefaultWorkloadAllocator) CancelAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	return a.UpdateAssignmentStatus(ctx, id, models.AssignmentCancelled)
}

// UpdateAssignmentStatus follows ASSIGNED -> IN_PROGRESS -> COMPLETED, with
// CANCELLED from either non-terminal state. Setting the current status is a no-op.
func (a *DefaultWorkloadAllocator) UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.Assignment, error) {
	status = models.AssignmentStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown assignment status %q", status)
	}

	current, err := a.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock := a.lockTechnician(current.TechnicianID)
	defer unlock()

	// Re-read under the lock; another writer may have moved it.
	current, err = a.Assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if !current.Status.CanTransition(status) {
		return nil, models.NewConflictError("cannot move assignment %s from %s to %s", id, current.Status, status)
	}

	updated, err := a.Assignments.Transition(ctx, id, current.Status, status)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("assignment status changed",
		zap.String("assignment", id),
		zap.String("technician", updated.TechnicianID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))
	return updated, nil
}

// RemoveAssignment deletes the row, releasing workload if it was still active.
func (a *DefaultWorkloadAllocator) RemoveAssignment(ctx context.Context, id string) error {
	current, err := a.Assignments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return a.remove(ctx, current)
}

// DeleteAssignmentsByBooking removes every assignment of a booking.
func (a *DefaultWorkloadAllocator) DeleteAssignmentsByBooking(ctx context.Context, bookingID string) (int, error) {
	rows, err := a.Assignments.FindByBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range rows {
		if err := a.remove(ctx, &rows[i]); err != nil {
			if models.IsNotFound(err) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (a *DefaultWorkloadAllocator) remove(ctx context.Context, row *models.Assignment) error {
	unlock := a.lockTechnician(row.TechnicianID)
	defer unlock()

	deleted, err := a.Assignments.DeleteAndRelease(ctx, row.ID)
	if err != nil {
		return err
	}
	a.Logger.Info("assignment removed",
		zap.String("assignment", deleted.ID),
		zap.String("booking", deleted.BookingID),
		zap.String("technician", deleted.TechnicianID),
		zap.Bool("released", deleted.Status.Active()))
	return nil
}
