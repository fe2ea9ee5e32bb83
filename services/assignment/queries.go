package assignment

import (
	"context"

	"vehicleservice/models"
)

func (a *DefaultWorkloadAllocator) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	return a.Assignments.GetByID(ctx, id)
}

func (a *DefaultWorkloadAllocator) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return a.Assignments.FindAll(ctx)
}

func (a *DefaultWorkloadAllocator) AssignmentsByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error) {
	return a.Assignments.FindByTechnician(ctx, technicianID)
}

func (a *DefaultWorkloadAllocator) ActiveAssignmentsByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error) {
	return a.Assignments.FindActiveByTechnician(ctx, technicianID)
}

func (a *DefaultWorkloadAllocator) AssignmentsByBooking(ctx context.Context, bookingID string) ([]models.Assignment, error) {
	return a.Assignments.FindByBooking(ctx, bookingID)
}

// TechnicianStats counts the technician's assignments by status.
func (a *DefaultWorkloadAllocator) TechnicianStats(ctx context.Context, id string) (*models.TechnicianWorkloadStats, error) {
	tech, err := a.Technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := a.Assignments.FindByTechnician(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.TechnicianWorkloadStats{
		TechnicianID:     id,
		CurrentWorkload:  tech.CurrentWorkload,
		MaxDailyWorkload: tech.MaxDailyWorkload,
	}
	for _, r := range rows {
		switch r.Status {
		case models.AssignmentAssigned:
			stats.Assigned++
		case models.AssignmentInProgress:
			stats.InProgress++
		case models.AssignmentCompleted:
			stats.Completed++
		case models.AssignmentCancelled:
			stats.Cancelled++
		}
	}
	if tech.MaxDailyWorkload > 0 {
		stats.Utilization = float64(tech.CurrentWorkload) / float64(tech.MaxDailyWorkload)
	}
	return stats, nil
}

func (a *DefaultWorkloadAllocator) TechnicianWithAssignments(ctx context.Context, id string) (*models.TechnicianWithAssignments, error) {
	tech, err := a.Technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := a.Assignments.FindByTechnician(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.TechnicianWithAssignments{Technician: *tech, Assignments: rows}, nil
}

// AllTechniciansWithAssignments covers active technicians only.
func (a *DefaultWorkloadAllocator) AllTechniciansWithAssignments(ctx context.Context) ([]models.TechnicianWithAssignments, error) {
	techs, err := a.Technicians.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TechnicianWithAssignments, 0, len(techs))
	for _, t := range techs {
		rows, err := a.Assignments.FindByTechnician(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TechnicianWithAssignments{Technician: t, Assignments: rows})
	}
	return out, nil
}
