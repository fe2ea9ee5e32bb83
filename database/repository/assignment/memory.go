package assignmentRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	technicianRepo "vehicleservice/database/repository/technician"
	"vehicleservice/models"
)

// MemoryAssignmentRepo keeps assignments in process and adjusts workload on the
// paired MemoryTechnicianRepo while holding its own lock.
type MemoryAssignmentRepo struct {
	mu          sync.RWMutex
	assignments map[string]models.Assignment
	techs       *technicianRepo.MemoryTechnicianRepo
}

func NewMemoryAssignmentRepo(techs *technicianRepo.MemoryTechnicianRepo) *MemoryAssignmentRepo {
	return &MemoryAssignmentRepo{
		assignments: make(map[string]models.Assignment),
		techs:       techs,
	}
}

func (r *MemoryAssignmentRepo) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, models.NewNotFoundError("assignment", id)
	}
	return &a, nil
}

func (r *MemoryAssignmentRepo) FindByBookingAndTechnician(_ context.Context, bookingID, technicianID string) (*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assignments {
		if a.BookingID == bookingID && a.TechnicianID == technicianID {
			return &a, nil
		}
	}
	return nil, models.NewNotFoundError("assignment", bookingID+"/"+technicianID)
}

func (r *MemoryAssignmentRepo) FindByTechnician(_ context.Context, technicianID string) ([]models.Assignment, error) {
	return r.collect(func(a models.Assignment) bool { return a.TechnicianID == technicianID }), nil
}

func (r *MemoryAssignmentRepo) FindActiveByTechnician(_ context.Context, technicianID string) ([]models.Assignment, error) {
	return r.collect(func(a models.Assignment) bool { return a.TechnicianID == technicianID && a.Status.Active() }), nil
}

func (r *MemoryAssignmentRepo) FindByBooking(_ context.Context, bookingID string) ([]models.Assignment, error) {
	return r.collect(func(a models.Assignment) bool { return a.BookingID == bookingID }), nil
}

func (r *MemoryAssignmentRepo) FindAll(context.Context) ([]models.Assignment, error) {
	return r.collect(func(models.Assignment) bool { return true }), nil
}

func (r *MemoryAssignmentRepo) CreateAndAcquire(_ context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.assignments {
		if existing.BookingID == a.BookingID && existing.TechnicianID == a.TechnicianID {
			return models.NewConflictError(duplicateAssignment)
		}
	}
	if err := r.techs.AdjustWorkload(a.TechnicianID, 1); err != nil {
		return err
	}
	r.assignments[a.ID] = *a
	return nil
}

func (r *MemoryAssignmentRepo) Transition(_ context.Context, id string, from, to models.AssignmentStatus) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, models.NewNotFoundError("assignment", id)
	}
	if a.Status != from {
		return nil, models.NewConflictError("assignment %s is %s, not %s", id, a.Status, from)
	}
	if from.Active() && to.Terminal() {
		if err := r.techs.AdjustWorkload(a.TechnicianID, -1); err != nil && !models.IsNotFound(err) {
			return nil, err
		}
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.assignments[id] = a
	return &a, nil
}

func (r *MemoryAssignmentRepo) DeleteAndRelease(_ context.Context, id string) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, models.NewNotFoundError("assignment", id)
	}
	if a.Status.Active() {
		if err := r.techs.AdjustWorkload(a.TechnicianID, -1); err != nil && !models.IsNotFound(err) {
			return nil, err
		}
	}
	delete(r.assignments, id)
	return &a, nil
}

func (r *MemoryAssignmentRepo) collect(keep func(models.Assignment) bool) []models.Assignment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Assignment, 0)
	for _, a := range r.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AssignmentDate.Equal(out[j].AssignmentDate) {
			return out[i].AssignmentDate.Before(out[j].AssignmentDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
