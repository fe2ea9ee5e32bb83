package technicianRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"vehicleservice/models"
)

// MemoryTechnicianRepo is an in-process TechnicianRepository. It also exposes
// AdjustWorkload for the memory assignment store.
type MemoryTechnicianRepo struct {
	mu    sync.RWMutex
	techs map[string]models.Technician
}

func NewMemoryTechnicianRepo() *MemoryTechnicianRepo {
	return &MemoryTechnicianRepo{techs: make(map[string]models.Technician)}
}

func (r *MemoryTechnicianRepo) Create(_ context.Context, tech *models.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.techs {
		if t.ID == tech.ID || t.EmployeeID == tech.EmployeeID {
			return models.NewConflictError("technician with employee id %s already exists", tech.EmployeeID)
		}
	}
	r.techs[tech.ID] = *tech
	return nil
}

func (r *MemoryTechnicianRepo) UpdateProfile(_ context.Context, tech *models.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.techs[tech.ID]
	if !ok {
		return models.NewNotFoundError("technician", tech.ID)
	}
	stored.Name = tech.Name
	stored.Specialization = tech.Specialization
	stored.MaxDailyWorkload = tech.MaxDailyWorkload
	stored.HourlyRate = tech.HourlyRate
	stored.ExperienceYears = tech.ExperienceYears
	stored.UpdatedAt = time.Now()
	r.techs[tech.ID] = stored
	*tech = stored
	return nil
}

func (r *MemoryTechnicianRepo) GetByID(_ context.Context, id string) (*models.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.techs[id]
	if !ok {
		return nil, models.NewNotFoundError("technician", id)
	}
	return &t, nil
}

func (r *MemoryTechnicianRepo) FindAll(context.Context) ([]models.Technician, error) {
	out := r.collect(func(models.Technician) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *MemoryTechnicianRepo) FindActive(context.Context) ([]models.Technician, error) {
	out := r.collect(func(t models.Technician) bool { return t.Active })
	sort.SliceStable(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *MemoryTechnicianRepo) FindAvailable(context.Context) ([]models.Technician, error) {
	out := r.collect(func(t models.Technician) bool { return t.HasCapacity() })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CurrentWorkload != out[j].CurrentWorkload {
			return out[i].CurrentWorkload < out[j].CurrentWorkload
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (r *MemoryTechnicianRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.techs[id]
	if !ok {
		return models.NewNotFoundError("technician", id)
	}
	t.Active = active
	t.UpdatedAt = time.Now()
	r.techs[id] = t
	return nil
}

func (r *MemoryTechnicianRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.techs {
		if t.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

// AdjustWorkload adds delta to the technician's workload, floored at 0, and bumps the version.
func (r *MemoryTechnicianRepo) AdjustWorkload(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.techs[id]
	if !ok {
		return models.NewNotFoundError("technician", id)
	}
	t.CurrentWorkload += delta
	if t.CurrentWorkload < 0 {
		t.CurrentWorkload = 0
	}
	t.Version++
	t.UpdatedAt = time.Now()
	r.techs[id] = t
	return nil
}

func (r *MemoryTechnicianRepo) collect(keep func(models.Technician) bool) []models.Technician {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Technician, 0)
	for _, t := range r.techs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
