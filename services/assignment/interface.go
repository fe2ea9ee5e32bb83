package assignment

import (
	"context"
	"time"

	"go.uber.org/zap"

	assignmentRepo "vehicleservice/database/repository/assignment"
	technicianRepo "vehicleservice/database/repository/technician"
	"vehicleservice/models"
	"vehicleservice/utils"
)

const defaultMaxDailyWorkload = 6

// WorkloadAllocator binds technicians to bookings and keeps each technician's
// workload equal to their number of active assignments.
type WorkloadAllocator interface {
	Assign(ctx context.Context, in models.AssignmentInput, assignedBy string) (*models.Assignment, error)
	StartAssignment(ctx context.Context, id string) (*models.Assignment, error)
	CompleteAssignment(ctx context.Context, id string) (*models.Assignment, error)
	CancelAssignment(ctx context.Context, id string) (*models.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.Assignment, error)
	RemoveAssignment(ctx context.Context, id string) error
	DeleteAssignmentsByBooking(ctx context.Context, bookingID string) (int, error)
	CleanupOrphanedAssignments(ctx context.Context) (int, error)

	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	AssignmentsByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error)
	ActiveAssignmentsByTechnician(ctx context.Context, technicianID string) ([]models.Assignment, error)
	AssignmentsByBooking(ctx context.Context, bookingID string) ([]models.Assignment, error)

	CreateTechnician(ctx context.Context, in models.TechnicianInput) (*models.Technician, error)
	UpdateTechnician(ctx context.Context, id string, in models.TechnicianInput) (*models.Technician, error)
	DeactivateTechnician(ctx context.Context, id string) error
	GetTechnician(ctx context.Context, id string) (*models.Technician, error)
	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	ActiveTechnicians(ctx context.Context) ([]models.Technician, error)
	AvailableTechnicians(ctx context.Context) ([]models.Technician, error)
	TechnicianStats(ctx context.Context, id string) (*models.TechnicianWorkloadStats, error)
	TechnicianWithAssignments(ctx context.Context, id string) (*models.TechnicianWithAssignments, error)
	AllTechniciansWithAssignments(ctx context.Context) ([]models.TechnicianWithAssignments, error)
}

// BookingLookup resolves bookings referenced by assignments.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// DefaultWorkloadAllocator implements WorkloadAllocator. Writes touching a
// technician are serialised per technician; the store pairs each assignment
// write with its workload change.
type DefaultWorkloadAllocator struct {
	Assignments        assignmentRepo.AssignmentRepository
	Technicians        technicianRepo.TechnicianRepository
	Bookings           BookingLookup
	DefaultMaxWorkload int
	Logger             *zap.Logger

	locks *utils.KeyedMutex
	now   func() time.Time
}

func NewWorkloadAllocator(
	assignments assignmentRepo.AssignmentRepository,
	technicians technicianRepo.TechnicianRepository,
	bookings BookingLookup,
	defaultMax int,
	logger *zap.Logger,
) *DefaultWorkloadAllocator {
	if defaultMax <= 0 {
		defaultMax = defaultMaxDailyWorkload
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultWorkloadAllocator{
		Assignments:        assignments,
		Technicians:        technicians,
		Bookings:           bookings,
		DefaultMaxWorkload: defaultMax,
		Logger:             logger,
		locks:              utils.NewKeyedMutex(),
		now:                time.Now,
	}
}

func (a *DefaultWorkloadAllocator) lockTechnician(id string) func() {
	return a.locks.Lock("technician:" + id)
}
