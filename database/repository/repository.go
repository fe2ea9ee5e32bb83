package repository

import (
	"log"

	assignmentRepo "vehicleservice/database/repository/assignment"
	bookingRepo "vehicleservice/database/repository/booking"
	technicianRepo "vehicleservice/database/repository/technician"
)

// Re-export the BookingRepository interface and constructors.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the TechnicianRepository interface and constructors.
type TechnicianRepository = technicianRepo.TechnicianRepository

var NewMongoTechnicianRepo = technicianRepo.NewMongoTechnicianRepo

// Re-export the AssignmentRepository interface and constructors.
type AssignmentRepository = assignmentRepo.AssignmentRepository

var NewMongoAssignmentRepo = assignmentRepo.NewMongoAssignmentRepo

// Store groups the repositories the services need.
type Store struct {
	Bookings    BookingRepository
	Technicians TechnicianRepository
	Assignments AssignmentRepository
}

// NewMongoStore builds MongoDB repositories and ensures their indexes.
// database.InitDB must have been called first.
func NewMongoStore() *Store {
	store := &Store{
		Bookings:    NewMongoBookingRepo(),
		Technicians: NewMongoTechnicianRepo(),
		Assignments: NewMongoAssignmentRepo(),
	}
	for _, repo := range []any{store.Bookings, store.Technicians, store.Assignments} {
		if ix, ok := repo.(interface{ EnsureIndexes() error }); ok {
			if err := ix.EnsureIndexes(); err != nil {
				log.Printf("index setup failed: %v", err)
			}
		}
	}
	return store
}

// NewMemoryStore builds in-process repositories sharing one technician table.
func NewMemoryStore() *Store {
	techs := technicianRepo.NewMemoryTechnicianRepo()
	return &Store{
		Bookings:    bookingRepo.NewMemoryBookingRepo(),
		Technicians: techs,
		Assignments: assignmentRepo.NewMemoryAssignmentRepo(techs),
	}
}
