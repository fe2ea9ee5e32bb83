package models

import "time"

// AssignmentStatus is the lifecycle state of a technician assignment.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "ASSIGNED"
	AssignmentInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentCompleted  AssignmentStatus = "COMPLETED"
	AssignmentCancelled  AssignmentStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

// Active reports whether the assignment still holds a unit of technician workload.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentAssigned || s == AssignmentInProgress
}

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted, AssignmentCancelled:
		return true
	}
	return false
}

// CanTransition reports whether s -> next is allowed:
// ASSIGNED -> IN_PROGRESS -> COMPLETED, and CANCELLED from any non-terminal state.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	switch s {
	case AssignmentAssigned:
		return next == AssignmentInProgress || next == AssignmentCompleted || next == AssignmentCancelled
	case AssignmentInProgress:
		return next == AssignmentCompleted || next == AssignmentCancelled
	}
	return false
}

// Assignment binds a technician to a booking.
type Assignment struct {
	ID             string           `bson:"id" json:"id"`
	BookingID      string           `bson:"bookingId" json:"bookingId"`
	TechnicianID   string           `bson:"technicianId" json:"technicianId"`
	AssignedBy     string           `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	AssignmentDate time.Time        `bson:"assignmentDate" json:"assignmentDate"`
	Status         AssignmentStatus `bson:"status" json:"status"`
	Notes          string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// AssignmentInput is the request to assign a technician to a booking.
type AssignmentInput struct {
	BookingID      string     `json:"bookingId" binding:"required"`
	TechnicianID   string     `json:"technicianId" binding:"required"`
	Notes          string     `json:"notes"`
	AssignmentDate *time.Time `json:"assignmentDate"`
}
