package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Technician is a workshop employee who can be assigned to bookings.
// CurrentWorkload counts active assignments and is only changed together with them.
type Technician struct {
	ID               string          `bson:"id" json:"id"`
	UserRef          string          `bson:"userRef,omitempty" json:"userRef,omitempty"`
	EmployeeID       string          `bson:"employeeId" json:"employeeId"`
	Name             string          `bson:"name,omitempty" json:"name,omitempty"`
	Specialization   string          `bson:"specialization,omitempty" json:"specialization,omitempty"`
	MaxDailyWorkload int             `bson:"maxDailyWorkload" json:"maxDailyWorkload"`
	CurrentWorkload  int             `bson:"currentWorkload" json:"currentWorkload"`
	HourlyRate       decimal.Decimal `bson:"hourlyRate" json:"hourlyRate"`
	ExperienceYears  int             `bson:"experienceYears" json:"experienceYears"`
	Active           bool            `bson:"active" json:"active"`
	Version          int             `bson:"version" json:"version"` // bumped on every workload change
	CreatedAt        time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// HasCapacity reports whether the technician is below the daily cap.
func (t *Technician) HasCapacity() bool {
	return t.Active && t.CurrentWorkload < t.MaxDailyWorkload
}

// TechnicianInput is the request to register a technician.
type TechnicianInput struct {
	UserRef          string          `json:"userRef"`
	EmployeeID       string          `json:"employeeId" binding:"required"`
	Name             string          `json:"name"`
	Specialization   string          `json:"specialization"`
	MaxDailyWorkload int             `json:"maxDailyWorkload"`
	HourlyRate       decimal.Decimal `json:"hourlyRate"`
	ExperienceYears  int             `json:"experienceYears"`
}

// TechnicianWorkloadStats summarises a technician's assignments by status.
type TechnicianWorkloadStats struct {
	TechnicianID     string  `json:"technicianId"`
	CurrentWorkload  int     `json:"currentWorkload"`
	MaxDailyWorkload int     `json:"maxDailyWorkload"`
	Assigned         int     `json:"assigned"`
	InProgress       int     `json:"inProgress"`
	Completed        int     `json:"completed"`
	Cancelled        int     `json:"cancelled"`
	Utilization      float64 `json:"utilization"` // current / max, 0 when max is 0
}

// TechnicianWithAssignments pairs a technician with their assignment history.
type TechnicianWithAssignments struct {
	Technician  Technician   `json:"technician"`
	Assignments []Assignment `json:"assignments"`
}
