// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Slot endpoints
	GetSlotsHandler     gin.HandlerFunc
	GetWeekSlotsHandler gin.HandlerFunc
	CheckSlotHandler    gin.HandlerFunc
	SlotInfoHandler     gin.HandlerFunc
	RefreshSlotsHandler gin.HandlerFunc

	// Pricing and payment catalogue endpoints
	PricingHandler        gin.HandlerFunc
	PaymentMethodsHandler gin.HandlerFunc
	PaymentInfoHandler    gin.HandlerFunc
	PaymentFeesHandler    gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler      gin.HandlerFunc
	ListBookingsHandler       gin.HandlerFunc
	SearchBookingsHandler     gin.HandlerFunc
	UpcomingHandler           gin.HandlerFunc
	GetBookingHandler         gin.HandlerFunc
	UpdateBookingHandler      gin.HandlerFunc
	DeleteBookingHandler      gin.HandlerFunc
	ProcessPaymentHandler     gin.HandlerFunc
	UpdatePaymentHandler      gin.HandlerFunc
	RefundBookingHandler      gin.HandlerFunc
	CancelBookingHandler      gin.HandlerFunc
	BookingAssignmentsHandler gin.HandlerFunc

	// Technician endpoints
	CreateTechnicianHandler     gin.HandlerFunc
	ListTechniciansHandler      gin.HandlerFunc
	GetTechnicianHandler        gin.HandlerFunc
	UpdateTechnicianHandler     gin.HandlerFunc
	DeactivateTechnicianHandler gin.HandlerFunc
	TechnicianStatsHandler      gin.HandlerFunc
	TechnicianWorkHandler       gin.HandlerFunc
	TechnicianOverviewHandler   gin.HandlerFunc

	// Assignment endpoints
	AssignHandler             gin.HandlerFunc
	ListAssignmentsHandler    gin.HandlerFunc
	GetAssignmentHandler      gin.HandlerFunc
	StartAssignmentHandler    gin.HandlerFunc
	CompleteAssignmentHandler gin.HandlerFunc
	CancelAssignmentHandler   gin.HandlerFunc
	UpdateStatusHandler       gin.HandlerFunc
	RemoveAssignmentHandler   gin.HandlerFunc
	CleanupHandler            gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
