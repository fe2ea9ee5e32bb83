package booking

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingRepo "vehicleservice/database/repository/booking"
	"vehicleservice/models"
	"vehicleservice/services/payment"
	"vehicleservice/services/pricing"
	"vehicleservice/services/slots"
	"vehicleservice/utils"
)

// BookingService manages bookings, their slot capacity and their payments.
type BookingService interface {
	CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id string, in models.BookingInput) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	SearchBookings(ctx context.Context, keyword string) ([]models.Booking, error)
	BookingsByCustomer(ctx context.Context, name string) ([]models.Booking, error)
	BookingsByVehicle(ctx context.Context, vehicleNumber string) ([]models.Booking, error)
	BookingsByPaymentStatus(ctx context.Context, status models.PaymentStatus) ([]models.Booking, error)
	BookingsByDateRange(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	UpcomingBookings(ctx context.Context) ([]models.Booking, error)

	GetAvailableSlots(ctx context.Context, date, serviceType string) ([]models.TimeSlot, error)
	GetRealTimeAvailableSlots(ctx context.Context, date, serviceType string) ([]models.TimeSlot, error)
	GetAvailableSlotsForWeek(ctx context.Context, startDate, serviceType string) ([]models.DateSlots, error)
	IsSlotAvailable(ctx context.Context, date, clock, serviceType string) (bool, error)
	ForceRefreshSlotAvailability(ctx context.Context, date string) error

	ProcessPayment(ctx context.Context, id string, amount decimal.Decimal, method string) (*models.Booking, models.PaymentResult, error)
	UpdatePayment(ctx context.Context, id string, paidAmount decimal.Decimal) (*models.Booking, error)
	ProcessRefund(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string, refund bool) (*models.Booking, error)

	CalculateServicePricing(serviceType string) models.PricingResult
	CalculateTotalCost(serviceType string, additional decimal.Decimal) decimal.Decimal
	CalculateRemainingAmount(total, paid decimal.Decimal) decimal.Decimal
}

// AssignmentRemover drops a booking's technician assignments, releasing workload.
type AssignmentRemover interface {
	DeleteAssignmentsByBooking(ctx context.Context, bookingID string) (int, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	Slots       *slots.Checker
	Pricing     *pricing.Engine
	Payments    *payment.Engine
	Assignments AssignmentRemover // optional
	Location    *time.Location
	Logger      *zap.Logger

	locks  *utils.KeyedMutex
	now    func() time.Time
	random func(n int) int
}

func NewBookingService(
	repo bookingRepo.BookingRepository,
	checker *slots.Checker,
	pricingEngine *pricing.Engine,
	paymentEngine *payment.Engine,
	loc *time.Location,
	logger *zap.Logger,
) *DefaultBookingService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:     repo,
		Slots:    checker,
		Pricing:  pricingEngine,
		Payments: paymentEngine,
		Location: loc,
		Logger:   logger,
		locks:    utils.NewKeyedMutex(),
		now:      time.Now,
		random:   rand.Intn,
	}
}

func dateKey(date string) string  { return "date:" + date }
func bookingKey(id string) string { return "booking:" + id }
