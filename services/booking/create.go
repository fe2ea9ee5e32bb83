package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vehicleservice/models"
	"vehicleservice/services/payment"
	"vehicleservice/services/slots"
)

// CreateBooking prices the request, reserves a place in the slot containing the
// requested time and persists the booking. An initial payment, if any, is
// processed after the booking is stored; a declined payment leaves it unpaid.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	draft, date, minute, err := s.draft(in)
	if err != nil {
		return nil, err
	}

	method := draft.PaymentMethod
	if in.InitialPayment.IsPositive() {
		if method == "" {
			method = payment.MethodCash
			draft.PaymentMethod = method
		}
		if v := s.Payments.ValidatePayment(draft, in.InitialPayment, method); !v.Valid {
			return nil, models.NewValidationError("initialPayment", "%s", v.ErrorMessage)
		}
	}

	now := s.now()
	draft.ID = uuid.New().String()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if err := s.reserve(ctx, draft, date, minute); err != nil {
		return nil, err
	}
	s.Logger.Info("booking created",
		zap.String("booking", draft.ID),
		zap.String("number", draft.BookingNumber),
		zap.String("date", draft.Date),
		zap.String("time", models.FormatMinute(draft.Minute)),
		zap.String("serviceType", draft.ServiceType),
		zap.String("total", draft.TotalPrice.String()))

	if !in.InitialPayment.IsPositive() {
		return draft, nil
	}
	booking, res, err := s.ProcessPayment(ctx, draft.ID, in.InitialPayment, method)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		s.Logger.Warn("initial payment declined",
			zap.String("booking", draft.ID),
			zap.String("reason", res.Message))
	}
	return booking, nil
}

// reserve re-counts committed bookings for the slot under the date lock and
// inserts only if the slot still has room.
func (s *DefaultBookingService) reserve(ctx context.Context, b *models.Booking, date time.Time, minute int) error {
	unlock := s.locks.Lock(dateKey(b.Date))
	defer unlock()

	if err := s.ensureCapacity(ctx, date, minute, b.ServiceType, ""); err != nil {
		return err
	}
	number, err := s.generateBookingNumber(ctx)
	if err != nil {
		return err
	}
	b.BookingNumber = number

	if err := s.Repo.Create(ctx, b); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	s.Slots.Invalidate(ctx, b.Date)
	return nil
}

// ensureCapacity fails with a ConflictError when the window containing minute
// is full. excludeID leaves one booking out of the count, for reschedules.
func (s *DefaultBookingService) ensureCapacity(ctx context.Context, date time.Time, minute int, serviceType, excludeID string) error {
	window, capacity := s.Slots.Window(date, minute, serviceType)
	existing, err := s.Repo.FindByDate(ctx, date.Format(models.DateLayout))
	if err != nil {
		return fmt.Errorf("failed to load bookings for %s: %w", window.Date, err)
	}
	others := existing[:0:0]
	for _, b := range existing {
		if b.ID != excludeID {
			others = append(others, b)
		}
	}
	if slots.CountInSlot(others, window) >= capacity {
		return models.NewConflictError("time slot %s on %s is fully booked", window.Label(), window.Date)
	}
	return nil
}

// draft validates the input and builds a priced booking without an id or number.
func (s *DefaultBookingService) draft(in models.BookingInput) (*models.Booking, time.Time, int, error) {
	b := &models.Booking{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		VehicleNumber: strings.ToUpper(strings.TrimSpace(in.VehicleNumber)),
		ServiceType:   strings.TrimSpace(in.ServiceType),
		Notes:         in.Notes,
	}
	switch {
	case b.CustomerName == "":
		return nil, time.Time{}, 0, models.NewValidationError("customerName", "customer name is required")
	case b.VehicleNumber == "":
		return nil, time.Time{}, 0, models.NewValidationError("vehicleNumber", "vehicle number is required")
	case b.ServiceType == "":
		return nil, time.Time{}, 0, models.NewValidationError("serviceType", "service type is required")
	case in.AdditionalCharges.IsNegative():
		return nil, time.Time{}, 0, models.NewValidationError("additionalCharges", "additional charges cannot be negative")
	case in.InitialPayment.IsNegative():
		return nil, time.Time{}, 0, models.NewValidationError("initialPayment", "initial payment cannot be negative")
	}

	date, err := models.ParseDate(in.Date, s.Location)
	if err != nil {
		return nil, time.Time{}, 0, err
	}
	minute, err := models.ParseClock(in.Time)
	if err != nil {
		return nil, time.Time{}, 0, err
	}
	b.Schedule(models.At(date, minute), s.Location)

	if err := s.price(b, in.AdditionalCharges, in.PaymentMethod); err != nil {
		return nil, time.Time{}, 0, err
	}
	b.ApplyPaid(decimal.Zero)
	return b, date, minute, nil
}

// price sets service price, charges, processing fees and total. Fees apply to
// every method except cash and are charged on price plus charges.
func (s *DefaultBookingService) price(b *models.Booking, extra decimal.Decimal, method string) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	base := s.Pricing.BasePrice(b.ServiceType)
	additional := s.Pricing.AdditionalCharges(b.ServiceType, base).Add(extra)
	subtotal := s.Pricing.TotalPrice(b.ServiceType, base, additional)

	fees := decimal.Zero
	if method != "" {
		if _, ok := s.Payments.Resolve(method); !ok {
			return models.NewValidationError("paymentMethod", "Unsupported payment method: %s", method)
		}
		if method != payment.MethodCash {
			fees = s.Payments.CalculateProcessingFees(subtotal, method)
		}
	}

	b.ServicePrice = base
	b.AdditionalCharges = additional
	b.ProcessingFees = fees
	b.TotalPrice = subtotal.Add(fees)
	b.PaymentMethod = method
	return nil
}

// generateBookingNumber tries random BK numbers before falling back to the clock.
func (s *DefaultBookingService) generateBookingNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number := fmt.Sprintf("BK%d", 100000+s.random(900000))
		exists, err := s.Repo.ExistsByBookingNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check booking number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return fmt.Sprintf("BK%d", s.now().UnixMilli()), nil
}
