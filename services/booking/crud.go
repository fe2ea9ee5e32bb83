package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"vehicleservice/models"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.Repo.Find(ctx, filter)
}

// UpdateBooking re-prices and, if needed, reschedules a booking. Both the old and
// the new date are locked so the capacity check sees a stable picture. The paid
// amount is kept and the payment status re-derived against the new total.
func (s *DefaultBookingService) UpdateBooking(ctx context.Context, id string, in models.BookingInput) (*models.Booking, error) {
	unlockBooking := s.locks.Lock(bookingKey(id))
	defer unlockBooking()

	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = current.PaymentMethod
	}
	next, date, minute, err := s.draft(in)
	if err != nil {
		return nil, err
	}

	unlockDates := s.locks.LockAll(dateKey(current.Date), dateKey(next.Date))
	defer unlockDates()

	if err := s.ensureCapacity(ctx, date, minute, next.ServiceType, id); err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.BookingNumber = current.BookingNumber
	next.Version = current.Version
	next.CreatedAt = current.CreatedAt
	next.ApplyPaid(current.PaidAmount)
	if current.PaymentStatus == models.PaymentRefunded && current.PaidAmount.IsZero() {
		next.PaymentStatus = models.PaymentRefunded
	}

	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, err
	}
	s.Slots.Invalidate(ctx, current.Date)
	if next.Date != current.Date {
		s.Slots.Invalidate(ctx, next.Date)
	}
	s.Logger.Info("booking updated",
		zap.String("booking", id),
		zap.String("date", next.Date),
		zap.String("total", next.TotalPrice.String()))
	return next, nil
}

// DeleteBooking removes a booking, then its technician assignments. If the
// assignments cannot be removed the booking stays deleted and the leftovers
// are picked up by the orphaned-assignment cleanup.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, id string) error {
	unlock := s.locks.Lock(bookingKey(id))
	defer unlock()

	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unlockDate := s.locks.Lock(dateKey(b.Date))
	err = s.Repo.Delete(ctx, id)
	unlockDate()
	if err != nil {
		return err
	}
	s.Slots.Invalidate(ctx, b.Date)
	s.Logger.Info("booking deleted", zap.String("booking", id), zap.String("number", b.BookingNumber))

	if s.Assignments == nil {
		return nil
	}
	removed, err := s.Assignments.DeleteAssignmentsByBooking(ctx, id)
	if err != nil {
		s.Logger.Warn("booking assignments left for orphan cleanup",
			zap.String("booking", id), zap.Int("removed", removed), zap.Error(err))
		return nil
	}
	if removed > 0 {
		s.Logger.Info("booking assignments removed", zap.String("booking", id), zap.Int("count", removed))
	}
	return nil
}

func (s *DefaultBookingService) SearchBookings(ctx context.Context, keyword string) ([]models.Booking, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.Repo.FindAll(ctx)
	}
	return s.Repo.Find(ctx, models.BookingFilter{Keyword: keyword})
}

func (s *DefaultBookingService) BookingsByCustomer(ctx context.Context, name string) ([]models.Booking, error) {
	return s.Repo.Find(ctx, models.BookingFilter{CustomerName: strings.TrimSpace(name)})
}

func (s *DefaultBookingService) BookingsByVehicle(ctx context.Context, vehicleNumber string) ([]models.Booking, error) {
	return s.Repo.Find(ctx, models.BookingFilter{VehicleNumber: strings.TrimSpace(vehicleNumber)})
}

func (s *DefaultBookingService) BookingsByPaymentStatus(ctx context.Context, status models.PaymentStatus) ([]models.Booking, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("paymentStatus", "unknown payment status %q", status)
	}
	return s.Repo.Find(ctx, models.BookingFilter{PaymentStatus: status})
}

func (s *DefaultBookingService) BookingsByDateRange(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	if to.Before(from) {
		return nil, models.NewValidationError("to", "end of range is before its start")
	}
	return s.Repo.Find(ctx, models.BookingFilter{From: &from, To: &to})
}

// UpcomingBookings covers the next seven days.
func (s *DefaultBookingService) UpcomingBookings(ctx context.Context) ([]models.Booking, error) {
	now := s.now()
	return s.BookingsByDateRange(ctx, now, now.AddDate(0, 0, 7))
}
