package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vehicleservice/models"
)

// ProcessPayment charges the booking through the payment engine and stores the
// new balance when the payment succeeds. A declined payment is not an error.
func (s *DefaultBookingService) ProcessPayment(ctx context.Context, id string, amount decimal.Decimal, method string) (*models.Booking, models.PaymentResult, error) {
	unlock := s.locks.Lock(bookingKey(id))
	defer unlock()

	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, models.PaymentResult{}, err
	}
	res := s.Payments.ProcessPayment(ctx, b, amount, method)
	if !res.Success {
		return b, res, nil
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = strings.ToUpper(strings.TrimSpace(method))
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, res, fmt.Errorf("payment %s succeeded but booking %s was not saved: %w", res.TransactionID, id, err)
	}
	return b, res, nil
}

// UpdatePayment overrides the paid amount, as staff do for offline payments.
func (s *DefaultBookingService) UpdatePayment(ctx context.Context, id string, paidAmount decimal.Decimal) (*models.Booking, error) {
	if paidAmount.IsNegative() {
		return nil, models.NewValidationError("paidAmount", "paid amount cannot be negative")
	}
	return s.mutate(ctx, id, func(b *models.Booking) {
		b.ApplyPaid(paidAmount)
	})
}

// ProcessRefund returns everything paid and marks the booking REFUNDED.
func (s *DefaultBookingService) ProcessRefund(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.mutate(ctx, id, func(b *models.Booking) {
		b.Refund()
	})
	if err == nil {
		s.Logger.Info("booking refunded", zap.String("booking", id))
	}
	return b, err
}

// CancelBooking refunds when asked to and something was paid; otherwise it only
// marks the booking REFUNDED.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string, refund bool) (*models.Booking, error) {
	b, err := s.mutate(ctx, id, func(b *models.Booking) {
		if refund && b.PaidAmount.IsPositive() {
			b.Refund()
			return
		}
		b.PaymentStatus = models.PaymentRefunded
	})
	if err == nil {
		s.Logger.Info("booking cancelled", zap.String("booking", id), zap.Bool("refund", refund))
	}
	return b, err
}

func (s *DefaultBookingService) mutate(ctx context.Context, id string, apply func(*models.Booking)) (*models.Booking, error) {
	unlock := s.locks.Lock(bookingKey(id))
	defer unlock()

	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(b)
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *DefaultBookingService) CalculateServicePricing(serviceType string) models.PricingResult {
	return s.Pricing.CalculateCompletePricing(serviceType)
}

func (s *DefaultBookingService) CalculateTotalCost(serviceType string, additional decimal.Decimal) decimal.Decimal {
	return s.Pricing.CalculateTotalCost(serviceType, additional)
}

func (s *DefaultBookingService) CalculateRemainingAmount(total, paid decimal.Decimal) decimal.Decimal {
	return models.RemainingAmount(total, paid)
}
