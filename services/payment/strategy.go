package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vehicleservice/models"
	"vehicleservice/services/strategy"
)

// Strategy processes payments for one family of payment methods.
type Strategy interface {
	strategy.Strategy
	Method() string
	ProcessingFees(amount decimal.Decimal, method string) decimal.Decimal
	Validate(b *models.Booking, amount decimal.Decimal, method string) models.PaymentValidation
	Process(ctx context.Context, b *models.Booking, amount decimal.Decimal, method string) models.PaymentResult
}

// bounds are the inclusive per-transaction limits of a method, in LKR.
type bounds struct {
	label    string // "Cash" or "Card"
	min, max decimal.Decimal
}

// check validates amount limits, then the booking, then the outstanding balance.
func (b bounds) check(bk *models.Booking, amount decimal.Decimal) models.PaymentValidation {
	if amount.LessThan(b.min) {
		return invalid(fmt.Sprintf("%s payment amount must be at least %s LKR", b.label, b.min.StringFixed(2)))
	}
	if amount.GreaterThan(b.max) {
		return invalid(fmt.Sprintf("%s payment amount cannot exceed %s LKR", b.label, b.max.StringFixed(2)))
	}
	if bk == nil {
		return invalid("Invalid booking")
	}
	if amount.GreaterThan(bk.Outstanding()) {
		return invalid("Payment amount cannot exceed total booking price")
	}
	return models.PaymentValidation{Valid: true}
}

func invalid(msg string) models.PaymentValidation {
	return models.PaymentValidation{Valid: false, ErrorMessage: msg}
}

// settle records a successful payment on the booking.
func settle(b *models.Booking, amount decimal.Decimal) {
	b.ApplyPaid(b.PaidAmount.Add(amount))
}

func transactionID(prefix string) string {
	return prefix + "_" + strings.ToUpper(uuid.New().String()[:8])
}

func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
