package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"vehicleservice/models"
)

const MethodCash = "CASH"

// CashPayment is collected at the counter: no fee, always authorized.
type CashPayment struct {
	limits bounds
}

func NewCashPayment() *CashPayment {
	return &CashPayment{limits: bounds{label: "Cash", min: decimal.NewFromInt(100), max: decimal.NewFromInt(100000)}}
}

func (c *CashPayment) Method() string   { return MethodCash }
func (c *CashPayment) Category() string { return MethodCash }

func (c *CashPayment) AppliesTo(method string) bool {
	return normalizeMethod(method) == MethodCash
}

func (c *CashPayment) ProcessingFees(decimal.Decimal, string) decimal.Decimal {
	return decimal.Zero
}

func (c *CashPayment) Validate(b *models.Booking, amount decimal.Decimal, _ string) models.PaymentValidation {
	return c.limits.check(b, amount)
}

func (c *CashPayment) Process(_ context.Context, b *models.Booking, amount decimal.Decimal, method string) models.PaymentResult {
	if v := c.Validate(b, amount, method); !v.Valid {
		return models.FailedPayment(v.ErrorMessage)
	}
	settle(b, amount)
	return models.PaymentResult{
		Success:         true,
		TransactionID:   transactionID(MethodCash),
		Message:         "Cash payment processed successfully",
		ProcessedAmount: amount,
		ProcessingFees:  c.ProcessingFees(amount, method),
	}
}
