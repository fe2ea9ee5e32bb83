package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vehicleservice/models"
	"vehicleservice/services/strategy"
)

var sampleAmount = decimal.NewFromInt(1000)

// Engine resolves a payment strategy by method name. Unlike pricing and slots
// there is no fallback: an unknown method is rejected.
type Engine struct {
	registry *strategy.Registry[Strategy]
	logger   *zap.Logger
}

// DefaultStrategies registers card before cash.
func DefaultStrategies(gateway Gateway) []Strategy {
	return []Strategy{NewCardPayment(gateway), NewCashPayment()}
}

func NewEngine(logger *zap.Logger, strategies ...Strategy) *Engine {
	if len(strategies) == 0 {
		strategies = DefaultStrategies(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: strategy.NewStrictRegistry(strategies...), logger: logger}
}

func (e *Engine) Resolve(method string) (Strategy, bool) {
	return e.registry.Resolve(method)
}

// ProcessPayment mutates b only when the result is successful.
func (e *Engine) ProcessPayment(ctx context.Context, b *models.Booking, amount decimal.Decimal, method string) models.PaymentResult {
	s, ok := e.Resolve(method)
	if !ok {
		e.logger.Warn("unsupported payment method", zap.String("method", method))
		return models.FailedPayment("Unsupported payment method: " + method)
	}

	res := s.Process(ctx, b, amount, method)
	if !res.Success {
		e.logger.Info("payment rejected",
			zap.String("method", method),
			zap.String("amount", amount.String()),
			zap.String("reason", res.Message))
		return res
	}
	e.logger.Info("payment processed",
		zap.String("booking", b.ID),
		zap.String("transaction", res.TransactionID),
		zap.String("method", method),
		zap.String("amount", amount.String()),
		zap.String("fees", res.ProcessingFees.String()),
		zap.String("status", string(b.PaymentStatus)))
	return res
}

func (e *Engine) ValidatePayment(b *models.Booking, amount decimal.Decimal, method string) models.PaymentValidation {
	s, ok := e.Resolve(method)
	if !ok {
		return invalid("Unsupported payment method: " + method)
	}
	return s.Validate(b, amount, method)
}

// CalculateProcessingFees is zero for unsupported methods.
func (e *Engine) CalculateProcessingFees(amount decimal.Decimal, method string) decimal.Decimal {
	s, ok := e.Resolve(method)
	if !ok {
		return decimal.Zero
	}
	return s.ProcessingFees(amount, method)
}

// Info quotes the fee on a 1000 LKR transaction.
func (e *Engine) Info(method string) models.PaymentMethodInfo {
	s, ok := e.Resolve(method)
	if !ok {
		return models.PaymentMethodInfo{
			RequestedMethod:      method,
			SupportedMethod:      "UNSUPPORTED",
			SampleProcessingFees: decimal.Zero,
			Description:          "Payment method not supported",
		}
	}
	fees := s.ProcessingFees(sampleAmount, method)
	return models.PaymentMethodInfo{
		RequestedMethod:      method,
		SupportedMethod:      s.Method(),
		SampleProcessingFees: fees,
		Description:          fmt.Sprintf("Processing fees: %s LKR per 1000 LKR transaction", fees.StringFixed(2)),
	}
}

// SupportedMethods lists the distinct strategy method names in registration order.
func (e *Engine) SupportedMethods() []string {
	return e.registry.Categories()
}
